package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/display"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/service"
	"entityoverlay/internal/storage"
)

// Response 统一响应格式
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Fail 按错误类型选择状态码
func Fail(c *gin.Context, err error) {
	Error(c, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, overlay.ErrInvalidTransport),
		errors.Is(err, service.ErrInvalidData),
		errors.Is(err, service.ErrReservedID),
		errors.Is(err, service.ErrCardinality):
		return http.StatusBadRequest
	case errors.Is(err, overlay.ErrEntityNotFound),
		errors.Is(err, entity.ErrNotFound),
		errors.Is(err, entity.ErrUnknownType),
		errors.Is(err, storage.ErrReferenceNotFound),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, service.ErrUnknownBlock),
		errors.Is(err, display.ErrUnknownViewMode):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
