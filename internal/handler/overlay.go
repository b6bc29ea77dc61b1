package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/overlay"
)

// OverlayHandler 浮层响应处理器
type OverlayHandler struct {
	resolver *overlay.Resolver
	dialog   overlay.DialogOptions
	logger   overlay.Logger
}

// NewOverlayHandler 创建浮层处理器
func NewOverlayHandler(resolver *overlay.Resolver, dialog overlay.DialogOptions, logger overlay.Logger) *OverlayHandler {
	return &OverlayHandler{
		resolver: resolver,
		dialog:   dialog,
		logger:   logger,
	}
}

// GetEntityResponse nojs 时重定向到实体页面，ajax 时返回命令列表
func (h *OverlayHandler) GetEntityResponse(c *gin.Context) {
	mode, err := overlay.ParseTransportMode(c.Param("method"))
	if err != nil {
		Fail(c, err)
		return
	}

	outcome, err := h.resolver.Resolve(overlay.OverlayRequest{
		Transport: mode,
		Target:    overlay.EntityRef{Type: c.Param("entity_type_id"), ID: c.Param("entity_id")},
		ViewMode:  c.Param("view_mode"),
	})
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			h.logger.Error("overlay response failed", map[string]interface{}{
				"entity_type": c.Param("entity_type_id"),
				"entity_id":   c.Param("entity_id"),
				"view_mode":   c.Param("view_mode"),
				"error":       err.Error(),
			})
		}
		Fail(c, err)
		return
	}

	switch outcome.Kind {
	case overlay.OutcomeRedirect:
		c.Redirect(outcome.Redirect.Status, outcome.Redirect.Location)
	case overlay.OutcomeFragment:
		c.JSON(http.StatusOK, overlay.NewOverlayCommands(outcome.Fragment, h.dialog))
	}
}
