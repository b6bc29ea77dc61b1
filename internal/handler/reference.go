package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/service"
)

// ReferenceHandler 实体引用处理器
type ReferenceHandler struct {
	references *service.ReferenceService
}

// NewReferenceHandler 创建引用处理器
func NewReferenceHandler(references *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{
		references: references,
	}
}

// CreateReference 创建引用
func (h *ReferenceHandler) CreateReference(c *gin.Context) {
	var req struct {
		SourceID   string                 `json:"source_id" binding:"required"`
		TargetID   string                 `json:"target_id" binding:"required"`
		Properties map[string]interface{} `json:"properties,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.references.Create(c.Param("field"), req.SourceID, req.TargetID, req.Properties)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, map[string]string{"id": id})
}

// GetReference 获取引用
func (h *ReferenceHandler) GetReference(c *gin.Context) {
	ref, err := h.references.Get(c.Param("field"), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, ref)
}

// DeleteReference 删除引用
func (h *ReferenceHandler) DeleteReference(c *gin.Context) {
	if err := h.references.Delete(c.Param("field"), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// ListReferences 按 source_id 或 target_id 查询引用
func (h *ReferenceHandler) ListReferences(c *gin.Context) {
	field := c.Param("field")

	if sourceID := c.Query("source_id"); sourceID != "" {
		refs, err := h.references.ListBySource(field, sourceID)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, refs)
		return
	}
	if targetID := c.Query("target_id"); targetID != "" {
		refs, err := h.references.ListByTarget(field, targetID)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, refs)
		return
	}

	Error(c, http.StatusBadRequest, "source_id or target_id is required")
}
