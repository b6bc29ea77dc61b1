package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/service"
)

// EntityHandler 实体处理器
type EntityHandler struct {
	entities   *service.EntityService
	references *service.ReferenceService
}

// NewEntityHandler 创建实体处理器
func NewEntityHandler(entities *service.EntityService, references *service.ReferenceService) *EntityHandler {
	return &EntityHandler{
		entities:   entities,
		references: references,
	}
}

// CreateEntity 创建实体
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.entities.Create(c.Param("entity_type"), data)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, map[string]string{"id": id})
}

// GetEntity 获取实体
func (h *EntityHandler) GetEntity(c *gin.Context) {
	e, err := h.entities.Load(c.Param("entity_type"), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, e)
}

// UpdateEntity 更新实体
func (h *EntityHandler) UpdateEntity(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.entities.Update(c.Param("entity_type"), c.Param("id"), data); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// DeleteEntity 删除实体及其引用
func (h *EntityHandler) DeleteEntity(c *gin.Context) {
	e, err := h.entities.Load(c.Param("entity_type"), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}

	if err := h.references.DeleteForEntity(e); err != nil {
		Fail(c, err)
		return
	}
	if err := h.entities.Delete(e.Type, e.ID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// ListEntities 列出实体，offset 和 limit 之外的查询参数作为过滤条件
func (h *EntityHandler) ListEntities(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if key != "offset" && key != "limit" && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	entities, total, err := h.entities.List(c.Param("entity_type"), offset, limit, filters)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, map[string]interface{}{
		"items":  entities,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}
