package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/service"
)

// SchemaHandler Schema 处理器
type SchemaHandler struct {
	schemaService *service.SchemaService
}

// NewSchemaHandler 创建 Schema 处理器
func NewSchemaHandler(schemaService *service.SchemaService) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// ListObjectTypes 列出所有对象类型
func (h *SchemaHandler) ListObjectTypes(c *gin.Context) {
	Success(c, h.schemaService.ListObjectTypes())
}

// GetObjectType 获取对象类型详情
func (h *SchemaHandler) GetObjectType(c *gin.Context) {
	objectType, err := h.schemaService.GetObjectType(c.Param("name"))
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}
	Success(c, objectType)
}

// GetViewModes 对象类型的视图模式
func (h *SchemaHandler) GetViewModes(c *gin.Context) {
	options, err := h.schemaService.ViewModeOptions(c.Param("name"))
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}
	Success(c, options)
}

// GetDisplay 视图模式下各字段的格式化器摘要
func (h *SchemaHandler) GetDisplay(c *gin.Context) {
	summaries, err := h.schemaService.DisplaySummary(c.Param("name"), c.Param("view_mode"))
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}
	Success(c, summaries)
}

// GetOutgoingLinks 对象类型作为源的引用字段
func (h *SchemaHandler) GetOutgoingLinks(c *gin.Context) {
	Success(c, h.schemaService.GetOutgoingLinks(c.Param("name")))
}

// GetIncomingLinks 对象类型作为目标的引用字段
func (h *SchemaHandler) GetIncomingLinks(c *gin.Context) {
	Success(c, h.schemaService.GetIncomingLinks(c.Param("name")))
}

// ListLinkTypes 列出所有引用字段
func (h *SchemaHandler) ListLinkTypes(c *gin.Context) {
	Success(c, h.schemaService.ListLinkTypes())
}

// GetLinkType 获取引用字段详情
func (h *SchemaHandler) GetLinkType(c *gin.Context) {
	linkType, err := h.schemaService.GetLinkType(c.Param("name"))
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}
	Success(c, linkType)
}

// ListBlocks 列出所有区块
func (h *SchemaHandler) ListBlocks(c *gin.Context) {
	Success(c, h.schemaService.ListBlocks())
}
