package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/assets"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
	"entityoverlay/internal/service"
)

// PageViewMode 实体页面使用的视图模式，类型未声明时使用默认模式
const PageViewMode = "full"

// PageHandler HTML 页面处理器
type PageHandler struct {
	entities *service.EntityService
	schema   *service.SchemaService
	blocks   *service.BlockService
	views    overlay.ViewRenderer
	engine   *render.Engine
}

// NewPageHandler 创建页面处理器
func NewPageHandler(entities *service.EntityService, schema *service.SchemaService, blocks *service.BlockService, views overlay.ViewRenderer, engine *render.Engine) *PageHandler {
	return &PageHandler{
		entities: entities,
		schema:   schema,
		blocks:   blocks,
		views:    views,
		engine:   engine,
	}
}

// Entity 实体规范页面，路由参数名与实体类型相同
func (h *PageHandler) Entity(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := h.entities.Load(entityType, c.Param(entityType))
		if err != nil {
			Fail(c, err)
			return
		}

		viewMode := PageViewMode
		if options, err := h.schema.ViewModeOptions(entityType); err == nil {
			if _, ok := options[viewMode]; !ok {
				viewMode = "default"
			}
		}

		fragment, err := h.views.Render(e, viewMode, e.Langcode)
		if err != nil {
			Fail(c, err)
			return
		}
		h.page(c, e.Title, e.Langcode, fragment)
	}
}

// Block 区块页面
func (h *PageHandler) Block(c *gin.Context) {
	block, err := h.blocks.Get(c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}

	fragment, err := h.blocks.Build(block.ID, c.Query("locale"))
	if err != nil {
		Fail(c, err)
		return
	}

	title := block.Label
	if title == "" {
		title = block.ID
	}
	h.page(c, title, c.DefaultQuery("locale", "und"), fragment)
}

// BlockJSON 区块片段
func (h *PageHandler) BlockJSON(c *gin.Context) {
	fragment, err := h.blocks.Build(c.Param("id"), c.Query("locale"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{
		"markup":   fragment.Markup,
		"attached": fragment.Attached,
		"scripts":  assets.Scripts(fragment.Attached.Libraries),
	})
}

func (h *PageHandler) page(c *gin.Context, title, langcode string, fragment *overlay.RenderedFragment) {
	settings := fragment.Attached.Settings
	if settings == nil {
		settings = map[string]interface{}{}
	}
	encoded, err := json.Marshal(settings)
	if err != nil {
		Fail(c, err)
		return
	}

	html, err := h.engine.Render("page.html", map[string]interface{}{
		"title":    title,
		"langcode": langcode,
		"scripts":  assets.Scripts(fragment.Attached.Libraries),
		"content":  fragment.Markup,
		"settings": string(encoded),
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
