package service

import (
	"errors"
	"fmt"

	"entityoverlay/internal/display"
	"entityoverlay/internal/dsl"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
)

// ErrUnknownBlock 区块未定义
var ErrUnknownBlock = errors.New("unknown block")

// BlockService 最新内容列表区块
type BlockService struct {
	loader   *dsl.Loader
	entities *EntityService
	views    *display.ViewBuilder
	engine   *render.Engine
	links    *overlay.LinkBuilder
}

// NewBlockService 创建区块服务
func NewBlockService(loader *dsl.Loader, entities *EntityService, views *display.ViewBuilder, engine *render.Engine, links *overlay.LinkBuilder) *BlockService {
	return &BlockService{
		loader:   loader,
		entities: entities,
		views:    views,
		engine:   engine,
		links:    links,
	}
}

// Get 获取区块配置
func (s *BlockService) Get(id string) (*dsl.Block, error) {
	block, err := s.loader.GetBlock(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	return block, nil
}

// Build 渲染区块：最新的 items 个实体以列表视图模式渲染
func (s *BlockService) Build(id, locale string) (*overlay.RenderedFragment, error) {
	block, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	entities, _, err := s.entities.List(block.ContentType, 0, block.Items, nil)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.links.BuildTemplate(block.ContentType, block.OverlayViewMode)
	if err != nil {
		return nil, err
	}

	pass := overlay.NewRenderPass()
	var attached overlay.Attachments
	items := make([]string, 0, len(entities))

	for _, e := range entities {
		view, err := s.views.View(pass, e, block.ListViewMode, locale)
		if err != nil {
			return nil, err
		}
		attached.Merge(view.Attached)

		overlayURL, err := overlay.SubstitutePlaceholder(tmpl.Path, e.ID)
		if err != nil {
			return nil, err
		}

		item, err := s.engine.Render("list_item.html", map[string]interface{}{
			"entity_view":    view.Markup,
			"entity_id":      e.ID,
			"entity_type_id": e.Type,
			"overlay_url":    overlayURL,
			"item_class":     block.ItemClass,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	markup, err := s.engine.Render("list.html", map[string]interface{}{
		"wrapper_class": block.WrapperClass,
		"list_type":     block.ListType,
		"list_class":    block.ListClass,
		"items":         items,
	})
	if err != nil {
		return nil, err
	}

	attached.Merge(overlay.Attachments{
		Libraries: []string{overlay.LibraryBehaviors, overlay.LibraryCommands},
		Settings: map[string]interface{}{
			"overlay_view_mode": block.OverlayViewMode,
			"list_selector":     block.ListClass,
			"overlay_path":      tmpl.Path,
		},
	})

	return &overlay.RenderedFragment{Markup: markup, Attached: attached}, nil
}
