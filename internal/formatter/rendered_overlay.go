package formatter

import (
	"entityoverlay/internal/dsl"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
)

// ListSelector 列表包裹元素的类名，客户端据此查找条目
const ListSelector = "entity_overlay_wrapper"

// RenderedOverlay 以列表视图模式渲染引用实体，点击后在浮层中显示
type RenderedOverlay struct {
	base
}

// NewRenderedOverlay 创建格式化器
func NewRenderedOverlay(engine *render.Engine, links *overlay.LinkBuilder, logger overlay.Logger) *RenderedOverlay {
	return &RenderedOverlay{base{engine: engine, links: links, logger: logger}}
}

// ID 格式化器 ID
func (f *RenderedOverlay) ID() string {
	return dsl.FormatterRenderedOverlay
}

// ViewElements 渲染字段
func (f *RenderedOverlay) ViewElements(ctx Context, items Items, settings dsl.FormatterSettings) (*overlay.RenderedFragment, error) {
	settings = settings.WithDefaults()

	tmpl, err := f.links.BuildTemplate(items.Field.TargetType, settings.OverlayViewMode)
	if err != nil {
		return nil, err
	}

	var attached overlay.Attachments
	rendered := make([]string, 0, len(items.Targets))

	for _, target := range items.Targets {
		if !f.allow(ctx, items, target) {
			continue
		}

		view, err := ctx.Viewer.View(ctx.Pass, target, settings.ListViewMode, ctx.Locale)
		if err != nil {
			return nil, err
		}
		attached.Merge(view.Attached)

		overlayURL, err := overlay.SubstitutePlaceholder(tmpl.Path, target.ID)
		if err != nil {
			return nil, err
		}

		item, err := f.engine.Render("list_item.html", map[string]interface{}{
			"entity_view":    view.Markup,
			"entity_id":      target.ID,
			"entity_type_id": target.Type,
			"overlay_url":    overlayURL,
		})
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, item)
	}

	markup, err := f.engine.Render("field.html", map[string]interface{}{
		"wrapper_class": ListSelector,
		"items":         rendered,
	})
	if err != nil {
		return nil, err
	}

	attached.Merge(overlay.Attachments{
		Libraries: []string{overlay.LibraryBehaviors, overlay.LibraryCommands},
		Settings: map[string]interface{}{
			"overlay_view_mode": settings.OverlayViewMode,
			"list_selector":     ListSelector,
			"overlay_path":      tmpl.Path,
		},
	})

	return &overlay.RenderedFragment{Markup: markup, Attached: attached}, nil
}
