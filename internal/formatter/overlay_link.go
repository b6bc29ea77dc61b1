package formatter

import (
	"strings"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
)

// OverlayLink 每个引用实体附带一个打开浮层的链接
type OverlayLink struct {
	base
}

// NewOverlayLink 创建格式化器
func NewOverlayLink(engine *render.Engine, links *overlay.LinkBuilder, logger overlay.Logger) *OverlayLink {
	return &OverlayLink{base{engine: engine, links: links, logger: logger}}
}

// ID 格式化器 ID
func (f *OverlayLink) ID() string {
	return dsl.FormatterOverlayLink
}

// ViewElements 渲染字段
func (f *OverlayLink) ViewElements(ctx Context, items Items, settings dsl.FormatterSettings) (*overlay.RenderedFragment, error) {
	settings = settings.WithDefaults()

	var attached overlay.Attachments
	entitySettings := make(map[string]interface{}, len(items.Targets))
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

		link, err := f.links.BuildForEntity(target, settings.OverlayViewMode)
		if err != nil {
			return nil, err
		}
		overlayURL, err := f.links.URL(target.Ref(), settings.OverlayViewMode, overlay.Scripted)
		if err != nil {
			return nil, err
		}
		canonical, err := f.links.Canonical(target.Ref())
		if err != nil {
			return nil, err
		}

		item, err := f.engine.Render("list_item.html", map[string]interface{}{
			"entity_view":    view.Markup,
			"entity_id":      target.ID,
			"entity_type_id": target.Type,
			"overlay_link": map[string]interface{}{
				"path":  link.Path,
				"title": link.Options["title"],
				"class": strings.Join(linkClasses(link), " "),
			},
		})
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, item)

		entitySettings[target.Type+"_"+target.ID] = map[string]interface{}{
			"overlay_url": overlayURL,
			"path_match":  []string{strings.TrimPrefix(canonical, "/")},
		}
	}

	markup, err := f.engine.Render("field.html", map[string]interface{}{
		"wrapper_class": "entity_overlay_links",
		"items":         rendered,
		"suffix":        overlay.EmptyContainer(),
	})
	if err != nil {
		return nil, err
	}

	attached.Merge(overlay.Attachments{
		Libraries: []string{overlay.LibraryBehaviors, overlay.LibraryCommands},
		Settings: map[string]interface{}{
			"entity_overlay": entitySettings,
		},
	})

	return &overlay.RenderedFragment{Markup: markup, Attached: attached}, nil
}

func linkClasses(link overlay.OverlayLink) []string {
	attrs, _ := link.Options["attributes"].(map[string]interface{})
	classes, _ := attrs["class"].([]string)
	return classes
}
