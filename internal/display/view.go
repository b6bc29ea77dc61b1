package display

import (
	"errors"
	"fmt"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/formatter"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
)

// ErrUnknownViewMode 对象类型未声明该视图模式
var ErrUnknownViewMode = errors.New("unknown view mode")

// ReferenceSource 按引用字段查找容器实体引用的目标实体
type ReferenceSource interface {
	ReferencedEntities(container *entity.Entity, field dsl.LinkType) ([]*entity.Entity, error)
}

// ViewBuilder 把实体渲染为指定视图模式的 HTML 片段
type ViewBuilder struct {
	loader     *dsl.Loader
	engine     *render.Engine
	references ReferenceSource
	formatters *formatter.Registry
	links      *overlay.LinkBuilder
}

// NewViewBuilder 创建视图构建器
func NewViewBuilder(loader *dsl.Loader, engine *render.Engine, references ReferenceSource, formatters *formatter.Registry, links *overlay.LinkBuilder) *ViewBuilder {
	return &ViewBuilder{
		loader:     loader,
		engine:     engine,
		references: references,
		formatters: formatters,
		links:      links,
	}
}

// Render 以新的渲染轮次渲染实体，实现 overlay.ViewRenderer
func (b *ViewBuilder) Render(e *entity.Entity, viewMode, locale string) (*overlay.RenderedFragment, error) {
	return b.View(overlay.NewRenderPass(), e, viewMode, locale)
}

// View 在给定渲染轮次中渲染实体
func (b *ViewBuilder) View(pass *overlay.RenderPass, e *entity.Entity, viewMode, locale string) (*overlay.RenderedFragment, error) {
	ot, err := b.loader.GetObjectType(e.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownType, e.Type)
	}
	if !b.loader.HasViewMode(e.Type, viewMode) {
		return nil, fmt.Errorf("%w: '%s' on %s", ErrUnknownViewMode, viewMode, e.Type)
	}

	var attached overlay.Attachments
	fields, err := b.renderFields(pass, e, viewMode, locale, &attached)
	if err != nil {
		return nil, err
	}

	url, err := b.links.Canonical(e.Ref())
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"entity": map[string]interface{}{
			"type":     e.Type,
			"id":       e.ID,
			"bundle":   e.Bundle,
			"title":    e.Title,
			"langcode": e.Langcode,
			"data":     e.Data,
		},
		"view_mode":  viewMode,
		"locale":     locale,
		"url":        url,
		"properties": properties(ot, e),
		"fields":     fields,
	}

	markup, err := b.engine.RenderFirst([]string{
		fmt.Sprintf("entity/%s--%s.html", e.Type, viewMode),
		fmt.Sprintf("entity/%s.html", viewMode),
		"entity/default.html",
	}, data)
	if err != nil {
		return nil, err
	}

	return &overlay.RenderedFragment{Markup: markup, Attached: attached}, nil
}

func (b *ViewBuilder) renderFields(pass *overlay.RenderPass, e *entity.Entity, viewMode, locale string, attached *overlay.Attachments) ([]map[string]interface{}, error) {
	display := b.loader.GetDisplay(e.Type, viewMode)
	fields := make([]map[string]interface{}, 0, len(display.Fields))

	for _, fd := range display.Fields {
		lt, err := b.loader.GetLinkType(fd.Field)
		if err != nil {
			return nil, err
		}

		targets, err := b.references.ReferencedEntities(e, *lt)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Field, err)
		}
		if len(targets) == 0 {
			continue
		}

		f, err := b.formatters.Get(fd.Formatter)
		if err != nil {
			return nil, err
		}

		out, err := f.ViewElements(formatter.Context{Pass: pass, Viewer: b, Locale: locale}, formatter.Items{
			Container: e,
			Field:     *lt,
			Targets:   targets,
		}, fd.Settings)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Field, err)
		}

		attached.Merge(out.Attached)
		fields = append(fields, map[string]interface{}{
			"name":   lt.Name,
			"label":  labelOrName(lt.Label, lt.Name),
			"markup": out.Markup,
		})
	}

	return fields, nil
}

// properties 模板中显示的属性，标签属性已作为标题显示
func properties(ot *dsl.ObjectType, e *entity.Entity) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(ot.Properties))
	for _, prop := range ot.Properties {
		if prop.Name == ot.LabelProperty || prop.Name == ot.BundleProperty {
			continue
		}
		value, ok := e.Data[prop.Name]
		if !ok || value == nil || value == "" {
			continue
		}
		result = append(result, map[string]interface{}{
			"name":  prop.Name,
			"value": value,
			"html":  prop.DataType == "html",
		})
	}
	return result
}

func labelOrName(label, name string) string {
	if label != "" {
		return label
	}
	return name
}
