package formatter

import (
	"fmt"
	"sort"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
)

// Viewer 按视图模式渲染实体
type Viewer interface {
	View(pass *overlay.RenderPass, e *entity.Entity, viewMode, locale string) (*overlay.RenderedFragment, error)
}

// Context 一次字段渲染的上下文
type Context struct {
	Pass   *overlay.RenderPass
	Viewer Viewer
	Locale string
}

// Items 某个容器实体的引用字段及其目标实体
type Items struct {
	Container *entity.Entity
	Field     dsl.LinkType
	Targets   []*entity.Entity
}

// Formatter 实体引用字段格式化器
type Formatter interface {
	ID() string
	ViewElements(ctx Context, items Items, settings dsl.FormatterSettings) (*overlay.RenderedFragment, error)
	Summary(settings dsl.FormatterSettings, viewModes map[string]string) []string
}

// Registry 格式化器注册表
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry 创建注册表
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[string]Formatter, len(formatters))}
	for _, f := range formatters {
		r.formatters[f.ID()] = f
	}
	return r
}

// Get 根据 ID 获取格式化器
func (r *Registry) Get(id string) (Formatter, error) {
	f, ok := r.formatters[id]
	if !ok {
		return nil, fmt.Errorf("formatter '%s' not found", id)
	}
	return f, nil
}

// IDs 已注册的格式化器 ID
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.formatters))
	for id := range r.formatters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// base 两个格式化器共享的依赖
type base struct {
	engine *render.Engine
	links  *overlay.LinkBuilder
	logger overlay.Logger
}

// allow 递归保护，超过阈值时记录一次日志并跳过该条目
func (b *base) allow(ctx Context, items Items, target *entity.Entity) bool {
	key := overlay.RenderGuardKey{
		ContainerType:   items.Container.Type,
		ContainerBundle: items.Container.Bundle,
		Field:           items.Field.Name,
		ContainerID:     items.Container.ID,
		TargetType:      target.Type,
		TargetID:        target.ID,
	}
	if ctx.Pass.Guard.ShouldRender(key) {
		return true
	}

	b.logger.Error("Recursive rendering detected, skipping referenced entity", map[string]interface{}{
		"entity_type": target.Type,
		"entity_id":   target.ID,
		"field_name":  items.Field.Name,
		"bundle_name": items.Container.Bundle,
	})
	return false
}

// Summary 设置摘要
func (b *base) Summary(settings dsl.FormatterSettings, viewModes map[string]string) []string {
	settings = settings.WithDefaults()
	return []string{
		"List rendered as " + labelOf(viewModes, settings.ListViewMode),
		"Overlay rendered as " + labelOf(viewModes, settings.OverlayViewMode),
	}
}

func labelOf(viewModes map[string]string, mode string) string {
	if label, ok := viewModes[mode]; ok && label != "" {
		return label
	}
	return mode
}
