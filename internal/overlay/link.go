package overlay

import (
	"fmt"
	"strings"

	"entityoverlay/internal/entity"
)

const (
	// RouteOverlay 浮层响应路由
	RouteOverlay = "entity_overlay.get_entity_response"
	// Placeholder 列表渲染时代替实体 ID 的占位符
	// ID 恰好为 "0" 的实体与占位符冲突，不受支持。
	Placeholder = "0"
)

// CanonicalRoute 实体规范页面的路由名
func CanonicalRoute(entityType string) string {
	return "entity." + entityType + ".canonical"
}

// OverlayLink 浮层链接
type OverlayLink struct {
	Path    string                 `json:"path"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// LinkBuilder 浮层链接构建器
type LinkBuilder struct {
	routes RouteResolver
}

// NewLinkBuilder 创建链接构建器
func NewLinkBuilder(routes RouteResolver) *LinkBuilder {
	return &LinkBuilder{routes: routes}
}

// BuildTemplate 构建实体 ID 未知时的路径模板，ID 位置为占位符
func (b *LinkBuilder) BuildTemplate(entityType, viewMode string) (OverlayLink, error) {
	path, err := b.URL(EntityRef{Type: entityType, ID: Placeholder}, viewMode, NoScript)
	if err != nil {
		return OverlayLink{}, err
	}
	if !strings.Contains(path, Placeholder) {
		return OverlayLink{}, fmt.Errorf("%w: %s", ErrPlaceholderMissing, path)
	}

	return OverlayLink{
		Path: path,
		Options: map[string]interface{}{
			"entity_type": entityType,
			"view_mode":   viewMode,
			"placeholder": Placeholder,
		},
	}, nil
}

// BuildForEntity 构建指定实体的浮层链接
// method 默认为 nojs，客户端脚本会把它升级为 ajax。
func (b *LinkBuilder) BuildForEntity(e *entity.Entity, viewMode string) (OverlayLink, error) {
	path, err := b.URL(e.Ref(), viewMode, NoScript)
	if err != nil {
		return OverlayLink{}, err
	}

	return OverlayLink{
		Path: path,
		Options: map[string]interface{}{
			"title": e.Title,
			"attributes": map[string]interface{}{
				"class": []string{"use-ajax", "entity-overlay__" + ContainerClass(e.Ref())},
			},
		},
	}, nil
}

// URL 指定传输方式的浮层路径
func (b *LinkBuilder) URL(ref EntityRef, viewMode string, mode TransportMode) (string, error) {
	path, err := b.routes.ToPath(RouteOverlay, map[string]string{
		"method":         string(mode),
		"entity_type_id": ref.Type,
		"entity_id":      ref.ID,
		"view_mode":      viewMode,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build overlay path for %s: %w", ref, err)
	}
	return path, nil
}

// Canonical 实体规范页面路径
func (b *LinkBuilder) Canonical(ref EntityRef) (string, error) {
	return b.routes.ToPath(CanonicalRoute(ref.Type), map[string]string{ref.Type: ref.ID})
}

// SubstitutePlaceholder 把模板中最后一个占位符替换为实体 ID
// 模板中没有占位符时原样返回模板和 ErrPlaceholderMissing。
func SubstitutePlaceholder(template, id string) (string, error) {
	i := strings.LastIndex(template, Placeholder)
	if i < 0 {
		return template, fmt.Errorf("%w: %q", ErrPlaceholderMissing, template)
	}
	return template[:i] + id + template[i+len(Placeholder):], nil
}
