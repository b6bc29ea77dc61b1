package overlay

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"entityoverlay/internal/entity"
)

// ContainerID 浮层内容容器的元素 ID
const ContainerID = "entity-overlay__container"

// ContainerClass 按实体区分浮层样式的 CSS 类名
func ContainerClass(ref EntityRef) string {
	return ref.Type + "-" + ref.ID
}

// EmptyContainer 页面上等待填充的空容器
func EmptyContainer() string {
	return `<div id="` + ContainerID + `"></div>`
}

// OutcomeKind 解析结果类型
type OutcomeKind int

const (
	// OutcomeRedirect 重定向
	OutcomeRedirect OutcomeKind = iota + 1
	// OutcomeFragment 渲染片段
	OutcomeFragment
)

// Redirect 重定向描述
type Redirect struct {
	Location string
	Status   int
}

// Fragment 渲染片段描述
type Fragment struct {
	Entity         *entity.Entity
	ViewMode       string
	ContainerID    string
	ContainerClass string
	Markup         string
	Attached       Attachments
}

// Outcome 一次解析的终态
type Outcome struct {
	Kind     OutcomeKind
	Redirect *Redirect
	Fragment *Fragment
}

// Resolver 浮层解析器
type Resolver struct {
	store    EntityStore
	renderer ViewRenderer
	links    *LinkBuilder
}

// NewResolver 创建解析器
func NewResolver(store EntityStore, renderer ViewRenderer, links *LinkBuilder) *Resolver {
	return &Resolver{
		store:    store,
		renderer: renderer,
		links:    links,
	}
}

// Resolve 决定重定向还是渲染片段
// 脚本模式下的失败不会回退为重定向。
func (r *Resolver) Resolve(req OverlayRequest) (*Outcome, error) {
	switch req.Transport {
	case NoScript:
		return r.redirect(req.Target)
	case Scripted:
		return r.fragment(req)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidTransport, req.Transport)
}

func (r *Resolver) redirect(target EntityRef) (*Outcome, error) {
	location, err := r.links.Canonical(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve canonical path for %s: %w", target, err)
	}
	return &Outcome{
		Kind: OutcomeRedirect,
		Redirect: &Redirect{
			Location: location,
			Status:   http.StatusFound,
		},
	}, nil
}

func (r *Resolver) fragment(req OverlayRequest) (*Outcome, error) {
	if req.Target.Type == "" || req.Target.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, req.Target)
	}

	e, err := r.store.Load(req.Target.Type, req.Target.ID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrUnknownType) {
			return nil, fmt.Errorf("%w: %s: %v", ErrEntityNotFound, req.Target, err)
		}
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, req.Target)
	}

	rendered, err := r.renderer.Render(e, req.ViewMode, e.Langcode)
	if err != nil {
		return nil, err
	}

	class := ContainerClass(e.Ref())
	markup := `<div id="` + ContainerID + `" class="entity-overlay__container ` + html.EscapeString(class) + `">` +
		rendered.Markup + `</div>`

	return &Outcome{
		Kind: OutcomeFragment,
		Fragment: &Fragment{
			Entity:         e,
			ViewMode:       req.ViewMode,
			ContainerID:    ContainerID,
			ContainerClass: class,
			Markup:         markup,
			Attached:       rendered.Attached,
		},
	}, nil
}
