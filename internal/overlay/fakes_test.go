package overlay

import (
	"fmt"
	"strings"

	"entityoverlay/internal/entity"
)

type fakeRoutes struct{}

func (fakeRoutes) ToPath(name string, params map[string]string) (string, error) {
	if name == RouteOverlay {
		return fmt.Sprintf("/entity-overlay/%s/%s/%s/%s",
			params["method"], params["entity_type_id"], params["entity_id"], params["view_mode"]), nil
	}
	if strings.HasPrefix(name, "entity.") && strings.HasSuffix(name, ".canonical") {
		entityType := strings.TrimSuffix(strings.TrimPrefix(name, "entity."), ".canonical")
		if entityType == "ghost" {
			return "", fmt.Errorf("route %q not found", name)
		}
		return "/" + entityType + "/" + params[entityType], nil
	}
	return "", fmt.Errorf("route %q not found", name)
}

type fakeStore struct {
	entities map[string]*entity.Entity
	loads    int
	err      error
}

func (s *fakeStore) Load(entityType, id string) (*entity.Entity, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.entities[entityType+"/"+id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", entity.ErrNotFound, entityType, id)
	}
	return e, nil
}

type renderCall struct {
	ref      entity.Ref
	viewMode string
	locale   string
}

type fakeRenderer struct {
	calls    []renderCall
	err      error
	attached Attachments
}

func (r *fakeRenderer) Render(e *entity.Entity, viewMode, locale string) (*RenderedFragment, error) {
	r.calls = append(r.calls, renderCall{ref: e.Ref(), viewMode: viewMode, locale: locale})
	if r.err != nil {
		return nil, r.err
	}
	return &RenderedFragment{
		Markup:   fmt.Sprintf("<article>%s:%s</article>", e.Title, viewMode),
		Attached: r.attached,
	}, nil
}

func article17() *entity.Entity {
	return &entity.Entity{Type: "article", Bundle: "article", ID: "17", Langcode: "en", Title: "Seventeen"}
}
