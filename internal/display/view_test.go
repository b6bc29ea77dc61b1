package display

import (
	"errors"
	"strings"
	"testing"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/formatter"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
	"entityoverlay/internal/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewSchema = `
version: "1.0"
namespace: test
object_types:
  - name: article
    label_property: title
    properties:
      - name: title
        data_type: string
      - name: body
        data_type: html
    view_modes: [teaser, full]
    displays:
      full:
        fields:
          - field: related
            formatter: entity_reference_entity_overlay_view
            settings:
              overlay_view_mode: full
      teaser:
        fields:
          - field: echo
            formatter: entity_reference_entity_overlay_view
            settings:
              list_view_mode: teaser
link_types:
  - name: related
    label: Related
    source_type: article
    target_type: article
  - name: echo
    source_type: article
    target_type: article
`

type fakeReferences struct {
	targets map[string][]*entity.Entity
	err     error
}

func (r *fakeReferences) ReferencedEntities(container *entity.Entity, field dsl.LinkType) ([]*entity.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.targets[container.ID+"/"+field.Name], nil
}

type countingLogger struct {
	count int
}

func (l *countingLogger) Error(string, map[string]interface{}) {
	l.count++
}

func article(id, title string) *entity.Entity {
	return &entity.Entity{
		Type:     "article",
		Bundle:   "article",
		ID:       id,
		Title:    title,
		Langcode: "en",
		Data:     map[string]interface{}{"title": title, "body": `<p onclick="x()">Body of ` + title + `</p>`},
	}
}

func newTestBuilder(t *testing.T, schema string, refs *fakeReferences) (*ViewBuilder, *countingLogger) {
	t.Helper()

	parsed, err := dsl.ParseBytes([]byte(schema))
	require.NoError(t, err)
	loader := dsl.NewLoader("")
	require.NoError(t, loader.LoadSchema(parsed))

	engine, err := render.New()
	require.NoError(t, err)
	table, err := route.NewOverlayTable("article")
	require.NoError(t, err)
	links := overlay.NewLinkBuilder(table)

	logger := &countingLogger{}
	registry := formatter.NewRegistry(
		formatter.NewRenderedOverlay(engine, links, logger),
		formatter.NewOverlayLink(engine, links, logger),
	)
	return NewViewBuilder(loader, engine, refs, registry, links), logger
}

func TestViewRendersFieldsAndAttachments(t *testing.T) {
	refs := &fakeReferences{targets: map[string][]*entity.Entity{
		"a1/related": {article("a2", "Second")},
	}}
	builder, logger := newTestBuilder(t, viewSchema, refs)

	out, err := builder.Render(article("a1", "First"), "full", "en")
	require.NoError(t, err)

	assert.Contains(t, out.Markup, `entity--full`)
	assert.Contains(t, out.Markup, `<a href="/article/a1" rel="bookmark">First</a>`)
	assert.Contains(t, out.Markup, `<p>Body of First</p>`)
	assert.NotContains(t, out.Markup, `onclick`)
	assert.Contains(t, out.Markup, `entity__field--related`)
	assert.Contains(t, out.Markup, `Related`)
	assert.Contains(t, out.Markup, `data-entity-overlay-id="a2"`)
	assert.Contains(t, out.Markup, `entity--teaser`)

	assert.Equal(t, "/entity-overlay/nojs/article/0/full", out.Attached.Settings["overlay_path"])
	assert.Contains(t, out.Attached.Libraries, overlay.LibraryBehaviors)
	assert.Zero(t, logger.count)
}

func TestViewWithoutReferencesSkipsField(t *testing.T) {
	builder, _ := newTestBuilder(t, viewSchema, &fakeReferences{})

	out, err := builder.Render(article("a1", "First"), "full", "en")
	require.NoError(t, err)
	assert.NotContains(t, out.Markup, `entity__field--related`)
	assert.True(t, out.Attached.Empty())
}

func TestViewUnknownViewMode(t *testing.T) {
	builder, _ := newTestBuilder(t, viewSchema, &fakeReferences{})

	_, err := builder.Render(article("a1", "First"), "rss", "en")
	assert.True(t, errors.Is(err, ErrUnknownViewMode))

	_, err = builder.Render(&entity.Entity{Type: "page", ID: "p1"}, "default", "en")
	assert.True(t, errors.Is(err, entity.ErrUnknownType))
}

func TestViewReferenceFailure(t *testing.T) {
	builder, _ := newTestBuilder(t, viewSchema, &fakeReferences{err: errors.New("disk gone")})

	_, err := builder.Render(article("a1", "First"), "full", "en")
	assert.EqualError(t, err, "field related: disk gone")
}

func TestViewSelfReferenceStopsAtLimit(t *testing.T) {
	a1 := article("a1", "First")
	refs := &fakeReferences{targets: map[string][]*entity.Entity{
		"a1/echo": {a1},
	}}
	builder, logger := newTestBuilder(t, viewSchema, refs)

	out, err := builder.Render(a1, "teaser", "en")
	require.NoError(t, err)

	assert.Equal(t, overlay.RecursiveRenderLimit, strings.Count(out.Markup, `data-entity-overlay-id="a1"`))
	assert.Equal(t, 1, logger.count)

	// 每次顶层渲染使用新的计数器
	_, err = builder.Render(a1, "teaser", "en")
	require.NoError(t, err)
	assert.Equal(t, 2, logger.count)
}
