package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityData() map[string]interface{} {
	return map[string]interface{}{
		"entity": map[string]interface{}{
			"type":  "article",
			"id":    "17",
			"title": "Hello <world>",
			"data":  map[string]interface{}{"summary": "Short"},
		},
		"view_mode": "full",
		"url":       "/article/17",
		"properties": []map[string]interface{}{
			{"name": "body", "value": `<p>ok</p><script>alert(1)</script>`, "html": true},
			{"name": "summary", "value": "a < b", "html": false},
		},
		"fields": []map[string]interface{}{
			{"name": "related", "label": "Related", "markup": `<div class="entity_overlay_wrapper"></div>`},
		},
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	out, err := e.RenderFirst([]string{"entity/article--full.html", "entity/full.html", "entity/default.html"}, entityData())
	require.NoError(t, err)

	assert.Contains(t, out, `class="entity entity--article entity--full"`)
	assert.Contains(t, out, `<a href="/article/17" rel="bookmark">Hello &lt;world&gt;</a>`)
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "a &lt; b")
	assert.Contains(t, out, `<div class="entity_overlay_wrapper"></div>`)
}

func TestRenderTeaserTemplate(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	out, err := e.Render("entity/teaser.html", entityData())
	require.NoError(t, err)

	assert.Contains(t, out, `class="node-readmore"`)
	assert.Contains(t, out, `rel="bookmark"`)
	assert.Contains(t, out, "Short")
}

func TestRenderFirstMissing(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	_, err = e.RenderFirst([]string{"entity/nope.html"}, nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "entity"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entity", "article--full.html"), []byte(`custom {{ entity.title }}`), 0644))

	e, err := New(WithOverrideDir(dir))
	require.NoError(t, err)

	assert.True(t, e.Exists("entity/article--full.html"))
	assert.True(t, e.Exists("entity/default.html"))
	assert.False(t, e.Exists("entity"))

	out, err := e.RenderFirst([]string{"entity/article--full.html", "entity/default.html"}, entityData())
	require.NoError(t, err)
	assert.Equal(t, "custom Hello &lt;world&gt;", out)

	out, err = e.Render("entity/teaser.html", entityData())
	require.NoError(t, err)
	assert.Contains(t, out, "node-readmore")
}

func TestOverrideDirMissing(t *testing.T) {
	_, err := New(WithOverrideDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}

func TestRenderList(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	out, err := e.Render("list.html", map[string]interface{}{
		"list_type":  "ol",
		"list_class": "entity_overlay",
		"items":      []string{"<b>one</b>", "<b>two</b>"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<ol class="entity_overlay">`)
	assert.Contains(t, out, "<li><b>one</b></li>")
	assert.Contains(t, out, "</ol>")
}

func TestSanitizeAndClassName(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="x()">hi</p><script>bad()</script>`))
	assert.Equal(t, "blog-post", ClassName(" Blog Post "))
	assert.Equal(t, "a_b-c", ClassName("a_b/c"))
}
