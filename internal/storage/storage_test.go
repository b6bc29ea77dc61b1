package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entityoverlay/internal/entity"
)

func newTestStorage(t *testing.T) (*EntityStorage, *ReferenceStorage) {
	t.Helper()
	pm := NewPathManager(t.TempDir(), "demo.content")
	return NewEntityStorage(pm), NewReferenceStorage(pm)
}

func TestEntityLifecycle(t *testing.T) {
	entities, _ := newTestStorage(t)

	id, err := entities.CreateEntity("article", map[string]interface{}{"id": "17", "title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "17", id)

	record, err := entities.GetEntity("article", "17")
	require.NoError(t, err)
	assert.Equal(t, "Hello", record["title"])
	assert.NotEmpty(t, record["created_at"])

	require.NoError(t, entities.UpdateEntity("article", "17", map[string]interface{}{"title": "Updated", "id": "99"}))
	record, err = entities.GetEntity("article", "17")
	require.NoError(t, err)
	assert.Equal(t, "Updated", record["title"])
	assert.Equal(t, "17", record["id"])

	require.NoError(t, entities.DeleteEntity("article", "17"))
	_, err = entities.GetEntity("article", "17")
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, entities.DeleteEntity("article", "17"), entity.ErrNotFound)
}

func TestCreateEntityGeneratesID(t *testing.T) {
	entities, _ := newTestStorage(t)

	id, err := entities.CreateEntity("article", map[string]interface{}{"title": "x"})
	require.NoError(t, err)
	assert.Len(t, id, 36)
}

func TestCreateEntityRejectsDuplicatesAndBadIDs(t *testing.T) {
	entities, _ := newTestStorage(t)

	_, err := entities.CreateEntity("article", map[string]interface{}{"id": "1"})
	require.NoError(t, err)
	_, err = entities.CreateEntity("article", map[string]interface{}{"id": "1"})
	assert.Error(t, err)

	_, err = entities.CreateEntity("article", map[string]interface{}{"id": "../etc"})
	assert.Error(t, err)

	_, err = entities.GetEntity("article", "../etc")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestListEntitiesLatestFirst(t *testing.T) {
	entities, _ := newTestStorage(t)

	for _, item := range []struct{ id, created string }{
		{"a", "2024-01-01T00:00:00.000000000Z"},
		{"c", "2024-03-01T00:00:00.000000000Z"},
		{"b", "2024-02-01T00:00:00.000000000Z"},
	} {
		_, err := entities.CreateEntity("article", map[string]interface{}{"id": item.id, "created_at": item.created})
		require.NoError(t, err)
	}

	records, total, err := entities.ListEntities("article", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0]["id"])
	assert.Equal(t, "b", records[1]["id"])

	records, _, err = entities.ListEntities("article", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, total, err = entities.ListEntities("page", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, total)
}

func TestSearchEntities(t *testing.T) {
	entities, _ := newTestStorage(t)
	_, _ = entities.CreateEntity("article", map[string]interface{}{"id": "1", "kind": "news"})
	_, _ = entities.CreateEntity("article", map[string]interface{}{"id": "2", "kind": "blog"})

	results, err := entities.SearchEntities("article", map[string]interface{}{"kind": "blog"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0]["id"])
}

func TestReferences(t *testing.T) {
	_, refs := newTestStorage(t)

	first, err := refs.CreateReference("related", "1", "2", nil)
	require.NoError(t, err)
	_, err = refs.CreateReference("related", "1", "3", map[string]interface{}{"note": "x"})
	require.NoError(t, err)
	_, err = refs.CreateReference("related", "4", "2", nil)
	require.NoError(t, err)

	bySource, err := refs.GetReferencesBySource("related", "1")
	require.NoError(t, err)
	require.Len(t, bySource, 2)
	assert.Equal(t, "2", bySource[0]["target_id"])
	assert.Equal(t, "3", bySource[1]["target_id"])
	assert.Equal(t, float64(1), bySource[1]["delta"])

	byTarget, err := refs.GetReferencesByTarget("related", "2")
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	record, err := refs.GetReference("related", first)
	require.NoError(t, err)
	assert.Equal(t, "1", record["source_id"])

	require.NoError(t, refs.DeleteReference("related", first))
	_, err = refs.GetReference("related", first)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "demo_content", normalizeNamespace("demo.content"))
	assert.Equal(t, "default", normalizeNamespace(""))
	assert.Equal(t, "blog_post", normalizeName("Blog-Post"))
	assert.Len(t, normalizeName("文章"), 32)
}
