package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Spotmap-App/internal/domain/model"
)

func media(urls ...string) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(urls))
	for _, u := range urls {
		out = append(out, model.MediaItem{URL: u})
	}
	return out
}

func urls(items []model.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.URL)
	}
	return out
}

func TestAppendMedia(t *testing.T) {
	got := AppendMedia(media("a", "b"), media("b", "c", "c", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, urls(got.Media))
	assert.Equal(t, 2, got.Added)
	assert.Empty(t, got.Removed)
}

func TestOverwriteMedia(t *testing.T) {
	got := OverwriteMedia(media("a", "b", "c"), media("c", "d", "d"))
	assert.Equal(t, []string{"c", "d"}, urls(got.Media))
	assert.Equal(t, 1, got.Added)
	assert.Equal(t, []string{"a", "b"}, urls(got.Removed))
}

func TestMergeChanges(t *testing.T) {
	changes := mergeChanges("external_references", map[string]model.Nullable[string]{
		"wikidata": model.Deleted[string](),
		"osm":      model.Present("node/1"),
	})
	assert.Equal(t, []model.FieldChange{
		model.SetField("node/1", "external_references", "osm"),
		model.DeleteField("external_references", "wikidata"),
	}, changes)

	assert.Empty(t, mergeChanges[string]("external_references", nil))
}
