package knowledge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/storage/models"
)

type fakeStore struct {
	items []models.KnowledgeItem
	err   error
}

func (f *fakeStore) GetKnowledgeByTriple(archetypeID, regionID, categoryID string) ([]models.KnowledgeItem, error) {
	return f.items, f.err
}

func TestGetKnowledgeNoMatchesIsNotAnError(t *testing.T) {
	r := NewRetriever(&fakeStore{}, 3, 2000)

	excerpts, err := r.GetKnowledge("athlete", "ankle", "atfl")
	require.NoError(t, err)
	assert.Empty(t, excerpts)
	assert.NotNil(t, excerpts)
}

func TestGetKnowledgeStoreErrorPropagates(t *testing.T) {
	r := NewRetriever(&fakeStore{err: errors.New("db closed")}, 3, 2000)

	_, err := r.GetKnowledge("athlete", "ankle", "atfl")
	assert.Error(t, err)
}

func TestGetKnowledgeCapsDocumentCount(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 5; i++ {
		store.items = append(store.items, models.KnowledgeItem{
			Title:   "ガイドライン",
			Content: "内容",
		})
	}

	r := NewRetriever(store, 3, 2000)
	excerpts, err := r.GetKnowledge("athlete", "ankle", "atfl")
	require.NoError(t, err)
	assert.Len(t, excerpts, 3)
}

func TestGetKnowledgeTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("靭帯", 100)
	r := NewRetriever(&fakeStore{items: []models.KnowledgeItem{
		{Title: "長文資料", Content: long},
	}}, 3, 51)

	excerpts, err := r.GetKnowledge("athlete", "ankle", "atfl")
	require.NoError(t, err)
	require.Len(t, excerpts, 1)

	body := []rune(excerpts[0].Body)
	assert.Len(t, body, 51)
	assert.Equal(t, '靭', body[50])
}

func TestFormatContext(t *testing.T) {
	t.Run("empty input yields empty string", func(t *testing.T) {
		assert.Equal(t, "", FormatContext(nil))
		assert.Equal(t, "", FormatContext([]Excerpt{}))
	})

	t.Run("excerpts are numbered in order", func(t *testing.T) {
		out := FormatContext([]Excerpt{
			{Title: "足関節捻挫ガイドライン", Body: "RICE処置を行う。"},
			{Title: "超音波所見アトラス", Body: "低エコー領域に注意。"},
		})
		assert.Contains(t, out, "--- 資料1: 足関節捻挫ガイドライン ---")
		assert.Contains(t, out, "--- 資料2: 超音波所見アトラス ---")
		assert.Less(t, strings.Index(out, "資料1"), strings.Index(out, "資料2"))
	})
}
