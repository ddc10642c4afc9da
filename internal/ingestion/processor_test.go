package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/storage/models"
)

type fakeKnowledgeStore struct {
	items []*models.KnowledgeItem
}

func (f *fakeKnowledgeStore) InsertKnowledgeItem(item *models.KnowledgeItem) error {
	f.items = append(f.items, item)
	return nil
}

type fakeExtractProvider struct {
	reply string
	err   error
}

func (f *fakeExtractProvider) ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error) {
	return f.reply, f.err
}

func (f *fakeExtractProvider) CaseModel() string { return "case-model" }

const sampleHTML = `<html>
<head><title>足関節捻挫の診療</title><script>var x = 1;</script></head>
<body>
<nav>メニュー</nav>
<h1>足関節捻挫</h1>
<p>前距腓靭帯は内反強制で損傷しやすい。</p>
<footer>フッター</footer>
</body>
</html>`

func TestExtractTextStripsHTMLChrome(t *testing.T) {
	text := ExtractText("guideline.html", []byte(sampleHTML))
	assert.Contains(t, text, "前距腓靭帯は内反強制で損傷しやすい。")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "メニュー")
	assert.NotContains(t, text, "フッター")
}

func TestExtractTextPlainFilePassesThrough(t *testing.T) {
	text := ExtractText("notes.txt", []byte("  受傷機転の聴取が重要。\n"))
	assert.Equal(t, "受傷機転の聴取が重要。", text)
}

func TestHTMLTitle(t *testing.T) {
	assert.Equal(t, "足関節捻挫の診療", HTMLTitle(sampleHTML))
	assert.Equal(t, "見出しのみ", HTMLTitle("<body><h1>見出しのみ</h1></body>"))
}

func TestProcessKnowledgeStoresItem(t *testing.T) {
	store := &fakeKnowledgeStore{}
	p := NewProcessor(store, &fakeExtractProvider{})

	item, err := p.ProcessKnowledge(context.Background(), "guideline.html", "", []byte(sampleHTML), "athlete", "ankle", "atfl")
	require.NoError(t, err)

	// No explicit title, so the HTML document title is used.
	assert.Equal(t, "足関節捻挫の診療", item.Title)
	assert.Equal(t, "athlete", item.ArchetypeID)
	assert.NotEmpty(t, item.ID)
	require.Len(t, store.items, 1)
	assert.Contains(t, store.items[0].Content, "前距腓靭帯")
}

func TestProcessKnowledgeTitleFallbacks(t *testing.T) {
	store := &fakeKnowledgeStore{}
	p := NewProcessor(store, &fakeExtractProvider{})

	t.Run("explicit title wins", func(t *testing.T) {
		item, err := p.ProcessKnowledge(context.Background(), "guideline.html", "手入力のタイトル", []byte(sampleHTML), "athlete", "ankle", "atfl")
		require.NoError(t, err)
		assert.Equal(t, "手入力のタイトル", item.Title)
	})

	t.Run("non-HTML upload falls back to the file name", func(t *testing.T) {
		item, err := p.ProcessKnowledge(context.Background(), "sprain-notes.txt", "", []byte("内反捻挫の診察メモ"), "athlete", "ankle", "atfl")
		require.NoError(t, err)
		assert.Equal(t, "sprain-notes", item.Title)
	})

	t.Run("HTML without a title falls back to the file name", func(t *testing.T) {
		item, err := p.ProcessKnowledge(context.Background(), "untitled.html", "", []byte("<body><p>本文のみ</p></body>"), "athlete", "ankle", "atfl")
		require.NoError(t, err)
		assert.Equal(t, "untitled", item.Title)
	})
}

func TestProcessKnowledgeEmptyDocumentFails(t *testing.T) {
	p := NewProcessor(&fakeKnowledgeStore{}, &fakeExtractProvider{})

	_, err := p.ProcessKnowledge(context.Background(), "empty.txt", "", []byte("   "), "athlete", "ankle", "atfl")
	assert.Error(t, err)
}

func TestExtractCaseParsesDraft(t *testing.T) {
	provider := &fakeExtractProvider{reply: `{
		"id": "case_knee_acl_athlete_2",
		"title": "着地で膝崩れ",
		"archetypeId": "athlete",
		"regionId": "knee",
		"categoryId": "acl",
		"trueDiagnosis": "前十字靭帯損傷",
		"requiredFindings": ["膝崩れの自覚", "受傷時のポップ音"]
	}`}
	p := NewProcessor(&fakeKnowledgeStore{}, provider)

	draft, preview, err := p.ExtractCase(context.Background(), "case.txt", []byte("21歳男性、バスケットボールの着地で受傷……"))
	require.NoError(t, err)
	assert.Equal(t, "case_knee_acl_athlete_2", draft.ID)
	assert.Equal(t, "前十字靭帯損傷", draft.TrueDiagnosis)
	assert.NotEmpty(t, preview)
}

func TestExtractCaseUnparseableFails(t *testing.T) {
	p := NewProcessor(&fakeKnowledgeStore{}, &fakeExtractProvider{reply: "not json"})

	_, _, err := p.ExtractCase(context.Background(), "case.txt", []byte("本文"))
	assert.Error(t, err)
}
