package knowledge

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/internal/storage/sqlite"
	"github.com/clinsim/backend/pkg/logger"
)

// Excerpt is a bounded slice of a stored reference document, ready for prompt
// concatenation.
type Excerpt struct {
	Title string
	Body  string
}

// Store is the subset of the storage client the retriever needs.
type Store interface {
	GetKnowledgeByTriple(archetypeID, regionID, categoryID string) ([]models.KnowledgeItem, error)
}

var _ Store = (*sqlite.Client)(nil)

// Retriever matches reference documents to a case by classification-tuple
// equality. There is no ranking and no similarity search; a triple either has
// documents or it does not.
type Retriever struct {
	store        Store
	maxDocs      int
	excerptChars int
}

func NewRetriever(store Store, maxDocs, excerptChars int) *Retriever {
	if maxDocs <= 0 {
		maxDocs = 3
	}
	if excerptChars <= 0 {
		excerptChars = 2000
	}
	return &Retriever{
		store:        store,
		maxDocs:      maxDocs,
		excerptChars: excerptChars,
	}
}

// GetKnowledge returns at most maxDocs excerpts for the triple. No matching
// documents is a normal state and yields an empty slice, never an error.
func (r *Retriever) GetKnowledge(archetypeID, regionID, categoryID string) ([]Excerpt, error) {
	items, err := r.store.GetKnowledgeByTriple(archetypeID, regionID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup failed: %w", err)
	}

	excerpts := make([]Excerpt, 0, len(items))
	for _, item := range items {
		if len(excerpts) >= r.maxDocs {
			break
		}
		excerpts = append(excerpts, Excerpt{
			Title: item.Title,
			Body:  truncate(item.Content, r.excerptChars),
		})
	}

	logger.Debug("Knowledge retrieved",
		zap.String("archetype_id", archetypeID),
		zap.String("region_id", regionID),
		zap.String("category_id", categoryID),
		zap.Int("excerpts", len(excerpts)),
	)

	return excerpts, nil
}

// FormatContext renders excerpts as the guideline block the prompt assembler
// embeds. Empty input yields an empty string so the block is omitted entirely.
func FormatContext(excerpts []Excerpt) string {
	if len(excerpts) == 0 {
		return ""
	}

	var b strings.Builder
	for i, e := range excerpts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("--- 資料%d: %s ---\n", i+1, e.Title))
		b.WriteString(e.Body)
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
