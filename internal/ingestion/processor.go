package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

// KnowledgeStore persists uploaded reference documents.
type KnowledgeStore interface {
	InsertKnowledgeItem(item *models.KnowledgeItem) error
}

// ExtractProvider is the slice of the LLM client used for structured case
// extraction from document text.
type ExtractProvider interface {
	ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error)
	CaseModel() string
}

// Processor turns uploaded documents into knowledge items and structured
// case drafts.
type Processor struct {
	db       KnowledgeStore
	provider ExtractProvider
}

func NewProcessor(db KnowledgeStore, provider ExtractProvider) *Processor {
	return &Processor{db: db, provider: provider}
}

// ProcessKnowledge cleans the uploaded document and stores it as a knowledge
// item under the given classification triple.
func (p *Processor) ProcessKnowledge(ctx context.Context, fileName, title string, raw []byte, archetypeID, regionID, categoryID string) (*models.KnowledgeItem, error) {
	text := ExtractText(fileName, raw)
	if text == "" {
		return nil, fmt.Errorf("no text extracted from %s", fileName)
	}

	if title == "" {
		ext := strings.ToLower(filepath.Ext(fileName))
		if ext == ".html" || ext == ".htm" {
			title = HTMLTitle(string(raw))
		}
	}
	if title == "" {
		title = titleFromFileName(fileName)
	}

	item := &models.KnowledgeItem{
		ID:          uuid.NewString(),
		Title:       title,
		FileName:    fileName,
		Content:     text,
		ArchetypeID: archetypeID,
		RegionID:    regionID,
		CategoryID:  categoryID,
		UploadedAt:  time.Now().UTC(),
	}

	if err := p.db.InsertKnowledgeItem(item); err != nil {
		return nil, fmt.Errorf("failed to store knowledge item: %w", err)
	}

	metrics.DocumentsImported.WithLabelValues("knowledge").Inc()
	logger.Info("knowledge item stored",
		zap.String("id", item.ID),
		zap.String("title", item.Title),
		zap.Int("content_len", len(item.Content)),
	)
	return item, nil
}

// ExtractCase cleans the uploaded document and asks the model for a
// structured case draft. The draft is returned for admin review, not
// persisted.
func (p *Processor) ExtractCase(ctx context.Context, fileName string, raw []byte) (*models.Case, string, error) {
	text := ExtractText(fileName, raw)
	if text == "" {
		return nil, "", fmt.Errorf("no text extracted from %s", fileName)
	}

	archetypeIDs := make([]string, 0, len(catalog.Archetypes))
	for _, a := range catalog.Archetypes {
		archetypeIDs = append(archetypeIDs, a.ID)
	}
	regionIDs := make([]string, 0, len(catalog.BodyRegions))
	for _, r := range catalog.BodyRegions {
		regionIDs = append(regionIDs, r.ID)
	}

	raw2, err := p.provider.ChatJSON(ctx,
		p.provider.CaseModel(),
		prompt.BuildCaseExtractSystemPrompt(archetypeIDs, regionIDs),
		prompt.BuildCaseExtractUserPrompt(text),
		0,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract case from document: %w", err)
	}

	var draft models.Case
	if err := json.Unmarshal([]byte(raw2), &draft); err != nil {
		return nil, "", fmt.Errorf("failed to parse extracted case: %w", err)
	}

	metrics.DocumentsImported.WithLabelValues("case_draft").Inc()
	logger.Info("case draft extracted",
		zap.String("file", fileName),
		zap.String("draft_id", draft.ID),
	)

	preview := text
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200]) + "..."
	}
	return &draft, preview, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractText returns the plain text of an uploaded document. HTML gets the
// chrome stripped; everything else is treated as plain text.
func ExtractText(fileName string, raw []byte) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".html" || ext == ".htm" {
		return cleanHTML(string(raw))
	}
	return strings.TrimSpace(string(raw))
}

func cleanHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, footer, header, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// HTMLTitle pulls a display title out of an HTML document, falling back to
// the first heading.
func HTMLTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}

func titleFromFileName(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
