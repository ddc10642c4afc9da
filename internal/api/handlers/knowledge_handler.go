package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/cache/redis"
	"github.com/clinsim/backend/internal/cases"
	"github.com/clinsim/backend/internal/ingestion"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/internal/storage/sqlite"
	"github.com/clinsim/backend/pkg/logger"
)

// KnowledgeHandler covers the admin surface: reference-document uploads,
// document-to-case extraction, and reviewed-case saves.
type KnowledgeHandler struct {
	processor *ingestion.Processor
	caseStore *cases.Store
	db        *sqlite.Client
	cache     *redis.Client
}

func NewKnowledgeHandler(processor *ingestion.Processor, caseStore *cases.Store, db *sqlite.Client, cache *redis.Client) *KnowledgeHandler {
	return &KnowledgeHandler{
		processor: processor,
		caseStore: caseStore,
		db:        db,
		cache:     cache,
	}
}

// UploadKnowledge stores an uploaded reference document under a
// classification triple.
func (h *KnowledgeHandler) UploadKnowledge(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	archetypeID := c.FormValue("archetypeId")
	regionID := c.FormValue("regionId")
	categoryID := c.FormValue("categoryId")
	if archetypeID == "" || regionID == "" || categoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "archetypeId, regionId and categoryId are required",
		})
	}

	raw, err := readUpload(fileHeader)
	if err != nil {
		logger.Error("Failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	item, err := h.processor.ProcessKnowledge(c.Context(), fileHeader.Filename, c.FormValue("title"), raw, archetypeID, regionID, categoryID)
	if err != nil {
		logger.Error("Failed to process knowledge upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process document",
		})
	}

	// Prompts embed retrieved excerpts, so cached evaluations are stale now.
	if h.cache != nil {
		if err := h.cache.InvalidateEvaluationCache(c.Context()); err != nil {
			logger.Warn("Failed to invalidate evaluation cache", zap.Error(err))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListKnowledge returns stored items without their full content.
func (h *KnowledgeHandler) ListKnowledge(c *fiber.Ctx) error {
	items, err := h.db.ListKnowledgeItems()
	if err != nil {
		logger.Error("Failed to list knowledge items", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list knowledge items",
		})
	}

	out := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		out = append(out, fiber.Map{
			"id":          item.ID,
			"title":       item.Title,
			"fileName":    item.FileName,
			"contentLen":  len(item.Content),
			"archetypeId": item.ArchetypeID,
			"regionId":    item.RegionID,
			"categoryId":  item.CategoryID,
			"uploadedAt":  item.UploadedAt,
		})
	}

	return c.JSON(fiber.Map{"items": out})
}

// ImportDocument extracts a structured case draft from an uploaded document.
// The draft is returned for review; saving it is a separate call.
func (h *KnowledgeHandler) ImportDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	raw, err := readUpload(fileHeader)
	if err != nil {
		logger.Error("Failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	draft, preview, err := h.processor.ExtractCase(c.Context(), fileHeader.Filename, raw)
	if err != nil {
		logger.Error("Failed to extract case from document", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to extract case from document",
		})
	}

	return c.JSON(fiber.Map{
		"text":      preview,
		"extracted": draft,
	})
}

// SaveCase persists a reviewed case.
func (h *KnowledgeHandler) SaveCase(c *fiber.Ctx) error {
	var cs models.Case
	if err := c.BodyParser(&cs); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if cs.ID == "" || cs.ArchetypeID == "" || cs.RegionID == "" || cs.CategoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id, archetypeId, regionId and categoryId are required",
		})
	}

	if err := h.caseStore.Save(&cs); err != nil {
		logger.Error("Failed to save case", zap.String("case_id", cs.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save case",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"case_id": cs.ID,
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
