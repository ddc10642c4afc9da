package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/cache/redis"
	"github.com/clinsim/backend/internal/cases"
	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/evaluation"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/internal/storage/sqlite"
	"github.com/clinsim/backend/pkg/logger"
)

type SessionHandler struct {
	generator *cases.Generator
	caseStore *cases.Store
	evaluator *evaluation.Evaluator
	db        *sqlite.Client
	cache     *redis.Client
}

func NewSessionHandler(generator *cases.Generator, caseStore *cases.Store, evaluator *evaluation.Evaluator, db *sqlite.Client, cache *redis.Client) *SessionHandler {
	return &SessionHandler{
		generator: generator,
		caseStore: caseStore,
		evaluator: evaluator,
		db:        db,
		cache:     cache,
	}
}

// StartSession resolves or generates a case for the requested classification
// triple and opens a session for it.
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req struct {
		ArchetypeID string `json:"archetypeId"`
		RegionID    string `json:"regionId"`
		CategoryID  string `json:"categoryId"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ArchetypeID == "" || req.RegionID == "" || req.CategoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "archetypeId, regionId and categoryId are required",
		})
	}

	archetype := catalog.FindArchetype(req.ArchetypeID)
	if archetype == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid selection parameters",
		})
	}

	cs, generated, err := h.generator.ResolveOrGenerate(c.Context(), req.ArchetypeID, req.RegionID, req.CategoryID)
	if err != nil {
		logger.Error("Failed to start session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create case scenario",
		})
	}

	source := "stored"
	if generated {
		source = "generated"
	}
	metrics.SessionsStarted.WithLabelValues(source).Inc()

	sessionID := "sess_" + uuid.NewString()
	if err := h.db.InsertSession(&models.SessionRecord{
		ID:        sessionID,
		CaseID:    cs.ID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		logger.Error("Failed to persist session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}
	if h.cache != nil {
		if err := h.cache.SetSessionCase(c.Context(), sessionID, cs.ID, 24*time.Hour); err != nil {
			logger.Warn("Failed to cache session mapping", zap.Error(err))
		}
	}

	logger.Info("Session started",
		zap.String("session_id", sessionID),
		zap.String("case_id", cs.ID),
		zap.String("case_source", source),
	)

	return c.JSON(fiber.Map{
		"session_id":        sessionID,
		"case_id":           cs.ID,
		"case_title":        cs.Title,
		"patient_label":     archetype.Label,
		"interview_frames":  archetype.InterviewFrames,
		"patient_profile":   cs.PatientProfile,
		"formatted_profile": prompt.FormatQuestionnaire(cs.PatientProfile),
		"initial_message":   nil,
	})
}

// FinishSession scores the full transcript with the mini-CEX rubric. A
// failed coach call still answers 200 with the fixed fallback rubric.
func (h *SessionHandler) FinishSession(c *fiber.Ctx) error {
	var req struct {
		SessionID   string           `json:"session_id"`
		CaseID      string           `json:"case_id"`
		Messages    []models.Message `json:"messages"`
		UserSummary string           `json:"user_summary"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	caseID := h.resolveCaseID(c, req.SessionID, req.CaseID)
	if caseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "case_id or a known session_id is required",
		})
	}

	cs, err := h.caseStore.GetByID(caseID)
	if err != nil {
		logger.Error("Failed to load case", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load case",
		})
	}
	if cs == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Case not found",
		})
	}

	result := h.evaluator.EvaluateSession(c.Context(), req.SessionID, cs, req.Messages, req.UserSummary)
	return c.JSON(result)
}

// resolveCaseID prefers the explicit case id, then the cached session
// mapping, then the persisted session record.
func (h *SessionHandler) resolveCaseID(c *fiber.Ctx, sessionID, caseID string) string {
	if caseID != "" {
		return caseID
	}
	if sessionID == "" {
		return ""
	}
	if h.cache != nil {
		if id, ok, err := h.cache.GetSessionCase(c.Context(), sessionID); err == nil && ok {
			metrics.CacheHits.WithLabelValues("session").Inc()
			return id
		}
		metrics.CacheMisses.WithLabelValues("session").Inc()
	}
	id, err := h.db.GetSessionCaseID(sessionID)
	if err != nil {
		logger.Warn("Failed to resolve session", zap.String("session_id", sessionID), zap.Error(err))
		return ""
	}
	return id
}
