package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/interview"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

type ChatHandler struct {
	interview *interview.Service
}

func NewChatHandler(svc *interview.Service) *ChatHandler {
	return &ChatHandler{interview: svc}
}

// HandleChat runs one conversation turn. The reply is always a usable
// {role, content} pair; model-side trouble surfaces as an instructor-voiced
// message inside the conversation, not as a failed request.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		CaseID   string           `json:"case_id"`
		Messages []models.Message `json:"messages"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.CaseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "case_id is required",
		})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "messages must not be empty",
		})
	}

	start := time.Now()
	turn, err := h.interview.Turn(c.Context(), req.CaseID, req.Messages)
	metrics.TurnDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, interview.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Case not found",
			})
		}
		logger.Error("Failed to process chat turn", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process chat turn",
		})
	}

	return c.JSON(turn)
}
