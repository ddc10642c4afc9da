package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/evaluation"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

type EvaluationHandler struct {
	evaluator *evaluation.Evaluator
}

func NewEvaluationHandler(evaluator *evaluation.Evaluator) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator}
}

// EvaluateSoap runs the two-pass note evaluation. Unlike chat turns there is
// no degraded result here: if either pass fails the request fails.
func (h *EvaluationHandler) EvaluateSoap(c *fiber.Ctx) error {
	var req struct {
		SessionID   string              `json:"session_id"`
		CaseID      string              `json:"case_id"`
		Soap        evaluation.SoapNote `json:"soap"`
		ChatHistory []models.Message    `json:"chat_history"`
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
	if req.Soap.Subjective == "" && req.Soap.Objective == "" && req.Soap.Assessment == "" && req.Soap.Plan == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "soap note is required",
		})
	}

	result, err := h.evaluator.EvaluateSoap(c.Context(), req.SessionID, req.CaseID, &req.Soap, req.ChatHistory)
	if err != nil {
		logger.Error("SOAP evaluation failed", zap.String("case_id", req.CaseID), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to evaluate SOAP note",
		})
	}

	return c.JSON(result)
}
