package interview

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/cases"
	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/knowledge"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

// ErrCaseNotFound lets the transport layer answer 404 so the client can
// redirect back to case selection.
var ErrCaseNotFound = errors.New("case not found")

// Service runs conversation turns: case lookup, knowledge retrieval, prompt
// assembly, and the model exchange.
type Service struct {
	cases     *cases.Store
	retriever *knowledge.Retriever
	handler   *Handler
}

func NewService(cs *cases.Store, retriever *knowledge.Retriever, handler *Handler) *Service {
	return &Service{cases: cs, retriever: retriever, handler: handler}
}

// Turn runs one exchange for the given case. The transcript travels with the
// request; the server holds no conversation state between turns.
func (s *Service) Turn(ctx context.Context, caseID string, history []models.Message) (Turn, error) {
	cs, err := s.cases.GetByID(caseID)
	if err != nil {
		return Turn{}, fmt.Errorf("failed to load case: %w", err)
	}
	if cs == nil {
		return Turn{}, ErrCaseNotFound
	}

	archetype := catalog.FindArchetype(cs.ArchetypeID)
	if archetype == nil {
		return Turn{}, fmt.Errorf("case %s references unknown archetype %s", cs.ID, cs.ArchetypeID)
	}

	excerpts, err := s.retriever.GetKnowledge(cs.ArchetypeID, cs.RegionID, cs.CategoryID)
	if err != nil {
		// Retrieval trouble degrades to an un-grounded prompt, it never
		// blocks the conversation.
		logger.Warn("knowledge retrieval failed", zap.String("case_id", cs.ID), zap.Error(err))
		excerpts = nil
	}
	metrics.KnowledgeHits.Observe(float64(len(excerpts)))

	systemPrompt := prompt.BuildPatientSystemPrompt(cs, archetype, knowledge.FormatContext(excerpts))
	turn := s.handler.SendTurn(ctx, history, systemPrompt)

	s.observeTrigger(history, turn)
	return turn, nil
}

// observeTrigger compares the deterministic trigger classification of the
// student's last utterance against the role the model actually answered
// with. Observation only; the model's choice stands.
func (s *Service) observeTrigger(history []models.Message, turn Turn) {
	last := lastUserUtterance(history)
	if last == "" {
		return
	}
	kind := ClassifyTrigger(last)
	if ExpectsInstructor(kind) && turn.Role == models.RolePatient {
		metrics.RoleSwitchMismatch.Inc()
		logger.Warn("expected instructor voice for trigger",
			zap.String("trigger", string(kind)))
	}
	if kind == TriggerDifferential && turn.Role == models.RoleInstructor {
		if problems := ValidateDifferentialMatrix(turn.Content); len(problems) > 0 {
			logger.Warn("differential matrix malformed", zap.Strings("problems", problems))
		}
	}
}

func lastUserUtterance(history []models.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
