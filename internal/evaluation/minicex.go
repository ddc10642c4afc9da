package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

// FormatCoachTranscript renders the chat history for the coach prompt, one
// line per utterance with the role in caps.
func FormatCoachTranscript(history []models.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Content))
	}
	return strings.Join(lines, "\n")
}

// EvaluateSession produces the end-of-session mini-CEX rubric. Unlike the
// SOAP evaluation, a failed upstream call does not fail the request: the
// student gets the fixed fallback rubric and the failure is logged.
func (e *Evaluator) EvaluateSession(ctx context.Context, sessionID string, cs *models.Case, history []models.Message, userSummary string) *MiniCexResult {
	transcript := FormatCoachTranscript(history)
	systemPrompt := prompt.BuildCoachSystemPrompt(cs, transcript, userSummary)

	start := time.Now()
	raw, err := e.provider.ChatJSON(ctx, e.provider.CaseModel(), systemPrompt,
		"セッションを評価し、指定されたJSONのみを出力してください。", 0)
	metrics.EvaluationDuration.WithLabelValues("mini_cex").Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("mini-CEX evaluation failed, serving fallback rubric",
			zap.String("case_id", cs.ID), zap.Error(err))
		metrics.EvaluationTotal.WithLabelValues("mini_cex", "fallback").Inc()
		return FallbackMiniCex()
	}

	var result MiniCexResult
	if err := decodeStrict(raw, &result); err != nil {
		logger.Error("mini-CEX output unparseable, serving fallback rubric",
			zap.String("case_id", cs.ID), zap.Error(err))
		metrics.EvaluationTotal.WithLabelValues("mini_cex", "fallback").Inc()
		return FallbackMiniCex()
	}
	metrics.EvaluationTotal.WithLabelValues("mini_cex", "ok").Inc()

	if e.store != nil {
		resultJSON, err := json.Marshal(&result)
		if err == nil {
			err = e.store.InsertSessionResult(&models.SessionResultRecord{
				ID:         uuid.NewString(),
				SessionID:  sessionID,
				CaseID:     cs.ID,
				TotalScore: result.TotalScore,
				ResultJSON: string(resultJSON),
				CreatedAt:  time.Now().UTC(),
			})
		}
		if err != nil {
			logger.Warn("failed to persist session result", zap.Error(err))
		}
	}

	return &result
}
