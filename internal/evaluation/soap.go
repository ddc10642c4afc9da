package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/llm"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
	"github.com/clinsim/backend/pkg/utils"
)

// SoapNote is the four-section note submitted for evaluation.
type SoapNote struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// Text renders the note in the labeled form both evaluation prompts expect.
func (n *SoapNote) Text() string {
	return strings.TrimSpace(fmt.Sprintf("S:\n%s\nO:\n%s\nA:\n%s\nP:\n%s",
		n.Subjective, n.Objective, n.Assessment, n.Plan))
}

// JSONProvider is the slice of the LLM client the evaluators need.
type JSONProvider interface {
	ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error)
	EvalModel() string
	CaseModel() string
}

var _ JSONProvider = (*llm.Client)(nil)

// ResultCache caches finished evaluations keyed by input hash. Optional.
type ResultCache interface {
	GetEvaluation(ctx context.Context, inputHash string, result interface{}) (bool, error)
	SetEvaluation(ctx context.Context, inputHash string, result interface{}, ttl time.Duration) error
}

// AuditStore persists evaluation records. Optional.
type AuditStore interface {
	InsertSoapEvaluation(rec *models.SoapEvaluationRecord) error
	InsertSessionResult(rec *models.SessionResultRecord) error
}

// Evaluator runs the two-pass SOAP evaluation and the end-of-session
// mini-CEX rubric.
type Evaluator struct {
	provider JSONProvider
	cache    ResultCache
	store    AuditStore
	cacheTTL time.Duration
}

func NewEvaluator(provider JSONProvider, cache ResultCache, store AuditStore, cacheTTLSec int) *Evaluator {
	ttl := time.Duration(cacheTTLSec) * time.Second
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Evaluator{provider: provider, cache: cache, store: store, cacheTTL: ttl}
}

// FormatSoapTranscript renders the chat history the way the fact-check
// prompt labels speakers: the student vs the simulated voices.
func FormatSoapTranscript(history []models.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		speaker := "Patient/Instructor"
		if m.Role == models.RoleUser {
			speaker = "Student"
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", speaker, m.Content))
	}
	return strings.Join(lines, "\n")
}

// EvaluateSoap runs fact-check then scoring, strictly sequential. Either
// pass failing, transport or parse, fails the whole evaluation; there is no
// partial result.
func (e *Evaluator) EvaluateSoap(ctx context.Context, sessionID, caseID string, note *SoapNote, history []models.Message) (*SoapEvaluationResult, error) {
	soapText := note.Text()
	transcript := FormatSoapTranscript(history)
	inputHash := utils.HashStrings(caseID, soapText, transcript)

	if e.cache != nil {
		var cached SoapEvaluationResult
		hit, err := e.cache.GetEvaluation(ctx, inputHash, &cached)
		if err != nil {
			logger.Warn("evaluation cache lookup failed", zap.Error(err))
			metrics.CacheMisses.WithLabelValues("evaluation").Inc()
		} else if hit {
			metrics.CacheHits.WithLabelValues("evaluation").Inc()
			return &cached, nil
		} else {
			metrics.CacheMisses.WithLabelValues("evaluation").Inc()
		}
	}

	start := time.Now()
	factCheck, err := e.runFactCheck(ctx, transcript, soapText)
	metrics.EvaluationDuration.WithLabelValues("fact_check").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EvaluationTotal.WithLabelValues("soap", "error").Inc()
		return nil, fmt.Errorf("fact check pass failed: %w", err)
	}

	start = time.Now()
	result, err := e.runScoring(ctx, factCheck, soapText)
	metrics.EvaluationDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EvaluationTotal.WithLabelValues("soap", "error").Inc()
		return nil, fmt.Errorf("scoring pass failed: %w", err)
	}

	result.FactCheck = factCheck
	result.NoteStats = ComputeNoteStats(note)
	RecomputeTotals(result)
	metrics.EvaluationTotal.WithLabelValues("soap", "ok").Inc()

	if e.cache != nil {
		if err := e.cache.SetEvaluation(ctx, inputHash, result, e.cacheTTL); err != nil {
			logger.Warn("evaluation cache write failed", zap.Error(err))
		}
	}

	if e.store != nil {
		resultJSON, err := json.Marshal(result)
		if err == nil {
			err = e.store.InsertSoapEvaluation(&models.SoapEvaluationRecord{
				ID:         uuid.NewString(),
				SessionID:  sessionID,
				CaseID:     caseID,
				InputHash:  inputHash,
				QNoteTotal: result.Totals.QNoteTotal,
				PdqiTotal:  result.Totals.PdqiTotal,
				ResultJSON: string(resultJSON),
				CreatedAt:  time.Now().UTC(),
			})
		}
		if err != nil {
			logger.Warn("failed to persist evaluation record", zap.Error(err))
		}
	}

	return result, nil
}

func (e *Evaluator) runFactCheck(ctx context.Context, transcript, soapText string) (*FactCheckResult, error) {
	logger.Info("starting fact check pass")
	raw, err := e.provider.ChatJSON(ctx,
		e.provider.EvalModel(),
		prompt.FactCheckSystemPrompt(transcript),
		prompt.FactCheckUserPrompt(soapText),
		0,
	)
	if err != nil {
		return nil, err
	}

	var result FactCheckResult
	if err := decodeStrict(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse fact check output: %w", err)
	}

	logger.Info("fact check pass complete",
		zap.Int("supported", len(result.SupportedClaims)),
		zap.Int("missing", len(result.MissingFromSoap)),
		zap.Int("hallucination_risk", len(result.HallucinationRisk)),
	)
	return &result, nil
}

func (e *Evaluator) runScoring(ctx context.Context, factCheck *FactCheckResult, soapText string) (*SoapEvaluationResult, error) {
	logger.Info("starting scoring pass")
	factCheckJSON, err := json.MarshalIndent(factCheck, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize fact check result: %w", err)
	}

	raw, err := e.provider.ChatJSON(ctx,
		e.provider.EvalModel(),
		prompt.ScoringSystemPrompt(string(factCheckJSON)),
		prompt.ScoringUserPrompt(soapText),
		0.3,
	)
	if err != nil {
		return nil, err
	}

	var result SoapEvaluationResult
	if err := decodeStrict(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse scoring output: %w", err)
	}
	return &result, nil
}
