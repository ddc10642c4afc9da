package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinsim_turn_duration_seconds",
			Help:    "Conversation turn processing duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"transport"},
	)

	TurnTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_turn_total",
			Help: "Total conversation turns processed",
		},
		[]string{"status"},
	)

	TurnRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_turn_role_total",
			Help: "Replies by speaking role",
		},
		[]string{"role"},
	)

	TurnFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_turn_fallback_total",
			Help: "Turn replies recovered by a typed fallback",
		},
		[]string{"kind"},
	)

	RoleSwitchMismatch = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinsim_role_switch_mismatch_total",
			Help: "Turns where a trigger keyword expected an instructor reply but the model answered as patient",
		},
	)

	SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_sessions_started_total",
			Help: "Sessions started, by case origin",
		},
		[]string{"case_source"},
	)

	CaseGenDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clinsim_case_generation_duration_seconds",
			Help:    "LLM case generation duration in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 40},
		},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinsim_evaluation_duration_seconds",
			Help:    "Evaluation pass duration in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"pass"},
	)

	EvaluationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_evaluation_total",
			Help: "SOAP and mini-CEX evaluations, by outcome",
		},
		[]string{"kind", "status"},
	)

	KnowledgeHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clinsim_knowledge_excerpts_per_prompt",
			Help:    "Knowledge excerpts folded into a system prompt",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	DocumentsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinsim_documents_imported_total",
			Help: "Admin documents imported, by kind",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(TurnDuration)
	prometheus.MustRegister(TurnTotal)
	prometheus.MustRegister(TurnRole)
	prometheus.MustRegister(TurnFallback)
	prometheus.MustRegister(RoleSwitchMismatch)
	prometheus.MustRegister(SessionsStarted)
	prometheus.MustRegister(CaseGenDuration)
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(EvaluationTotal)
	prometheus.MustRegister(KnowledgeHits)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(DocumentsImported)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
