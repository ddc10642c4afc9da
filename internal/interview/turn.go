package interview

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/llm"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

// Fixed reply texts for turns the model handled badly. The session continues
// either way; only the single turn is affected.
const (
	FillerReply    = "すみません、よく聞き取れませんでした。もう一度お願いできますか？"
	TurnErrorReply = "システムエラー：AIの応答解析に失敗しました。"
)

// ChatProvider is the slice of the LLM client the turn handler needs.
type ChatProvider interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

var _ ChatProvider = (*llm.Client)(nil)

// Turn is the model's reply for one exchange.
type Turn struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// Handler runs one conversation exchange against the model and normalizes
// whatever comes back into a displayable Turn.
type Handler struct {
	provider ChatProvider
}

func NewHandler(provider ChatProvider) *Handler {
	return &Handler{provider: provider}
}

// SendTurn sends the history bracketed by the system prompt and the strict
// output directive, then parses the reply.
//
// Recovery policy, applied in order:
//   - transport failure: return an instructor-voiced error turn, no retry at
//     this level
//   - reply is not a JSON object: treat the raw text as a patient reply
//   - role missing from the object: instructor-voiced error turn
//   - content empty or whitespace: substitute the filler text, keep the role
func (h *Handler) SendTurn(ctx context.Context, history []models.Message, systemPrompt string) Turn {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: providerRole(m.Role), Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: openai.ChatMessageRoleSystem, Content: prompt.TurnOutputDirective})

	resp, err := h.provider.Chat(ctx, llm.ChatRequest{
		Messages: msgs,
		JSONMode: true,
	})
	if err != nil {
		logger.Error("chat turn failed upstream", zap.Error(err))
		metrics.TurnTotal.WithLabelValues("error").Inc()
		metrics.TurnFallback.WithLabelValues("transport").Inc()
		return Turn{Role: models.RoleInstructor, Content: TurnErrorReply}
	}

	turn := ParseTurn(resp.Content)
	metrics.TurnTotal.WithLabelValues("ok").Inc()
	metrics.TurnRole.WithLabelValues(string(turn.Role)).Inc()
	return turn
}

// ParseTurn applies the JSON-shape recovery policy to raw model output.
func ParseTurn(raw string) Turn {
	var parsed struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("model reply was not valid JSON, using raw text as patient reply",
			zap.Int("raw_len", len(raw)))
		metrics.TurnFallback.WithLabelValues("invalid_json").Inc()
		return Turn{Role: models.RolePatient, Content: raw}
	}

	role := models.Role(parsed.Role)
	if role != models.RolePatient && role != models.RoleInstructor {
		metrics.TurnFallback.WithLabelValues("missing_role").Inc()
		return Turn{Role: models.RoleInstructor, Content: TurnErrorReply}
	}

	if strings.TrimSpace(parsed.Content) == "" {
		metrics.TurnFallback.WithLabelValues("empty_content").Inc()
		return Turn{Role: role, Content: FillerReply}
	}

	return Turn{Role: role, Content: parsed.Content}
}

// providerRole maps transcript roles onto the provider's vocabulary. Both
// simulated voices are the assistant as far as the provider is concerned.
func providerRole(r models.Role) string {
	switch r {
	case models.RolePatient, models.RoleInstructor:
		return openai.ChatMessageRoleAssistant
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
