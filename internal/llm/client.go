package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/pkg/circuitbreaker"
	"github.com/clinsim/backend/pkg/logger"
	"github.com/clinsim/backend/pkg/retry"
)

// Message mirrors the provider's chat message shape. Roles outside the
// provider's vocabulary (patient, instructor) must be mapped to assistant
// before a request is built.
type Message struct {
	Role    string
	Content string
}

type Client struct {
	client      *openai.Client
	chatModel   string
	caseModel   string
	evalModel   string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

// ChatRequest drives one completion. JSONMode requests a single JSON object
// via the provider's response_format. A zero Temperature falls back to the
// client default; Model likewise.
type ChatRequest struct {
	Model          string
	Messages       []Message
	Temperature    float32
	TemperatureSet bool
	MaxTokens      int
	JSONMode       bool
}

type ChatResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func NewClient(apiKey, chatModel, caseModel, evalModel string, temperature float32, maxTokens, timeoutSec int) *Client {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.NewCircuitBreaker("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	timeout := time.Duration(timeoutSec) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	logger.Info("LLM client initialized",
		zap.String("chat_model", chatModel),
		zap.String("case_model", caseModel),
		zap.String("eval_model", evalModel),
	)

	return &Client{
		client:      client,
		chatModel:   chatModel,
		caseModel:   caseModel,
		evalModel:   evalModel,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *Client) ChatModel() string { return c.chatModel }
func (c *Client) CaseModel() string { return c.caseModel }
func (c *Client) EvalModel() string { return c.evalModel }

// Chat performs one completion. Retries and the circuit breaker only cover
// transport-level failures; callers own any semantic fallback for the content.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.chatModel
	}

	temperature := req.Temperature
	if !req.TemperatureSet && temperature == 0 {
		temperature = c.temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	completionReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if req.JSONMode {
		completionReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var result *ChatResponse

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, completionReq)
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}

			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("LLM completion generated",
				zap.String("model", model),
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			metrics.LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(resp.Usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(resp.Usage.CompletionTokens))

			result = &ChatResponse{
				Content: resp.Choices[0].Message.Content,
				Usage: Usage{
					PromptTokens:     resp.Usage.PromptTokens,
					CompletionTokens: resp.Usage.CompletionTokens,
					TotalTokens:      resp.Usage.TotalTokens,
				},
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ChatJSON runs a system+user prompt pair in JSON mode and returns the raw
// object text. Used by case generation, document extraction, and both
// evaluation passes.
func (c *Client) ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error) {
	resp, err := c.Chat(ctx, ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature:    temperature,
		TemperatureSet: true,
		JSONMode:       true,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
