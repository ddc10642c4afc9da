package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/interview"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

type WebSocketHandler struct {
	interview *interview.Service
}

func NewWebSocketHandler(svc *interview.Service) *WebSocketHandler {
	return &WebSocketHandler{interview: svc}
}

// HandleConnection serves one interview connection. Each inbound turn frame
// carries the full transcript; the reply is streamed back in small chunks
// followed by a complete frame with the final role.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("Interview WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("Interview WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type     string           `json:"type"`
			CaseID   string           `json:"case_id"`
			Messages []models.Message `json:"messages"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "turn" {
			continue
		}
		if msg.CaseID == "" || len(msg.Messages) == 0 {
			h.sendError(c, "case_id and messages are required")
			continue
		}

		if err := h.streamTurn(c, msg.CaseID, msg.Messages); err != nil {
			logger.Error("Failed to stream turn", zap.Error(err))
			h.sendError(c, "Failed to process turn")
		}
	}
}

func (h *WebSocketHandler) streamTurn(c *websocket.Conn, caseID string, history []models.Message) error {
	ctx := context.Background()

	if err := h.send(c, "status", "考え中..."); err != nil {
		return err
	}

	start := time.Now()
	turn, err := h.interview.Turn(ctx, caseID, history)
	metrics.TurnDuration.WithLabelValues("websocket").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, interview.ErrCaseNotFound) {
			h.sendError(c, "Case not found")
			return nil
		}
		return err
	}

	for _, chunk := range chunkRunes(turn.Content, 24) {
		if err := h.send(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":    "complete",
		"role":    turn.Role,
		"content": turn.Content,
	})
}

func (h *WebSocketHandler) send(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}

// chunkRunes splits text on rune boundaries. Replies are mostly Japanese, so
// byte-based splitting would cut characters in half.
func chunkRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
