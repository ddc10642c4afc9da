package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Request-shape guards for the model-backed routes. LLM round trips are the
// expensive resource here, so oversized transcripts and notes are rejected
// before any prompt is assembled.

type Config struct {
	MaxMessageLength    int
	MaxTranscriptTurns  int
	MaxUploadSize       int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = 8000
	}
	if cfg.MaxTranscriptTurns == 0 {
		cfg.MaxTranscriptTurns = 200
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = 10 * 1024 * 1024
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json", "multipart/form-data"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			contentType := c.Get("Content-Type")
			if contentType != "" && !typeAllowed(contentType, cfg.AllowedContentTypes) {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
			if len(c.Body()) > cfg.MaxUploadSize {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "Request body exceeds maximum size",
				})
			}
		}

		path := c.Path()

		if strings.HasSuffix(path, "/chat") || strings.HasSuffix(path, "/session/finish") {
			var req struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if len(req.Messages) > cfg.MaxTranscriptTurns {
				cfg.Logger.Warn("Transcript too long",
					zap.String("ip", c.IP()),
					zap.Int("turns", len(req.Messages)),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Transcript exceeds maximum length",
				})
			}
			for _, m := range req.Messages {
				if len(m.Content) > cfg.MaxMessageLength {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Message exceeds maximum length",
					})
				}
			}
		}

		return c.Next()
	}
}

func typeAllowed(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}
