package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/llm"
	"github.com/clinsim/backend/internal/storage/models"
)

type fakeProvider struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (f *fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.reply}, nil
}

func TestParseTurn(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantRole    models.Role
		wantContent string
	}{
		{
			name:        "valid patient reply passes through",
			raw:         `{"role": "patient", "content": "昨日から右足首が痛いです。"}`,
			wantRole:    models.RolePatient,
			wantContent: "昨日から右足首が痛いです。",
		},
		{
			name:        "valid instructor reply passes through",
			raw:         `{"role": "instructor", "content": "前方引き出しテスト：陽性です。"}`,
			wantRole:    models.RoleInstructor,
			wantContent: "前方引き出しテスト：陽性です。",
		},
		{
			name:        "invalid JSON becomes patient reply with raw text",
			raw:         "ただの地の文です",
			wantRole:    models.RolePatient,
			wantContent: "ただの地の文です",
		},
		{
			name:        "empty content substitutes filler and keeps role",
			raw:         `{"role": "patient", "content": "   "}`,
			wantRole:    models.RolePatient,
			wantContent: FillerReply,
		},
		{
			name:        "empty instructor content keeps instructor role",
			raw:         `{"role": "instructor", "content": ""}`,
			wantRole:    models.RoleInstructor,
			wantContent: FillerReply,
		},
		{
			name:        "missing role is a turn-level error",
			raw:         `{"content": "返答です"}`,
			wantRole:    models.RoleInstructor,
			wantContent: TurnErrorReply,
		},
		{
			name:        "unknown role is a turn-level error",
			raw:         `{"role": "assistant", "content": "返答です"}`,
			wantRole:    models.RoleInstructor,
			wantContent: TurnErrorReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := ParseTurn(tt.raw)
			assert.Equal(t, tt.wantRole, turn.Role)
			assert.Equal(t, tt.wantContent, turn.Content)
		})
	}
}

func TestSendTurnTransportError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	h := NewHandler(provider)

	turn := h.SendTurn(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "こんにちは"},
	}, "system prompt")

	assert.Equal(t, models.RoleInstructor, turn.Role)
	assert.Equal(t, TurnErrorReply, turn.Content)
}

func TestSendTurnMessageAssembly(t *testing.T) {
	provider := &fakeProvider{reply: `{"role": "patient", "content": "はい"}`}
	h := NewHandler(provider)

	history := []models.Message{
		{Role: models.RoleUser, Content: "お名前を教えてください"},
		{Role: models.RolePatient, Content: "田中です"},
		{Role: models.RoleInstructor, Content: "視診所見を提示します。"},
		{Role: models.RoleUser, Content: "いつから痛みますか"},
	}

	turn := h.SendTurn(context.Background(), history, "SYSTEM")
	assert.Equal(t, models.RolePatient, turn.Role)

	msgs := provider.last.Messages
	require.Len(t, msgs, len(history)+2)

	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "SYSTEM", msgs[0].Content)

	// Both simulated voices ride the assistant role on the wire.
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, "assistant", msgs[3].Role)
	assert.Equal(t, "user", msgs[4].Role)

	assert.Equal(t, "system", msgs[len(msgs)-1].Role)
	assert.True(t, provider.last.JSONMode)
}
