package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"drillchat/internal/models"
	"drillchat/internal/providers"
	"drillchat/internal/refdoc"

	"github.com/stretchr/testify/require"
)

type captureProvider struct {
	got providers.ChatRequest
}

func (c *captureProvider) Chat(_ context.Context, req providers.ChatRequest) (providers.ChatResponse, providers.ProviderInfo, error) {
	c.got = req
	return providers.ChatResponse{ID: "r1", Model: "m", Text: "ok"}, providers.ProviderInfo{Name: "capture", Model: "m"}, nil
}

type fixedSource struct{ text string }

func (f fixedSource) Extract(context.Context) (string, error) { return f.text, nil }

func newTestGateway(p providers.ChatProvider) *Gateway {
	docs := refdoc.NewLoader(fixedSource{text: "kick tolerance and shut-in procedures"}, time.Hour, 1000)
	return NewGateway(p, docs)
}

func TestSendPrependsSystemPromptWithContext(t *testing.T) {
	cp := &captureProvider{}
	gw := newTestGateway(cp)

	resp, _, err := gw.Send(context.Background(), []models.Message{{Role: "user", Content: "what is kick tolerance?"}})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text)

	require.Len(t, cp.got.Messages, 2)
	sys := cp.got.Messages[0]
	require.Equal(t, "system", sys.Role)
	require.Contains(t, sys.Content, "GRAPH_DATA")
	require.Contains(t, sys.Content, "TABLE_DATA")
	require.True(t, strings.HasSuffix(sys.Content, "kick tolerance and shut-in procedures"))
	require.Equal(t, "user", cp.got.Messages[1].Role)
}

func TestSendValidation(t *testing.T) {
	gw := newTestGateway(&captureProvider{})

	cases := []struct {
		name    string
		history []models.Message
	}{
		{"empty history", nil},
		{"last not user", []models.Message{{Role: "user", Content: "q"}, {Role: "assistant", Content: "a"}}},
		{"empty content", []models.Message{{Role: "user", Content: "   "}}},
		{"bad role", []models.Message{{Role: "system", Content: "x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := gw.Send(context.Background(), tc.history)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

type failingSource struct{}

func (failingSource) Extract(context.Context) (string, error) {
	return "", refdoc.ErrContextUnavailable
}

func TestSendContextUnavailable(t *testing.T) {
	docs := refdoc.NewLoader(failingSource{}, time.Hour, 1000)
	gw := NewGateway(&captureProvider{}, docs)

	_, _, err := gw.Send(context.Background(), []models.Message{{Role: "user", Content: "q"}})
	require.ErrorIs(t, err, refdoc.ErrContextUnavailable)
}
