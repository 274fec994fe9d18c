// Package chat relays a validated conversation, grounded with the reference
// excerpt, to the configured LLM provider.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drillchat/internal/models"
	"drillchat/internal/providers"
	"drillchat/internal/refdoc"
)

// ErrInvalidRequest reports malformed caller input: empty history, a history
// not ending in a user turn, or a turn with no content.
var ErrInvalidRequest = errors.New("invalid chat request")

type Gateway struct {
	provider providers.ChatProvider
	docs     *refdoc.Loader
}

func NewGateway(provider providers.ChatProvider, docs *refdoc.Loader) *Gateway {
	return &Gateway{provider: provider, docs: docs}
}

// Send prepends the system instruction (formatting rules plus reference
// excerpt) to the history and performs one upstream round-trip. No failure is
// retried.
func (g *Gateway) Send(ctx context.Context, history []models.Message) (providers.ChatResponse, providers.ProviderInfo, error) {
	if err := validateHistory(history); err != nil {
		return providers.ChatResponse{}, providers.ProviderInfo{}, err
	}

	snippet, err := g.docs.Context(ctx)
	if err != nil {
		return providers.ChatResponse{}, providers.ProviderInfo{}, err
	}

	msgs := make([]providers.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, providers.ChatMessage{Role: "system", Content: BuildSystemPrompt(snippet)})
	for _, m := range history {
		msgs = append(msgs, providers.ChatMessage{Role: m.Role, Content: m.Content})
	}

	return g.provider.Chat(ctx, providers.ChatRequest{Messages: msgs})
}

func validateHistory(history []models.Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: messages must not be empty", ErrInvalidRequest)
	}
	for i, m := range history {
		switch m.Role {
		case "user", "assistant":
		default:
			return fmt.Errorf("%w: message %d has unsupported role %q", ErrInvalidRequest, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d has empty content", ErrInvalidRequest, i)
		}
	}
	if history[len(history)-1].Role != "user" {
		return fmt.Errorf("%w: last message must be from the user", ErrInvalidRequest)
	}
	return nil
}
