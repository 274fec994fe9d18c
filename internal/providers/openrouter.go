package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterProvider relays a full conversation to OpenRouter's
// chat-completions API. One attempt per call; every failure is terminal for
// that round-trip.
type OpenRouterProvider struct {
	apiKey   string
	model    string
	siteURL  string
	siteName string
	baseURL  string
	client   *http.Client
}

func NewOpenRouterProvider(apiKey, model, siteURL, siteName string, timeout time.Duration) *OpenRouterProvider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenRouterProvider{
		apiKey:   apiKey,
		model:    model,
		siteURL:  siteURL,
		siteName: siteName,
		baseURL:  openRouterURL,
		client:   &http.Client{Timeout: timeout},
	}
}

func (o *OpenRouterProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "openrouter", Model: o.model}
	if strings.TrimSpace(o.apiKey) == "" {
		return ChatResponse{}, info, &ConfigError{Message: "OPENROUTER_API_KEY is not set"}
	}

	payload, _ := json.Marshal(map[string]any{
		"model":    o.model,
		"messages": req.Messages,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return ChatResponse{}, info, &ProtocolError{Message: "build request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if o.siteURL != "" {
		httpReq.Header.Set("HTTP-Referer", o.siteURL)
	}
	if o.siteName != "" {
		httpReq.Header.Set("X-Title", o.siteName)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, info, &ProtocolError{Message: "chat completion request failed", Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, info, &ProtocolError{Message: "read response body", Err: err}
	}

	if resp.StatusCode >= 400 {
		return ChatResponse{}, info, classifyErrorBody(resp.StatusCode, body)
	}

	var parsed struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage Usage `json:"usage"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ChatResponse{}, info, &ProtocolError{Message: "decode chat completion", Err: err}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return ChatResponse{}, info, &ResponseError{Message: "no completion content in upstream envelope"}
	}
	if parsed.Model != "" {
		info.Model = parsed.Model
	}
	return ChatResponse{
		ID:    parsed.ID,
		Model: info.Model,
		Text:  parsed.Choices[0].Message.Content,
		Usage: parsed.Usage,
	}, info, nil
}

// classifyErrorBody turns an upstream failure body into a RequestError when it
// carries the structured envelope, or a ProtocolError when it does not.
func classifyErrorBody(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		upstream := envelope.Error.Code
		if upstream == 0 {
			upstream = status
		}
		return &RequestError{
			StatusCode: upstream,
			Kind:       ClassifyStatus(upstream),
			Message:    envelope.Error.Message,
		}
	}
	return &ProtocolError{Message: fmt.Sprintf("status %d with unparsable body: %s", status, truncateBody(body))}
}

func truncateBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
