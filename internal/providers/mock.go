package providers

import (
	"context"
	"strings"
)

// MockProvider returns deterministic replies so the API and pipeline can be
// exercised without an upstream key. Replies are keyed on the last user
// message and include marker-wrapped data blocks on request.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	_ = ctx
	last := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			last = strings.ToLower(req.Messages[i].Content)
			break
		}
	}

	text := "Mock answer: mud weight is chosen so bottom-hole pressure stays between pore pressure and fracture gradient, $P_p < P_{bh} < P_f$."
	switch {
	case strings.Contains(last, "scatter"):
		text = "Depth versus standpipe pressure from the mock dataset:\n" +
			`<!--GRAPH_DATA: {"type":"scatter","data":[{"depth":1000,"pressure":1200},{"depth":2000,"pressure":2450}],"options":{"xAxis":{"name":"depth"},"yAxis":{"name":"pressure"}},"title":"Pressure vs Depth"} -->`
	case strings.Contains(last, "chart"), strings.Contains(last, "graph"), strings.Contains(last, "plot"):
		text = "Rate of penetration by section from the mock dataset:\n" +
			`<!--GRAPH_DATA: {"type":"bar","data":[{"name":"Surface","rop":45},{"name":"Intermediate","rop":28},{"name":"Production","rop":12}],"title":"ROP by Hole Section"} -->`
	case strings.Contains(last, "table"):
		text = "Casing program from the mock dataset:\n" +
			`<!--TABLE_DATA: {"headers":["Section","Casing OD (in)","Setting Depth (ft)"],"rows":[["Surface",13.375,1500],["Intermediate",9.625,7200],["Production",7,12500]],"title":"Casing Program"} -->`
	}

	return ChatResponse{
		ID:    "mock-1",
		Model: "mock-llm-v1",
		Text:  text,
		Usage: Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
	}, ProviderInfo{Name: "mock", Model: "mock-llm-v1"}, nil
}
