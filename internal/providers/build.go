package providers

import (
	"fmt"
	"strings"
	"time"

	"drillchat/internal/config"
)

// New builds the chat provider named by cfg.Provider.
func New(cfg config.Config) (ChatProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openrouter":
		timeout := time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second
		return NewOpenRouterProvider(cfg.OpenRouterKey, cfg.Model, cfg.SiteURL, cfg.SiteName, timeout), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
