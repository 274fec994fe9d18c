package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIAddr                string
	Provider               string
	OpenRouterKey          string
	Model                  string
	SiteURL                string
	SiteName               string
	ReferencePDF           string
	ContextCachePath       string
	ContextChars           int
	ContextTTLSeconds      int
	UpstreamTimeoutSeconds int
	PostgresURL            string
}

func Load() Config {
	return Config{
		APIAddr:                getenv("DRILLCHAT_API_ADDR", ":8080"),
		Provider:               getenv("DRILLCHAT_PROVIDER", "openrouter"),
		OpenRouterKey:          os.Getenv("OPENROUTER_API_KEY"),
		Model:                  getenv("DRILLCHAT_MODEL", "deepseek/deepseek-chat-v3-0324:free"),
		SiteURL:                os.Getenv("DRILLCHAT_SITE_URL"),
		SiteName:               os.Getenv("DRILLCHAT_SITE_NAME"),
		ReferencePDF:           getenv("DRILLCHAT_REFERENCE_PDF", "./data/reference.pdf"),
		ContextCachePath:       os.Getenv("DRILLCHAT_CONTEXT_CACHE"),
		ContextChars:           getenvInt("DRILLCHAT_CONTEXT_CHARS", 9000),
		ContextTTLSeconds:      getenvInt("DRILLCHAT_CONTEXT_TTL_SECONDS", 600),
		UpstreamTimeoutSeconds: getenvInt("DRILLCHAT_UPSTREAM_TIMEOUT_SECONDS", 120),
		PostgresURL:            os.Getenv("DRILLCHAT_POSTGRES_URL"),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
