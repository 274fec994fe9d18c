package refdoc

import (
	"context"
	"sync"
	"time"

	"drillchat/internal/util"
)

// Loader caches the reference excerpt for a bounded window so each chat
// round-trip does not re-parse the document. The excerpt is a flat prefix of
// the document text capped at MaxChars; there is no chunking or ranking.
type Loader struct {
	src      Source
	ttl      time.Duration
	maxChars int

	mu        sync.Mutex
	excerpt   string
	fetchedAt time.Time
}

func NewLoader(src Source, ttl time.Duration, maxChars int) *Loader {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxChars <= 0 {
		maxChars = 9000
	}
	return &Loader{src: src, ttl: ttl, maxChars: maxChars}
}

// Context returns the cached excerpt, re-extracting when the cache window has
// expired or nothing is cached yet.
func (l *Loader) Context(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.excerpt != "" && time.Since(l.fetchedAt) < l.ttl {
		out := l.excerpt
		l.mu.Unlock()
		return out, nil
	}
	l.mu.Unlock()
	return l.refresh(ctx)
}

// Refresh discards the cached excerpt and re-extracts immediately.
func (l *Loader) Refresh(ctx context.Context) (string, error) {
	return l.refresh(ctx)
}

func (l *Loader) refresh(ctx context.Context) (string, error) {
	text, err := l.src.Extract(ctx)
	if err != nil {
		return "", err
	}
	excerpt := util.TruncateRunes(text, l.maxChars)
	l.mu.Lock()
	l.excerpt = excerpt
	l.fetchedAt = time.Now()
	l.mu.Unlock()
	return excerpt, nil
}
