package storage

import (
	"context"
	"fmt"
)

// ChatCallRecord is one audited chat round-trip. Message bodies are not
// stored; only operational metadata for debugging and cost tracking.
type ChatCallRecord struct {
	ChatID       string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
	MessageCount int
	LatencyMs    int64
	HasGraph     bool
	HasTable     bool
	TotalTokens  int
}

type ChatLogRepo struct {
	db *DB
}

func NewChatLogRepo(db *DB) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

func (r *ChatLogRepo) Insert(ctx context.Context, rec ChatCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO chat_calls(chat_id, provider_name, model, status, error_type, message_count, latency_ms, has_graph, has_table, total_tokens)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), $2, $3, $4, NULLIF($5,''), $6, $7, $8, $9, $10)`,
		rec.ChatID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType,
		rec.MessageCount, rec.LatencyMs, rec.HasGraph, rec.HasTable, rec.TotalTokens)
	if err != nil {
		return fmt.Errorf("insert chat call: %w", err)
	}
	return nil
}
