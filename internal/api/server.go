package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"drillchat/internal/chat"
	"drillchat/internal/config"
	"drillchat/internal/datablock"
	"drillchat/internal/models"
	"drillchat/internal/providers"
	"drillchat/internal/refdoc"
	"drillchat/internal/storage"

	"github.com/google/uuid"
)

type Server struct {
	cfg     config.Config
	gateway *chat.Gateway
	docs    *refdoc.Loader
	chatlog *storage.ChatLogRepo
}

func NewServer(cfg config.Config) (*Server, error) {
	provider, err := providers.New(cfg)
	if err != nil {
		return nil, err
	}
	docs := refdoc.NewLoader(
		refdoc.NewPDFSource(cfg.ReferencePDF, cfg.ContextCachePath),
		time.Duration(cfg.ContextTTLSeconds)*time.Second,
		cfg.ContextChars,
	)

	var chatlog *storage.ChatLogRepo
	if cfg.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db, err := storage.NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		chatlog = storage.NewChatLogRepo(db)
	}

	return &Server{
		cfg:     cfg,
		gateway: chat.NewGateway(provider, docs),
		docs:    docs,
		chatlog: chatlog,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/context/refresh", s.handleContextRefresh)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type chatResponse struct {
	ID    string          `json:"id"`
	Model string          `json:"model"`
	Reply models.Message  `json:"reply"`
	Usage providers.Usage `json:"usage"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", 0)
		return
	}
	var req struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid json: %v", err), 0)
		return
	}

	chatID := uuid.NewString()
	start := time.Now()

	resp, info, err := s.gateway.Send(r.Context(), req.Messages)
	if err != nil {
		status, label, code := classifyError(err)
		log.Printf("chat id=%s status=error class=%s err=%v", chatID, label, err)
		s.audit(r.Context(), storage.ChatCallRecord{
			ChatID:       chatID,
			ProviderName: info.Name,
			Model:        info.Model,
			Status:       "failed",
			ErrorType:    label,
			MessageCount: len(req.Messages),
			LatencyMs:    time.Since(start).Milliseconds(),
		})
		writeErr(w, status, label, err.Error(), code)
		return
	}

	cleaned, graph, table := datablock.Extract(resp.Text)
	log.Printf("chat id=%s status=ok model=%s latency=%s graph=%t table=%t",
		chatID, resp.Model, time.Since(start).Round(time.Millisecond), graph != nil, table != nil)
	s.audit(r.Context(), storage.ChatCallRecord{
		ChatID:       chatID,
		ProviderName: info.Name,
		Model:        resp.Model,
		Status:       "ok",
		MessageCount: len(req.Messages),
		LatencyMs:    time.Since(start).Milliseconds(),
		HasGraph:     graph != nil,
		HasTable:     table != nil,
		TotalTokens:  resp.Usage.TotalTokens,
	})

	writeJSON(w, http.StatusOK, chatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Reply: models.Message{
			Role:      "assistant",
			Content:   cleaned,
			GraphData: graph,
			TableData: table,
		},
		Usage: resp.Usage,
	})
}

func (s *Server) handleContextRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", 0)
		return
	}
	excerpt, err := s.docs.Refresh(r.Context())
	if err != nil {
		status, label, code := classifyError(err)
		writeErr(w, status, label, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"refreshed": true, "chars": len(excerpt)})
}

// audit records the round-trip when storage is configured. Failures to record
// are logged, never surfaced to the caller.
func (s *Server) audit(ctx context.Context, rec storage.ChatCallRecord) {
	if s.chatlog == nil {
		return
	}
	if err := s.chatlog.Insert(ctx, rec); err != nil {
		log.Printf("chat id=%s audit insert failed: %v", rec.ChatID, err)
	}
}

// classifyError maps the failure taxonomy onto an HTTP status, a stable error
// label, and (for structured upstream errors) the upstream's own code.
func classifyError(err error) (status int, label string, code int) {
	var reqErr *providers.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Kind {
		case providers.KindAuth:
			return http.StatusUnauthorized, "upstream_auth_error", reqErr.StatusCode
		case providers.KindBilling:
			return http.StatusPaymentRequired, "upstream_billing_error", reqErr.StatusCode
		case providers.KindRateLimit:
			return http.StatusTooManyRequests, "upstream_rate_limited", reqErr.StatusCode
		case providers.KindServer:
			return http.StatusBadGateway, "upstream_server_error", reqErr.StatusCode
		default:
			return http.StatusBadRequest, "upstream_bad_request", reqErr.StatusCode
		}
	}
	var protoErr *providers.ProtocolError
	if errors.As(err, &protoErr) {
		return http.StatusBadGateway, "upstream_protocol_error", 0
	}
	var respErr *providers.ResponseError
	if errors.As(err, &respErr) {
		return http.StatusBadGateway, "upstream_response_error", 0
	}
	switch {
	case errors.Is(err, chat.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request", 0
	case errors.Is(err, providers.ErrMissingCredential):
		return http.StatusInternalServerError, "configuration_error", 0
	case errors.Is(err, refdoc.ErrContextUnavailable):
		return http.StatusInternalServerError, "context_unavailable", 0
	default:
		return http.StatusInternalServerError, "internal_error", 0
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr emits the flat error envelope the frontend consumes:
// {error, details, code?}.
func writeErr(w http.ResponseWriter, status int, label, details string, upstreamCode int) {
	body := map[string]any{
		"error":   label,
		"details": details,
	}
	if upstreamCode != 0 {
		body["code"] = upstreamCode
	}
	writeJSON(w, status, body)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
