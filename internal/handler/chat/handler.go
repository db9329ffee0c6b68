package chat

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/metrics"
	limiter "github.com/iachat/chat-widget/internal/middleware"
	"github.com/iachat/chat-widget/internal/model/chat"
	"github.com/iachat/chat-widget/internal/service/assistant"
	"github.com/iachat/chat-widget/pkg/utils"
)

const maxBodyBytes = 16 << 10

// Handler 聊天服务的HTTP处理器
type Handler struct {
	assistant *assistant.Service
	limiter   *limiter.KeyedLimiter
	metrics   *metrics.Metrics
}

// New 创建聊天处理器。limiter 与 metrics 可以为 nil。
func New(svc *assistant.Service, l *limiter.KeyedLimiter, m *metrics.Metrics) *Handler {
	return &Handler{
		assistant: svc,
		limiter:   l,
		metrics:   m,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat answers one widget turn.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req chat.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.metrics.ObserveChat(metrics.OutcomeInvalid, started, 0)
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := assistant.Validate(req); err != nil {
		h.metrics.ObserveChat(metrics.OutcomeInvalid, started, 0)
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.limiter.Allow(limitKey(r, req)) {
		h.metrics.ObserveChat(metrics.OutcomeRateLimited, started, 0)
		respondFailure(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	resp, err := h.assistant.Reply(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, assistant.ErrMessageRequired) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("companyId", req.CompanyID).
			Msg("[chat] reply failed")
		h.metrics.ObserveChat(metrics.OutcomeError, started, 0)
		respondFailure(w, status, "reply failed")
		return
	}

	h.metrics.ObserveChat(metrics.OutcomeOK, started, len(resp.Offers))
	utils.RespondJSON(w, http.StatusOK, resp)
}

// limitKey buckets by company; anonymous widgets are bucketed by client address.
func limitKey(r *http.Request, req chat.Request) string {
	if id := strings.TrimSpace(req.CompanyID); id != "" {
		return "company:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

// respondFailure keeps error bodies in the chat response shape.
func respondFailure(w http.ResponseWriter, status int, message string) {
	utils.RespondJSON(w, status, chat.Response{Success: false, Error: message})
}
