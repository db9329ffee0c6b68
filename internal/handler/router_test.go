package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iachat/chat-widget/internal/config"
	"github.com/iachat/chat-widget/internal/metrics"
	"github.com/iachat/chat-widget/internal/model/chat"
	"github.com/iachat/chat-widget/internal/model/offer"
	"github.com/iachat/chat-widget/internal/service/assistant"
	chatservice "github.com/iachat/chat-widget/internal/service/chat"
	"github.com/iachat/chat-widget/internal/widget"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.js"), []byte("/* bundle */"), 0o644))

	store := offer.NewMemoryStore(offer.Seed())
	return NewRouter(Deps{
		Offers:    store,
		Assistant: assistant.NewService(store, nil, 3),
		Metrics:   metrics.New(),
		Widget:    config.WidgetConfig{BundleDir: dir, BundleFile: "widget.js"},
		PublicURL: "https://cdn.iachat.test",
	})
}

func TestRouterHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterChatRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	payload, err := json.Marshal(chat.Request{Company: "Demo", CompanyID: offer.DemoCompanyID, Message: "quiero televisión"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))

	var body chat.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	require.NotEmpty(t, body.Offers)
	assert.Equal(t, "TV Full HD", body.Offers[0].Title)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `iachat_chat_requests_total{outcome="ok"} 1`)
}

func TestDefaultWidgetTalksToOwnServer(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	manager := widget.NewManager(srv.URL, widget.WithSessionOptions(chatservice.WithTypingDelay(0)))
	mount := manager.Init(widget.Config{Company: "Acme"}, nil)
	require.Empty(t, mount.Config.CompanyID)

	require.NoError(t, mount.Send(context.Background(), "necesito soporte"))

	messages := mount.Session.Messages()
	require.Len(t, messages, 3)
	last := messages[2].Content
	assert.NotEqual(t, chatservice.ErrorReply, last)
	assert.Contains(t, last, "**Soporte técnico 24/7**")
}

func TestRouterServesWidgetAssets(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/widget/loader.js", "/widget/latest.json", "/widget/widget.js"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widget/embed?company=Acme", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "https://cdn.iachat.test/widget/loader.js"))
}
