package widget

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/config"
	"github.com/iachat/chat-widget/internal/loader"
	"github.com/iachat/chat-widget/internal/metrics"
	"github.com/iachat/chat-widget/internal/model/chat"
	"github.com/iachat/chat-widget/internal/model/offer"
	chatservice "github.com/iachat/chat-widget/internal/service/chat"
	"github.com/iachat/chat-widget/internal/widget"
	"github.com/iachat/chat-widget/pkg/utils"
)

// Prefix is where the widget assets are mounted.
const Prefix = "/widget"

//go:embed assets/loader.js
var loaderScript []byte

const previewOfferLimit = 3

// Handler serves the loader, its manifest and the bundle directory.
type Handler struct {
	cfg       config.WidgetConfig
	publicURL string
	metrics   *metrics.Metrics
	offers    offer.Store

	mu     sync.Mutex
	cached bundleStamp
	hashed loader.Manifest
}

// bundleStamp identifies one build of the bundle file.
type bundleStamp struct {
	path    string
	modTime time.Time
	size    int64
}

// New 创建widget资源处理器
func New(cfg config.WidgetConfig, publicURL string, m *metrics.Metrics) *Handler {
	return &Handler{cfg: cfg, publicURL: strings.TrimRight(publicURL, "/"), metrics: m}
}

// WithOffers lets the preview page answer a sample message from the catalog.
func (h *Handler) WithOffers(store offer.Store) *Handler {
	h.offers = store
	return h
}

// RegisterRoutes 注册widget相关的路由，r 应当挂载在 Prefix 下
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/"+loader.ScriptName, h.handleLoader)
	r.Get("/"+loader.ManifestName, h.handleManifest)
	r.Get("/styles.css", h.handleStyles)
	r.Get("/embed", h.handleEmbed)
	r.Get("/preview", h.handlePreview)
	r.Handle("/*", http.StripPrefix(Prefix, http.FileServer(filesOnly{http.Dir(h.cfg.BundleDir)})))
}

func (h *Handler) handleLoader(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(loaderScript)
}

// handleManifest describes the current bundle; the version defaults to a
// content hash so every rebuild busts caches.
func (h *Handler) handleManifest(w http.ResponseWriter, _ *http.Request) {
	manifest, err := h.Manifest()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			utils.RespondError(w, http.StatusNotFound, "widget bundle not found")
			return
		}
		log.Error().Err(err).Msg("[widget] failed to build manifest")
		utils.RespondError(w, http.StatusInternalServerError, "manifest unavailable")
		return
	}

	h.metrics.ManifestServed()
	w.Header().Set("Cache-Control", "no-cache")
	utils.RespondJSON(w, http.StatusOK, manifest)
}

// Manifest builds the manifest for the configured bundle. The content hash
// is recomputed only when the file's size or modification time changes.
func (h *Handler) Manifest() (loader.Manifest, error) {
	path := filepath.Join(h.cfg.BundleDir, filepath.Base(h.cfg.BundleFile))
	info, err := os.Stat(path)
	if err != nil {
		return loader.Manifest{}, fmt.Errorf("stat bundle: %w", err)
	}
	stamp := bundleStamp{path: path, modTime: info.ModTime(), size: info.Size()}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cached != stamp {
		manifest, err := loader.ManifestForFile(path)
		if err != nil {
			return loader.Manifest{}, err
		}
		h.cached, h.hashed = stamp, manifest
	}

	manifest := h.hashed
	if h.cfg.Version != "" {
		manifest.Version = h.cfg.Version
	}
	return manifest, nil
}

func (h *Handler) handleStyles(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(widget.StyleSheet()))
}

// handleEmbed returns the host-page snippet for the config in the query string.
func (h *Handler) handleEmbed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dataset := make(map[string]string, len(q))
	for key := range q {
		dataset[key] = q.Get(key)
	}
	cfg := widget.ConfigFromDataset(dataset)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"snippet": widget.Snippet(h.origin(r)+Prefix+"/"+loader.ScriptName, cfg),
		"config":  widget.Merge(cfg, widget.Config{}, widget.Defaults()),
	})
}

// handlePreview renders the open chat window for the query config. An
// optional message is answered from the offer catalog.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dataset := make(map[string]string, len(q))
	for key := range q {
		dataset[key] = q.Get(key)
	}
	cfg := widget.Merge(widget.ConfigFromDataset(dataset), widget.Config{}, widget.Defaults())

	now := time.Now()
	identity := chat.Identity{Company: cfg.Company, CompanyID: cfg.CompanyID}
	turns := []chat.Turn{chat.NewTurn(chat.RoleAssistant, identity.Greeting(), now)}
	if message := strings.TrimSpace(q.Get("message")); message != "" {
		resp := chat.Response{Reply: "Esto es lo que encontré para ti:", Success: true}
		if h.offers != nil {
			resp.Offers = h.offers.Search(cfg.CompanyID, message, previewOfferLimit)
		}
		turns = append(turns,
			chat.NewTurn(chat.RoleUser, message, now),
			chat.NewTurn(chat.RoleAssistant, chatservice.ComposeReply(resp), now),
		)
	}

	page, err := widget.PreviewPage(cfg, turns, time.Local)
	if err != nil {
		log.Error().Err(err).Msg("[widget] failed to render preview")
		utils.RespondError(w, http.StatusInternalServerError, "preview unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// filesOnly hides directories from the file server so bundle folders are
// never listed.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

func (h *Handler) origin(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
