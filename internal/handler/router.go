package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iachat/chat-widget/internal/config"
	"github.com/iachat/chat-widget/internal/handler/chat"
	"github.com/iachat/chat-widget/internal/handler/offer"
	"github.com/iachat/chat-widget/internal/handler/widget"
	"github.com/iachat/chat-widget/internal/metrics"
	middlewarePkg "github.com/iachat/chat-widget/internal/middleware"
	offerModel "github.com/iachat/chat-widget/internal/model/offer"
	"github.com/iachat/chat-widget/internal/service/assistant"
	"github.com/iachat/chat-widget/pkg/utils"
)

// Deps bundles what the router wires into handlers. Limiter and Metrics may be nil.
type Deps struct {
	Offers    offerModel.Store
	Assistant *assistant.Service
	Limiter   *middlewarePkg.KeyedLimiter
	Metrics   *metrics.Metrics
	Widget    config.WidgetConfig
	PublicURL string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Create handlers
	offerHandler := offer.New(deps.Offers)
	chatHandler := chat.New(deps.Assistant, deps.Limiter, deps.Metrics)
	widgetHandler := widget.New(deps.Widget, deps.PublicURL, deps.Metrics).WithOffers(deps.Offers)

	r.Route("/api", func(api chi.Router) {
		offerHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	r.Route(widget.Prefix, widgetHandler.RegisterRoutes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
