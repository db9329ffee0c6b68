package offer

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iachat/chat-widget/internal/model/offer"
	"github.com/iachat/chat-widget/pkg/utils"
)

// Handler offer服务的HTTP处理器
type Handler struct {
	offers offer.Store
}

// New 创建offer处理器
func New(offers offer.Store) *Handler {
	return &Handler{
		offers: offers,
	}
}

// RegisterRoutes 注册offer相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/offers", h.handleListOffers)
}

// handleListOffers lists the catalog of one company, or searches it when q is set.
func (h *Handler) handleListOffers(w http.ResponseWriter, r *http.Request) {
	companyID := strings.TrimSpace(r.URL.Query().Get("companyId"))
	if companyID == "" {
		utils.RespondError(w, http.StatusBadRequest, "companyId query parameter is required")
		return
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		utils.RespondJSON(w, http.StatusOK, h.offers.Search(companyID, q, 0))
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.offers.List(companyID))
}
