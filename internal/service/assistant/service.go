// Package assistant answers the widget's chat requests.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/model/chat"
	"github.com/iachat/chat-widget/internal/model/offer"
)

// ErrMessageRequired rejects requests without visitor text.
var ErrMessageRequired = errors.New("message is required")

// Replier produces free-form assistant text. The AI service implements it.
type Replier interface {
	Reply(ctx context.Context, company, message string, offers []chat.Offer) (string, error)
}

// Service turns a chat request into a reply plus matching offers.
type Service struct {
	offers     offer.Store
	replier    Replier
	offerLimit int
}

// NewService wires the catalog and an optional replier. Without a replier
// replies are built from the catalog alone.
func NewService(offers offer.Store, replier Replier, offerLimit int) *Service {
	return &Service{offers: offers, replier: replier, offerLimit: offerLimit}
}

// Validate checks the fields the responder depends on. An empty companyId is
// allowed: such requests only see offers shared by every company.
func Validate(req chat.Request) error {
	if strings.TrimSpace(req.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}

// Reply answers one request. A failing replier degrades to the catalog reply.
func (s *Service) Reply(ctx context.Context, req chat.Request) (chat.Response, error) {
	if err := Validate(req); err != nil {
		return chat.Response{}, err
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = "nuestra empresa"
	}
	offers := s.offers.Search(req.CompanyID, req.Message, s.offerLimit)

	if s.replier != nil {
		reply, err := s.replier.Reply(ctx, company, req.Message, offers)
		if err == nil && reply != "" {
			return chat.Response{Reply: reply, Offers: offers, Success: true}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return chat.Response{}, fmt.Errorf("reply cancelled: %w", ctxErr)
		}
		log.Warn().Err(err).Str("companyId", req.CompanyID).Msg("AI reply unavailable, answering from catalog")
	}

	return chat.Response{Reply: catalogReply(company, offers), Offers: offers, Success: true}, nil
}

func catalogReply(company string, offers []chat.Offer) string {
	switch len(offers) {
	case 0:
		return fmt.Sprintf("Gracias por escribir a **%s**. No encontré ofertas relacionadas con tu consulta, ¿puedes contarme un poco más?", company)
	case 1:
		return fmt.Sprintf("En **%s** tenemos una opción que puede interesarte.", company)
	default:
		return fmt.Sprintf("En **%s** encontré %d opciones que pueden interesarte.", company, len(offers))
	}
}
