package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iachat/chat-widget/internal/model/chat"
	"github.com/iachat/chat-widget/internal/model/offer"
	"github.com/iachat/chat-widget/internal/service/assistant"
)

type replierFunc func(ctx context.Context, company, message string, offers []chat.Offer) (string, error)

func (f replierFunc) Reply(ctx context.Context, company, message string, offers []chat.Offer) (string, error) {
	return f(ctx, company, message, offers)
}

func request(message string) chat.Request {
	return chat.Request{Company: "Demo", CompanyID: offer.DemoCompanyID, Message: message}
}

func TestReplyFromCatalog(t *testing.T) {
	svc := assistant.NewService(offer.NewMemoryStore(offer.Seed()), nil, 3)

	resp, err := svc.Reply(context.Background(), request("quiero fibra"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Offers, 1)
	assert.Equal(t, "Fibra 600 Mb", resp.Offers[0].Title)
	assert.Contains(t, resp.Reply, "**Demo**")
}

func TestReplyWithoutMatches(t *testing.T) {
	svc := assistant.NewService(offer.NewMemoryStore(offer.Seed()), nil, 3)

	resp, err := svc.Reply(context.Background(), request("hola"))
	require.NoError(t, err)
	assert.Empty(t, resp.Offers)
	assert.Contains(t, resp.Reply, "No encontré ofertas")
}

func TestReplyUsesReplier(t *testing.T) {
	var gotOffers []chat.Offer
	replier := replierFunc(func(_ context.Context, company, message string, offers []chat.Offer) (string, error) {
		gotOffers = offers
		return "Hola desde " + company, nil
	})
	svc := assistant.NewService(offer.NewMemoryStore(offer.Seed()), replier, 3)

	resp, err := svc.Reply(context.Background(), request("plan movil con datos"))
	require.NoError(t, err)
	assert.Equal(t, "Hola desde Demo", resp.Reply)
	assert.Equal(t, gotOffers, resp.Offers)
}

func TestReplyFallsBackWhenReplierFails(t *testing.T) {
	replier := replierFunc(func(context.Context, string, string, []chat.Offer) (string, error) {
		return "", errors.New("model offline")
	})
	svc := assistant.NewService(offer.NewMemoryStore(offer.Seed()), replier, 3)

	resp, err := svc.Reply(context.Background(), request("fibra"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Reply, "una opción")
}

func TestReplyValidates(t *testing.T) {
	svc := assistant.NewService(offer.NewMemoryStore(nil), nil, 3)

	_, err := svc.Reply(context.Background(), chat.Request{CompanyID: "x", Message: "  "})
	assert.ErrorIs(t, err, assistant.ErrMessageRequired)
}

func TestReplyWithoutCompanyIDSeesSharedOffers(t *testing.T) {
	svc := assistant.NewService(offer.NewMemoryStore(offer.Seed()), nil, 3)

	resp, err := svc.Reply(context.Background(), chat.Request{Company: "Acme", Message: "necesito soporte con internet"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Offers, 1)
	assert.Equal(t, "Soporte técnico 24/7", resp.Offers[0].Title)
}
