package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iachat/chat-widget/internal/model/chat"
)

func TestBuildSystemPromptNamesCompany(t *testing.T) {
	got := DefaultTemplate().BuildSystemPrompt("Acme", nil)
	assert.True(t, strings.HasPrefix(got, "Eres el asistente virtual de Acme."))
	assert.Contains(t, got, "No hay ofertas relacionadas")
}

func TestBuildSystemPromptListsOffers(t *testing.T) {
	got := DefaultTemplate().BuildSystemPrompt("Acme", []chat.Offer{
		{Title: "Plan Pro", Description: "Todo incluido", Price: "$20", Discount: "10%"},
		{Title: "Plan Base", Description: "Lo esencial"},
	})
	assert.Contains(t, got, "- Plan Pro ($20), descuento 10%: Todo incluido")
	assert.Contains(t, got, "- Plan Base: Lo esencial")
}
