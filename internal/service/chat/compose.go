package chat

import (
	"strconv"
	"strings"

	"github.com/iachat/chat-widget/internal/model/chat"
)

const (
	// FallbackReply replaces an empty reply from the API.
	FallbackReply = "No encontré información relevante."
	// ErrorReply is appended whenever the chat request fails.
	ErrorReply = "❌ Lo siento, no pude conectar con el servidor. Por favor, intenta de nuevo más tarde."

	offersHeader = "\n\n📋 **Ofertas encontradas:**\n"
)

// ComposeReply turns an API response into assistant turn content.
// Offers are listed after the reply using the bold and link markers the
// renderer understands.
func ComposeReply(resp chat.Response) string {
	reply := resp.Reply
	if reply == "" {
		reply = FallbackReply
	}
	if len(resp.Offers) == 0 {
		return reply
	}

	var b strings.Builder
	b.WriteString(reply)
	b.WriteString(offersHeader)
	for i, offer := range resp.Offers {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". **")
		b.WriteString(offer.Title)
		b.WriteString("**")
		if offer.Price != "" {
			b.WriteString(" - ")
			b.WriteString(offer.Price)
		}
		b.WriteString("\n   ")
		b.WriteString(offer.Description)
		if offer.URL != "" {
			b.WriteString("\n   🔗 [Ver más](")
			b.WriteString(offer.URL)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
