package ai

import (
	"fmt"
	"strings"

	"github.com/iachat/chat-widget/internal/model/chat"
)

// PromptTemplate defines the structure for assistant prompts
type PromptTemplate struct {
	SystemPrompt string
	StyleHints   []string
	ContextRules []string
}

// DefaultTemplate is the sales-assistant prompt shared by every company.
func DefaultTemplate() *PromptTemplate {
	return &PromptTemplate{
		SystemPrompt: "Eres el asistente virtual de %s. Atiendes a visitantes de su sitio web desde un chat flotante.",
		StyleHints: []string{
			"Responde siempre en español, con un tono cercano y profesional",
			"Usa frases cortas; el chat es una ventana pequeña",
			"Puedes resaltar palabras clave con **negrita**",
		},
		ContextRules: []string{
			"No inventes precios, promociones ni enlaces",
			"Si hay ofertas relevantes, menciónalas por su nombre; el widget las lista debajo de tu respuesta",
			"No repitas la lista de ofertas ni escribas enlaces, el widget los agrega",
			"Si no sabes algo, ofrece derivar la consulta a una persona del equipo",
		},
	}
}

// BuildSystemPrompt creates the system prompt for a company and the offers
// that matched the visitor's message.
func (t *PromptTemplate) BuildSystemPrompt(company string, offers []chat.Offer) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(t.SystemPrompt, company))

	b.WriteString("\n\nEstilo:\n- ")
	b.WriteString(strings.Join(t.StyleHints, "\n- "))

	b.WriteString("\n\nReglas:\n- ")
	b.WriteString(strings.Join(t.ContextRules, "\n- "))

	if len(offers) == 0 {
		b.WriteString("\n\nNo hay ofertas relacionadas con este mensaje.")
		return b.String()
	}

	b.WriteString("\n\nOfertas relacionadas:")
	for _, o := range offers {
		b.WriteString("\n- ")
		b.WriteString(o.Title)
		if o.Price != "" {
			b.WriteString(" (")
			b.WriteString(o.Price)
			b.WriteString(")")
		}
		if o.Discount != "" {
			b.WriteString(", descuento ")
			b.WriteString(o.Discount)
		}
		b.WriteString(": ")
		b.WriteString(o.Description)
	}
	return b.String()
}
