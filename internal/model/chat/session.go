package chat

import "strings"

// Identity names the company a session talks on behalf of.
// A change of identity is the only thing that resets a message log.
type Identity struct {
	Company   string `json:"company"`
	CompanyID string `json:"companyId"`
}

// Same reports whether both identities address the same company.
func (i Identity) Same(other Identity) bool {
	return i.Company == other.Company && i.CompanyID == other.CompanyID
}

// Greeting returns the seeded assistant line for the company.
func (i Identity) Greeting() string {
	company := strings.TrimSpace(i.Company)
	return "¡Hola! Soy tu asistente para " + company + ". ¿En qué puedo ayudarte hoy?"
}
