package chat

import "time"

// timestampLayout matches the millisecond ISO-8601 form browsers emit.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Offer is a promotional item the chat API may attach to a reply.
type Offer struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Price       string `json:"price,omitempty" yaml:"price,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Discount    string `json:"discount,omitempty" yaml:"discount,omitempty"`
}

// Request is the body POSTed to the chat endpoint for every user turn.
type Request struct {
	Company   string `json:"company"`
	CompanyID string `json:"companyId"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewRequest builds a request stamped with an ISO-8601 timestamp.
func NewRequest(id Identity, message string, at time.Time) Request {
	return Request{
		Company:   id.Company,
		CompanyID: id.CompanyID,
		Message:   message,
		Timestamp: at.UTC().Format(timestampLayout),
	}
}

// Response is the body returned by the chat endpoint.
type Response struct {
	Reply   string  `json:"reply"`
	Offers  []Offer `json:"offers,omitempty"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}
