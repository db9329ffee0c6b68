package offer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/iachat/chat-widget/internal/model/chat"
)

// Store exposes offer retrieval for the chat responder and HTTP handlers.
type Store interface {
	List(companyID string) []chat.Offer
	Search(companyID, query string, limit int) []chat.Offer
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

type catalogFile struct {
	Offers []Entry `yaml:"offers"`
}

// LoadFile reads a YAML catalog of the form `offers: [...]`.
func LoadFile(path string) (*MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read offers file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse offers file: %w", err)
	}

	for i, entry := range file.Offers {
		if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Description) == "" {
			return nil, fmt.Errorf("offer %d: title and description are required", i)
		}
	}
	return NewMemoryStore(file.Offers), nil
}

// List returns every offer visible to the company.
func (s *MemoryStore) List(companyID string) []chat.Offer {
	out := make([]chat.Offer, 0, len(s.items))
	for _, item := range s.items {
		if visible(item, companyID) {
			out = append(out, item.Offer)
		}
	}
	return out
}

// Search ranks the company's offers by how many query words they match.
// Offers that match nothing are left out; limit <= 0 means no limit.
func (s *MemoryStore) Search(companyID, query string, limit int) []chat.Offer {
	words := tokenize(query)
	if len(words) == 0 {
		return nil
	}

	type hit struct {
		offer chat.Offer
		score int
	}
	hits := make([]hit, 0, len(s.items))
	for _, item := range s.items {
		if !visible(item, companyID) {
			continue
		}
		if score := matchScore(item, words); score > 0 {
			hits = append(hits, hit{offer: item.Offer, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]chat.Offer, len(hits))
	for i, h := range hits {
		out[i] = h.offer
	}
	return out
}

func visible(item Entry, companyID string) bool {
	return item.CompanyID == "" || item.CompanyID == companyID
}

func matchScore(item Entry, words []string) int {
	vocabulary := make(map[string]struct{})
	for _, kw := range item.Keywords {
		for _, w := range tokenize(kw) {
			vocabulary[w] = struct{}{}
		}
	}
	for _, w := range tokenize(item.Title + " " + item.Category) {
		vocabulary[w] = struct{}{}
	}

	score := 0
	for _, w := range words {
		if _, ok := vocabulary[w]; ok {
			score++
		}
	}
	return score
}

// tokenize lowercases, strips accents and drops single-letter words.
func tokenize(text string) []string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
