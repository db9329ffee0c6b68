package widget

import "strings"

// Position anchors the button and window to a viewport corner.
type Position string

const (
	BottomRight Position = "bottom-right"
	BottomLeft  Position = "bottom-left"
	TopRight    Position = "top-right"
	TopLeft     Position = "top-left"
)

// Valid reports whether p is one of the four corners.
func (p Position) Valid() bool {
	switch p {
	case BottomRight, BottomLeft, TopRight, TopLeft:
		return true
	}
	return false
}

// Theme selects the light or dark palette.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Config is the embedding configuration. Every field is optional; empty
// means "not set by this source".
type Config struct {
	Company   string   `json:"company,omitempty"`
	CompanyID string   `json:"companyId,omitempty"`
	Color     string   `json:"color,omitempty"`
	APIURL    string   `json:"apiUrl,omitempty"`
	Position  Position `json:"position,omitempty"`
	Theme     Theme    `json:"theme,omitempty"`
}

// Defaults are the built-in values used when neither the initializer nor the
// script tag set a field.
func Defaults() Config {
	return Config{
		Company:  "Tu Empresa",
		Color:    "#0078ff",
		Position: BottomRight,
		Theme:    Light,
	}
}

// Merge layers the sources field by field: explicit, then data attributes,
// then defaults.
func Merge(explicit, attrs, defaults Config) Config {
	return Config{
		Company:   first(explicit.Company, attrs.Company, defaults.Company),
		CompanyID: first(explicit.CompanyID, attrs.CompanyID, defaults.CompanyID),
		Color:     first(explicit.Color, attrs.Color, defaults.Color),
		APIURL:    first(explicit.APIURL, attrs.APIURL, defaults.APIURL),
		Position:  Position(first(string(explicit.Position), string(attrs.Position), string(defaults.Position))),
		Theme:     Theme(first(string(explicit.Theme), string(attrs.Theme), string(defaults.Theme))),
	}
}

// ConfigFromDataset reads a script tag dataset. Unknown position or theme
// values are dropped so the next layer applies.
func ConfigFromDataset(dataset map[string]string) Config {
	cfg := Config{
		Company:   strings.TrimSpace(dataset["company"]),
		CompanyID: strings.TrimSpace(dataset["companyId"]),
		Color:     strings.TrimSpace(dataset["color"]),
		APIURL:    strings.TrimSpace(dataset["apiUrl"]),
	}
	if p := Position(strings.TrimSpace(dataset["position"])); p.Valid() {
		cfg.Position = p
	}
	if t := Theme(strings.TrimSpace(dataset["theme"])); t.Valid() {
		cfg.Theme = t
	}
	return cfg
}

// Dataset is the inverse of ConfigFromDataset, omitting empty fields.
func (c Config) Dataset() map[string]string {
	out := make(map[string]string, 6)
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("company", c.Company)
	set("companyId", c.CompanyID)
	set("color", c.Color)
	set("apiUrl", c.APIURL)
	set("position", string(c.Position))
	set("theme", string(c.Theme))
	return out
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
