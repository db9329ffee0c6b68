package loader

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var attrNamePattern = regexp.MustCompile(`^data-[a-z0-9]+(-[a-z0-9]+)*$`)

// Attr is a single HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// Tag describes the <script> element the loader injects.
type Tag struct {
	Src   string
	Attrs []Attr
	Async bool
}

// ScriptTag builds the bundle tag: {base}{file}, a ?v= cache buster when the
// manifest carries a version, and the loader's data attributes forwarded.
func ScriptTag(base string, m Manifest, dataset map[string]string) Tag {
	src := base + m.File
	if m.Version != "" {
		src += "?v=" + escapeComponent(m.Version)
	}
	return Tag{
		Src:   src,
		Attrs: DataAttributes(dataset),
		Async: true,
	}
}

// escapeComponent percent-encodes s the way encodeURIComponent does, so the
// Go and browser loaders agree on the bundle URL.
func escapeComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// DataAttributes converts dataset keys to data-* attributes, sorted by name.
// Keys that do not translate to a valid attribute name are skipped.
func DataAttributes(dataset map[string]string) []Attr {
	attrs := make([]Attr, 0, len(dataset))
	for key, value := range dataset {
		name := AttrName(key)
		if !attrNamePattern.MatchString(name) {
			continue
		}
		attrs = append(attrs, Attr{Name: name, Value: value})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}

// AttrName maps a dataset key to its attribute: apiUrl -> data-api-url.
func AttrName(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DatasetKey is the inverse of AttrName: data-api-url -> apiUrl.
func DatasetKey(attr string) string {
	name := strings.TrimPrefix(strings.ToLower(attr), "data-")
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Dataset returns the tag's data attributes keyed the way a browser dataset is.
func (t Tag) Dataset() map[string]string {
	out := make(map[string]string, len(t.Attrs))
	for _, a := range t.Attrs {
		if strings.HasPrefix(a.Name, "data-") {
			out[DatasetKey(a.Name)] = a.Value
		}
	}
	return out
}

// HTML renders the tag with every value escaped.
func (t Tag) HTML() string {
	var b strings.Builder
	b.WriteString(`<script src="`)
	b.WriteString(html.EscapeString(t.Src))
	b.WriteString(`"`)
	for _, a := range t.Attrs {
		if !attrNamePattern.MatchString(a.Name) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteString(`"`)
	}
	if t.Async {
		b.WriteString(" async")
	}
	b.WriteString("></script>")
	return b.String()
}
