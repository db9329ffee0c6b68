// Package markup renders assistant turn content for the widget window.
//
// Turn content comes from the remote chat API, so it is untrusted. Every
// line is HTML-escaped first; afterwards only two patterns turn back into
// markup: **bold** and the offer link marker "🔗 [label](url)".
package markup

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultLinkColor is used when the configured color is not a safe CSS value.
const DefaultLinkColor = "#0078ff"

var (
	boldPattern  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	linkPattern  = regexp.MustCompile(`🔗 \[([^\]]+)\]\(([^)\s]+)\)`)
	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{3,20})$`)
)

// Line is one rendered row of a message bubble.
type Line struct {
	HTML  string
	Break bool
}

// Render splits content into rows and converts the whitelisted markers.
// Blank rows become breaks.
func Render(content, linkColor string) []Line {
	color := SafeColor(linkColor)
	rows := strings.Split(content, "\n")
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row) == "" {
			lines = append(lines, Line{Break: true})
			continue
		}
		lines = append(lines, Line{HTML: renderRow(row, color)})
	}
	return lines
}

// HTML renders content as a fragment of <div> rows and <br> breaks.
func HTML(content, linkColor string) string {
	var b strings.Builder
	for _, line := range Render(content, linkColor) {
		if line.Break {
			b.WriteString("<br>")
			continue
		}
		b.WriteString("<div>")
		b.WriteString(line.HTML)
		b.WriteString("</div>")
	}
	return b.String()
}

// PlainText strips the markers for surfaces that cannot show markup.
func PlainText(content string) string {
	out := boldPattern.ReplaceAllString(content, "$1")
	return linkPattern.ReplaceAllString(out, "🔗 $1 ($2)")
}

// TerminalText removes C0 and C1 control characters except newline and tab,
// so turn content cannot drive the terminal it is printed on.
func TerminalText(content string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, content)
}

// SafeColor returns color when it is a hex triplet or a plain color name.
func SafeColor(color string) string {
	color = strings.TrimSpace(color)
	if colorPattern.MatchString(color) {
		return color
	}
	return DefaultLinkColor
}

// TimeOfDay formats a turn timestamp the way the bubble footer shows it.
func TimeOfDay(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}

func renderRow(row, color string) string {
	var b strings.Builder
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(row, -1) {
		b.WriteString(renderText(row[last:m[0]]))
		label, href := row[m[2]:m[3]], row[m[4]:m[5]]
		if allowedHref(href) {
			b.WriteString(`<a href="`)
			b.WriteString(html.EscapeString(href))
			b.WriteString(`" target="_blank" rel="noopener noreferrer" style="color: `)
			b.WriteString(color)
			b.WriteString(`; text-decoration: underline;">🔗 `)
			b.WriteString(renderText(label))
			b.WriteString(`</a>`)
		} else {
			b.WriteString(renderText(row[m[0]:m[1]]))
		}
		last = m[1]
	}
	b.WriteString(renderText(row[last:]))
	return b.String()
}

func renderText(text string) string {
	return boldPattern.ReplaceAllString(html.EscapeString(text), "<strong>$1</strong>")
}

func allowedHref(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return true
	default:
		return false
	}
}
