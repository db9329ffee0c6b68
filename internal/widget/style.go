package widget

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ContainerID marks the single widget container on a page.
	ContainerID = "ia-chat-widget-container"
	// StylesID marks the injected stylesheet.
	StylesID = "ia-chat-widget-styles"
)

// Colors is the theme-dependent palette of the window.
type Colors struct {
	Background string
	Text       string
	MessageBg  string
}

// Palette returns the window colors for a theme.
func Palette(theme Theme) Colors {
	if theme == Dark {
		return Colors{Background: "#2d2d2d", Text: "#fff", MessageBg: "#404040"}
	}
	return Colors{Background: "#fff", Text: "#000", MessageBg: "#f1f1f1"}
}

// Offsets pins an element to a corner. "auto" releases the opposite edges.
type Offsets struct {
	Top, Right, Bottom, Left string
}

// CSS renders the offsets as inline declarations.
func (o Offsets) CSS() string {
	return fmt.Sprintf("top: %s; right: %s; bottom: %s; left: %s;", o.Top, o.Right, o.Bottom, o.Left)
}

// PositionStyle returns the button offsets for a corner.
func PositionStyle(p Position) Offsets {
	return corner(p, "20px")
}

// WindowPositionStyle returns the popup offsets; the window clears the button.
func WindowPositionStyle(p Position) Offsets {
	return corner(p, "90px")
}

func corner(p Position, vertical string) Offsets {
	switch p {
	case BottomLeft:
		return Offsets{Top: "auto", Right: "auto", Bottom: vertical, Left: "20px"}
	case TopRight:
		return Offsets{Top: vertical, Right: "20px", Bottom: "auto", Left: "auto"}
	case TopLeft:
		return Offsets{Top: vertical, Right: "auto", Bottom: "auto", Left: "20px"}
	default:
		return Offsets{Top: "auto", Right: "20px", Bottom: vertical, Left: "auto"}
	}
}

// HexToRGBA converts #rgb or #rrggbb to an rgba() value.
// It reports false for anything else.
func HexToRGBA(hex string, alpha float64) (string, bool) {
	h := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return "", false
	}
	r, g, b := v>>16&0xff, v>>8&0xff, v&0xff
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64)), true
}

// StyleSheet is the CSS injected once per page under StylesID.
func StyleSheet() string {
	return `.ia-chat-widget * {
  box-sizing: border-box;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', 'Oxygen', 'Ubuntu', 'Cantarell', sans-serif;
}
.ia-chat-widget-button {
  position: fixed !important;
  border-radius: 50% !important;
  width: 60px !important;
  height: 60px !important;
  border: none !important;
  cursor: pointer !important;
  box-shadow: 0 4px 12px rgba(0,0,0,0.15) !important;
  z-index: 2147483647 !important;
  transition: all 0.3s ease !important;
  display: flex !important;
  align-items: center !important;
  justify-content: center !important;
  font-size: 24px !important;
}
.ia-chat-widget-button:hover {
  transform: scale(1.1) !important;
  box-shadow: 0 6px 16px rgba(0,0,0,0.2) !important;
}
.ia-chat-widget-window {
  position: fixed !important;
  width: 380px !important;
  height: 500px !important;
  background: white !important;
  border-radius: 16px !important;
  box-shadow: 0 8px 32px rgba(0,0,0,0.12) !important;
  display: flex !important;
  flex-direction: column !important;
  overflow: hidden !important;
  z-index: 2147483647 !important;
  border: 1px solid rgba(0,0,0,0.1) !important;
  pointer-events: auto !important;
}
@media (max-width: 480px) {
  .ia-chat-widget-window {
    width: calc(100vw - 40px) !important;
    height: calc(100vh - 120px) !important;
    right: 20px !important;
  }
}
`
}
