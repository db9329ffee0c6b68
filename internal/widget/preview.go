package widget

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/iachat/chat-widget/internal/markup"
	"github.com/iachat/chat-widget/internal/model/chat"
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Company}} · IA Chat Widget</title>
<style id="{{.StylesID}}">{{.Sheet}}</style>
</head>
<body>
<div id="{{.ContainerID}}" class="ia-chat-widget">
  <div class="ia-chat-widget-window" style="{{.WindowStyle}}">
    <div style="{{.HeaderStyle}}">{{.Company}}</div>
    <div style="flex: 1; overflow-y: auto; padding: 16px;">
{{- range .Turns}}
      <div style="{{.Style}}">{{.Body}}<div style="font-size: 11px; opacity: 0.6; margin-top: 4px;">{{.Time}}</div></div>
{{- end}}
    </div>
  </div>
  <button class="ia-chat-widget-button" style="{{.ButtonStyle}}">💬</button>
</div>
</body>
</html>
`))

type previewTurn struct {
	Style template.CSS
	Body  template.HTML
	Time  string
}

type previewData struct {
	Company     string
	StylesID    string
	ContainerID string
	Sheet       template.CSS
	WindowStyle template.CSS
	HeaderStyle template.CSS
	ButtonStyle template.CSS
	Turns       []previewTurn
}

// PreviewPage renders a static page with the widget window open on turns,
// styled from cfg. Turn bodies go through markup.HTML.
func PreviewPage(cfg Config, turns []chat.Turn, loc *time.Location) (string, error) {
	cfg = Merge(cfg, Config{}, Defaults())
	color := markup.SafeColor(cfg.Color)
	colors := Palette(cfg.Theme)

	shadow := "rgba(0, 0, 0, 0.15)"
	if rgba, ok := HexToRGBA(color, 0.4); ok {
		shadow = rgba
	}

	data := previewData{
		Company:     cfg.Company,
		StylesID:    StylesID,
		ContainerID: ContainerID,
		Sheet:       template.CSS(StyleSheet()),
		WindowStyle: template.CSS(fmt.Sprintf("%s background: %s !important; color: %s;",
			WindowPositionStyle(cfg.Position).CSS(), colors.Background, colors.Text)),
		HeaderStyle: template.CSS(fmt.Sprintf("background: %s; color: #fff; padding: 16px; font-weight: 600;", color)),
		ButtonStyle: template.CSS(fmt.Sprintf("%s background: %s !important; color: #fff; box-shadow: 0 4px 12px %s !important;",
			PositionStyle(cfg.Position).CSS(), color, shadow)),
	}

	for _, turn := range turns {
		bubble := fmt.Sprintf("background: %s; color: %s; margin-right: auto;", colors.MessageBg, colors.Text)
		if turn.IsUser() {
			bubble = fmt.Sprintf("background: %s; color: #fff; margin-left: auto;", color)
		}
		data.Turns = append(data.Turns, previewTurn{
			Style: template.CSS(bubble + " max-width: 80%; padding: 8px 12px; border-radius: 12px; margin-bottom: 8px;"),
			Body:  template.HTML(markup.HTML(turn.Content, color)),
			Time:  markup.TimeOfDay(turn.Timestamp, loc),
		})
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}
