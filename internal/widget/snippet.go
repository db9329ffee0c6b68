package widget

import "github.com/iachat/chat-widget/internal/loader"

// Snippet renders the tag a host page pastes to embed the widget. The config
// travels as data attributes on the loader tag.
func Snippet(loaderURL string, cfg Config) string {
	tag := loader.Tag{
		Src:   loaderURL,
		Attrs: loader.DataAttributes(cfg.Dataset()),
		Async: true,
	}
	return tag.HTML()
}
