// Package loader resolves which widget bundle a host page should load.
//
// The host page only embeds loader.js. The loader asks for latest.json next
// to itself and injects the bundle it names, carrying the loader tag's data
// attributes over to the new tag.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ScriptName is the file host pages embed.
const ScriptName = "loader.js"

// Loader fetches manifests over HTTP.
type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

// New builds a Loader. A nil client falls back to http.DefaultClient.
func New(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client, logger: log.Logger}
}

// WithLogger returns a copy of the loader logging to logger.
func (l *Loader) WithLogger(logger zerolog.Logger) *Loader {
	cp := *l
	cp.logger = logger
	return &cp
}

// BaseURL derives the directory the loader was served from.
// An empty src yields "./", matching a loader embedded inline.
func BaseURL(loaderSrc string) string {
	src := strings.TrimSpace(loaderSrc)
	if src == "" {
		return "./"
	}
	if u, err := url.Parse(src); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		src = u.String()
	}
	if strings.HasSuffix(src, ScriptName) {
		return strings.TrimSuffix(src, ScriptName)
	}
	if i := strings.LastIndex(src, "/"); i >= 0 {
		return src[:i+1]
	}
	return "./"
}

// Fetch downloads and validates {base}latest.json. It never retries.
func (l *Loader) Fetch(ctx context.Context, base string) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+ManifestName, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("build manifest request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Manifest{}, fmt.Errorf("fetch manifest: unexpected status %d", resp.StatusCode)
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Bootstrap resolves the bundle tag for a loader served from loaderSrc.
// Failures are logged; the caller must not mount the widget when err != nil.
func (l *Loader) Bootstrap(ctx context.Context, loaderSrc string, dataset map[string]string) (Tag, error) {
	base := BaseURL(loaderSrc)
	m, err := l.Fetch(ctx, base)
	if err != nil {
		l.logger.Error().Err(err).Str("base", base).Msg("Failed to load widget")
		return Tag{}, err
	}

	tag := ScriptTag(base, m, dataset)
	l.logger.Debug().Str("src", tag.Src).Int("attrs", len(tag.Attrs)).Msg("widget bundle resolved")
	return tag, nil
}
