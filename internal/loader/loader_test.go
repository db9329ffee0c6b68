package loader

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                                      "./",
		"https://cdn.test/widget/loader.js":     "https://cdn.test/widget/",
		"https://cdn.test/widget/loader.js?x=1": "https://cdn.test/widget/",
		"https://cdn.test/widget/boot.js":       "https://cdn.test/widget/",
		"loader.js":                             "",
	}
	for src, want := range cases {
		assert.Equal(t, want, BaseURL(src), "src=%q", src)
	}
}

func TestAttrNameRoundTrip(t *testing.T) {
	assert.Equal(t, "data-api-url", AttrName("apiUrl"))
	assert.Equal(t, "data-company-id", AttrName("companyId"))
	assert.Equal(t, "data-theme", AttrName("theme"))
	assert.Equal(t, "apiUrl", DatasetKey("data-api-url"))
	assert.Equal(t, "companyId", DatasetKey("data-company-id"))
}

func TestScriptTagForwardsDataset(t *testing.T) {
	tag := ScriptTag("https://cdn.test/w/", Manifest{File: "widget.js", Version: "1.2 beta"}, map[string]string{
		"company": "Acme",
		"apiUrl":  "https://api.test/chat",
	})

	assert.Equal(t, "https://cdn.test/w/widget.js?v=1.2%20beta", tag.Src)
	assert.True(t, tag.Async)
	require.Len(t, tag.Attrs, 2)
	assert.Equal(t, Attr{Name: "data-api-url", Value: "https://api.test/chat"}, tag.Attrs[0])
	assert.Equal(t, Attr{Name: "data-company", Value: "Acme"}, tag.Attrs[1])
	assert.Equal(t, map[string]string{"company": "Acme", "apiUrl": "https://api.test/chat"}, tag.Dataset())
}

func TestScriptTagVersionMatchesEncodeURIComponent(t *testing.T) {
	tag := ScriptTag("./", Manifest{File: "widget.js", Version: "v1 (rc)&x=1+ñ"}, nil)
	assert.Equal(t, "./widget.js?v=v1%20(rc)%26x%3D1%2B%C3%B1", tag.Src)
}

func TestScriptTagWithoutVersion(t *testing.T) {
	tag := ScriptTag("./", Manifest{File: "widget.js"}, nil)
	assert.Equal(t, "./widget.js", tag.Src)
	assert.Empty(t, tag.Attrs)
}

func TestTagHTMLEscapesValues(t *testing.T) {
	tag := Tag{Src: "https://cdn.test/w.js", Attrs: []Attr{{Name: "data-company", Value: `"><script>`}}, Async: true}
	assert.Equal(t, `<script src="https://cdn.test/w.js" data-company="&#34;&gt;&lt;script&gt;" async></script>`, tag.HTML())
}

func TestManifestValidate(t *testing.T) {
	assert.NoError(t, Manifest{File: "widget.js"}.Validate())
	assert.ErrorIs(t, Manifest{}.Validate(), ErrInvalidManifest)
	assert.ErrorIs(t, Manifest{File: "../etc/passwd"}.Validate(), ErrInvalidManifest)
	assert.ErrorIs(t, Manifest{File: "https://evil.test/x.js"}.Validate(), ErrInvalidManifest)
}

func TestBootstrapFetchesManifest(t *testing.T) {
	var cacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/widget/latest.json" {
			http.NotFound(w, r)
			return
		}
		cacheControl = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`{"file":"widget.js","version":"abc"}`))
	}))
	defer srv.Close()

	tag, err := New(srv.Client()).Bootstrap(context.Background(), srv.URL+"/widget/loader.js", map[string]string{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/widget/widget.js?v=abc", tag.Src)
	assert.Equal(t, "no-cache", cacheControl)
	assert.Equal(t, []Attr{{Name: "data-theme", Value: "dark"}}, tag.Attrs)
}

func TestBootstrapLogsFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var buf bytes.Buffer
	l := New(srv.Client()).WithLogger(zerolog.New(&buf))

	_, err := l.Bootstrap(context.Background(), srv.URL+"/loader.js", nil)
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "Failed to load widget"))
}

func TestManifestForFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log('hi')"), 0o644))

	m, err := ManifestForFile(path)
	require.NoError(t, err)
	assert.Equal(t, "widget.js", m.File)
	assert.Len(t, m.Version, 12)

	again, err := ManifestForFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Version, again.Version)
}
