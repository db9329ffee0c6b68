package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the file the loader requests next to loader.js.
const ManifestName = "latest.json"

var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest names the current widget bundle. Version only busts caches.
type Manifest struct {
	File    string `json:"file"`
	Version string `json:"version,omitempty"`
}

// Validate rejects manifests that would point outside the bundle directory.
func (m Manifest) Validate() error {
	file := strings.TrimSpace(m.File)
	if file == "" {
		return fmt.Errorf("%w: file is required", ErrInvalidManifest)
	}
	if strings.Contains(file, "..") || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return fmt.Errorf("%w: file %q must be relative to the loader", ErrInvalidManifest, m.File)
	}
	return nil
}

// ManifestForFile describes a bundle on disk, using a content hash as version.
func ManifestForFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Manifest{}, fmt.Errorf("hash bundle: %w", err)
	}

	return Manifest{
		File:    filepath.Base(path),
		Version: hex.EncodeToString(h.Sum(nil))[:12],
	}, nil
}
