// Package gallery manages the property photo manifest and the offline
// downloader that mirrors photos to local disk.
package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Image is one manifest entry. Field order matches the manifest on disk.
type Image struct {
	ID            string `json:"id"`
	Alt           string `json:"alt"`
	Category      string `json:"category"`
	SourceURL     string `json:"sourceUrl"`
	LocalFileName string `json:"localFileName,omitempty"`
	LocalPath     string `json:"localPath,omitempty"`
}

// DisplayURL is the local copy when one has been downloaded, else the source URL.
func (img Image) DisplayURL() string {
	switch {
	case img.LocalPath != "":
		return "/" + strings.TrimPrefix(publicPath(img.LocalPath), "/")
	case img.LocalFileName != "":
		return "/gallery/" + img.LocalFileName
	default:
		return img.SourceURL
	}
}

// publicPath strips the public/ directory the static server mounts at the root.
func publicPath(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(p), "public/")
}

// ReadManifest decodes a manifest.
func ReadManifest(r io.Reader) ([]Image, error) {
	var images []Image
	if err := json.NewDecoder(r).Decode(&images); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return images, nil
}

// LoadManifest reads the manifest at path.
func LoadManifest(path string) ([]Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// EncodeManifest renders images as 2-space indented JSON with a trailing newline.
func EncodeManifest(images []Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(images); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest replaces the manifest at path. The new content is written to a
// sibling temp file first so a crash never leaves a truncated manifest.
func WriteManifest(path string, images []Image) error {
	data, err := EncodeManifest(images)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// Categories lists categories in first-seen order.
func Categories(images []Image) []string {
	seen := map[string]bool{}
	var out []string
	for _, img := range images {
		if !seen[img.Category] {
			seen[img.Category] = true
			out = append(out, img.Category)
		}
	}
	return out
}

// ByCategory keeps images in category. An empty category keeps everything.
func ByCategory(images []Image, category string) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		if category == "" || strings.EqualFold(img.Category, category) {
			out = append(out, img)
		}
	}
	return out
}

// FeaturedIDs are the hero images on the home page.
var FeaturedIDs = []string{"living-1", "dining-1", "bedroom-master-1", "exterior-1"}

// Featured returns the hero images that exist in images, in FeaturedIDs order.
func Featured(images []Image) []Image {
	byID := make(map[string]Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	out := make([]Image, 0, len(FeaturedIDs))
	for _, id := range FeaturedIDs {
		if img, ok := byID[id]; ok {
			out = append(out, img)
		}
	}
	return out
}
