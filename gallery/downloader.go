package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultMaxRedirects is how many redirects a single download may follow.
const DefaultMaxRedirects = 5

// DefaultExtension is used when the source URL path has none.
const DefaultExtension = ".jpg"

// ErrTooManyRedirects is returned when a download exceeds the redirect limit.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError is an HTTP error status from an image host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d for %s", e.StatusCode, e.URL)
}

type httpClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// Downloader mirrors manifest images to a local directory.
type Downloader struct {
	client       httpClient
	manifestPath string
	outputDir    string
	rootDir      string
}

// Result summarizes a run.
type Result struct {
	Downloaded []string
	Skipped    []string
}

// NewDownloader builds a Downloader. Each request is attempted once.
func NewDownloader(cfg config.GalleryConfig) *Downloader {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}
	client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return fmt.Errorf("%w for %s", ErrTooManyRedirects, via[0].URL)
		}
		return nil
	}

	return &Downloader{
		client:       client,
		manifestPath: cfg.ManifestPath,
		outputDir:    cfg.OutputDir,
		rootDir:      cfg.RootDir,
	}
}

// Extension returns the file extension of rawURL's path, or DefaultExtension.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultExtension
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return DefaultExtension
}

// Run downloads every missing image in order and rewrites the manifest with
// local file names. The first failure aborts the run and leaves the manifest
// untouched.
func (d *Downloader) Run(ctx context.Context) (Result, error) {
	var res Result

	images, err := LoadManifest(d.manifestPath)
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return res, fmt.Errorf("failed to create output directory: %w", err)
	}

	for i := range images {
		entry := &images[i]
		fileName := entry.LocalFileName
		if fileName == "" {
			fileName = entry.ID + Extension(entry.SourceURL)
		}
		destination := filepath.Join(d.outputDir, fileName)

		log := logger.WithFields(map[string]interface{}{
			"image_id": entry.ID,
			"file":     fileName,
		})

		if _, err := os.Stat(destination); err == nil {
			log.Info("Skipping image, already downloaded")
			res.Skipped = append(res.Skipped, entry.ID)
		} else {
			log.Info("Downloading image")
			if err := d.download(ctx, entry.SourceURL, destination); err != nil {
				return res, fmt.Errorf("image %s: %w", entry.ID, err)
			}
			res.Downloaded = append(res.Downloaded, entry.ID)
		}

		localPath, err := filepath.Rel(d.rootDir, destination)
		if err != nil {
			localPath = destination
		}
		entry.LocalFileName = fileName
		entry.LocalPath = filepath.ToSlash(localPath)
	}

	if err := WriteManifest(d.manifestPath, images); err != nil {
		return res, err
	}
	return res, nil
}

// download streams src into destination via a temp file so a failed
// transfer never leaves a partial image that a later run would skip.
func (d *Downloader) download(ctx context.Context, src, destination string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: src, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(filepath.Dir(destination), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err := os.Rename(tmp.Name(), destination); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"bytes":    n,
		"duration": time.Since(start).String(),
	}).Debug("Image saved")
	return nil
}
