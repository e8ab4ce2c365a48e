// Command download-images mirrors the gallery images listed in the manifest
// into the public gallery directory and records the local paths.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/gallery"
	"github.com/gilby125/pelicans-place/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LoggingConfig.Level, Format: "text"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := gallery.NewDownloader(cfg.GalleryConfig).Run(ctx)
	log := logger.WithFields(map[string]interface{}{
		"downloaded": len(res.Downloaded),
		"skipped":    len(res.Skipped),
	})
	if err != nil {
		var statusErr *gallery.StatusError
		switch {
		case errors.As(err, &statusErr):
			log.WithField("status", statusErr.StatusCode).Error(err, "Image server refused a download")
		case errors.Is(err, gallery.ErrTooManyRedirects):
			log.Error(err, "Image redirected too many times")
		default:
			log.Error(err, "Image download failed")
		}
		os.Exit(1)
	}
	log.Info("Gallery images are up to date")
}
