package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gilby125/pelicans-place/booking"
	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/pkg/buildinfo"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	catalog, err := reviews.DefaultCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reviews: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"pelicans-place-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)

	tools := &toolset{
		catalog: catalog,
		listing: property.Default(),
		info:    booking.InfoFromConfig(cfg.BookingConfig),
		now:     time.Now,
	}
	tools.register(s)

	// stdout carries the protocol, so nothing else may write to it.
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
