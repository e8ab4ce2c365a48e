package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilby125/pelicans-place/api"
	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/buildinfo"
	"github.com/gilby125/pelicans-place/pkg/cache"
	"github.com/gilby125/pelicans-place/pkg/health"
	"github.com/gilby125/pelicans-place/pkg/instances"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/pkg/notify"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/gilby125/pelicans-place/worker"
	"github.com/gin-gonic/gin"
)

const relayLockKey = "pelicans:relay:leader"

var startedAt = time.Now().UTC()

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})
	logger.WithFields(map[string]interface{}{
		"version":     buildinfo.Version,
		"environment": cfg.Environment,
	}).Info("Starting Pelican's Place")

	catalog, err := reviews.DefaultCatalog()
	if err != nil {
		logger.Fatal(err, "Failed to load reviews")
	}
	if drift := catalog.Drift(); !drift.InSync {
		logger.WithField("drift", drift).Warn("Published review stats differ from the review list")
	}

	ntfy := notify.NewNTFYClient(notify.NTFYConfig{
		ServerURL: cfg.NTFYConfig.ServerURL,
		Topic:     cfg.NTFYConfig.Topic,
		Username:  cfg.NTFYConfig.Username,
		Password:  cfg.NTFYConfig.Password,
		Enabled:   cfg.NTFYConfig.Enabled,
		ClickURL:  cfg.NTFYConfig.ClickURL,
	})

	healthChecker := health.NewHealthChecker(buildinfo.Version)
	healthChecker.AddChecker(&health.FileChecker{Path: cfg.GalleryConfig.ManifestPath, Name: "gallery_manifest"})

	deps := &api.Deps{
		Config:    cfg,
		Catalog:   catalog,
		Listing:   property.Default(),
		Validator: contact.NewValidator(cfg.ContactConfig),
		Health:    healthChecker,
	}

	var submitter contact.Submitter = contact.SimulatedSubmitter{Latency: cfg.ContactConfig.SubmitLatency}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var (
		outbox  *queue.RedisOutbox
		elector *worker.LeaderElector
		relay   *worker.Relay
	)
	if cfg.RedisEnabled {
		outbox, err = queue.NewRedisOutbox(cfg.RedisConfig)
		if err != nil {
			logger.Fatal(err, "Failed to connect to Redis")
		}
		defer outbox.Close()

		client := outbox.GetClient()
		healthChecker.AddChecker(&health.RedisChecker{Client: client, Name: "redis"})
		healthChecker.AddChecker(&health.OutboxChecker{Outbox: outbox, Name: "contact_outbox"})

		deps.Outbox = outbox
		submitter = contact.OutboxSubmitter{Outbox: outbox}

		if cfg.CacheConfig.Enabled {
			deps.Cache = cache.NewManager(cache.NewRedisCache(client, cfg.CacheConfig.KeyPrefix))
		}

		if cfg.RelayConfig.Enabled {
			relay = worker.NewRelay(cfg.RelayConfig, cfg.ContactConfig.EmailServiceEndpoint, outbox, ntfy)
			deps.Relay = relay
			elector = worker.NewLeaderElector(client, relayLockKey, 30*time.Second, 0, worker.LeaderHooks{
				OnElected: func() {
					if err := relay.Start(); err != nil {
						logger.Error(err, "Contact relay not started")
					}
				},
				OnDeposed: relay.Stop,
			})
			elector.Start()
		}

		registry := instances.New(client, cfg.RedisConfig.OutboxPrefix)
		deps.Instances = registry
		go registry.Run(bgCtx, 15*time.Second, heartbeat(elector, relay))
	} else if cfg.RelayConfig.Enabled {
		logger.Warn("Contact relay requires Redis, skipping")
	}

	if ntfy.IsEnabled() {
		submitter = contact.NotifyingSubmitter{Next: submitter, Alerter: ntfy}
	}
	deps.Submitter = submitter

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.RegisterRoutes(router, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopBackground()
	if elector != nil {
		elector.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "Server forced to shutdown")
	}

	logger.Info("Server exited properly")
}

// heartbeat snapshots this instance for the registry. elector and relay are
// nil when the relay is disabled.
func heartbeat(elector *worker.LeaderElector, relay *worker.Relay) func() instances.Heartbeat {
	hostname, _ := os.Hostname()
	id := fmt.Sprintf("%s-%d", hostname, startedAt.UnixNano())
	if elector != nil {
		id = elector.InstanceID()
	}
	return func() instances.Heartbeat {
		hb := instances.Heartbeat{
			ID:        id,
			Hostname:  hostname,
			Role:      instances.RoleFollower,
			Version:   buildinfo.Version,
			StartedAt: startedAt,
		}
		if elector != nil && elector.IsLeader() {
			hb.Role = instances.RoleLeader
		}
		if relay != nil {
			last := relay.LastRun()
			hb.Delivered = last.Delivered
			hb.Failed = last.Failed
			hb.LastRelayAt = last.FinishedAt
		}
		return hb
	}
}
