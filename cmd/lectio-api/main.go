package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pevans/lectio/api"
	"github.com/pevans/lectio/audiofeed"
	"github.com/pevans/lectio/cache"
	"github.com/pevans/lectio/config"
	"github.com/pevans/lectio/usccb"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var clientOpts []usccb.Option
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, usccb.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, usccb.WithLogger(logger))

	client := usccb.New(clientOpts...)
	defer client.Close()

	serverOpts := []api.ServerOption{
		api.WithServerLogger(logger),
		api.WithAudio(audiofeed.New(cfg.AudioFeedURL)),
	}

	if cfg.Cache.DSN != "" {
		ttl, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Invalid cache TTL %q: %v", cfg.Cache.TTL, err)
		}
		store, err := cache.New(cfg.Cache.DSN)
		if err != nil {
			log.Fatalf("Failed to open cache: %v", err)
		}
		defer store.Close()
		serverOpts = append(serverOpts, api.WithCache(store, ttl))
		logger.Info("response cache enabled", "dsn", cfg.Cache.DSN, "ttl", ttl)
	}

	server := api.NewServer(client, serverOpts...)

	mux := http.NewServeMux()
	server.Routes(mux)

	logger.Info("server starting", "listen", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
