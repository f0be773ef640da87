package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NewTime-Creator/radio-app/internal/api"
	"github.com/NewTime-Creator/radio-app/internal/api/middleware"
	"github.com/NewTime-Creator/radio-app/internal/broadcast"
	"github.com/NewTime-Creator/radio-app/internal/catalog"
	"github.com/NewTime-Creator/radio-app/internal/config"
	database "github.com/NewTime-Creator/radio-app/internal/db"
	"github.com/NewTime-Creator/radio-app/internal/playout"
	"github.com/NewTime-Creator/radio-app/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("🚀 Starting Radio App...")

	// 1. Load Config
	cfg := config.Load()
	middleware.JwtSecret = []byte(cfg.Auth.JWTSecret)

	// 2. Init Infrastructure
	db := database.New(cfg)
	db.AutoMigrate()
	database.SeedAdminUser(db.DB, cfg.Auth.AdminPassword)

	store := storage.New(cfg)
	if err := store.Ensure(); err != nil {
		// Non-fatal: playback works without uploads.
		log.Printf("⚠️ Storage backend not ready: %v", err)
	}

	// 3. Metrics
	playout.RegisterMetrics()
	broadcast.RegisterMetrics()
	go func() {
		log.Printf("📊 Metrics on %s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, promhttp.Handler()); err != nil {
			log.Printf("⚠️ Metrics server stopped: %v", err)
		}
	}()

	// 4. Wire the engine. The hub exists first because the engine
	// publishes through it; the hub's controller is bound after.
	hub := broadcast.NewHub()
	library := catalog.NewStore(db.DB)
	engine := playout.New(library, hub, library)
	hub.Bind(engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.Start()
	go engine.RunAdTicker(ctx)

	// 5. HTTP API
	server := api.New(cfg, db, store, engine, hub)
	log.Printf("📡 API listening on %s", cfg.Server.Port)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
