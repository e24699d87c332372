package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pflegebox/internal/config"
	"pflegebox/internal/http/handlers"
	applog "pflegebox/internal/log"
	"pflegebox/internal/repos"
	"pflegebox/internal/services"
	"pflegebox/web"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[warn] .env: %v", err)
	}
	cfg := config.Load()

	// Optional file logging
	var accessLog io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			accessLog = io.MultiWriter(os.Stdout, f)
			log.SetOutput(accessLog)
			applog.SetOutput(accessLog)
		}
	}
	defer func() { _ = applog.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	authSvc, err := services.NewAuthService(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal(err)
	}
	if (cfg.AdminPassword == "" && cfg.AdminPasswordHash == "") || cfg.SessionSecret == "" {
		log.Printf("[warn] ADMIN_PASSWORD/ADMIN_JWT_SECRET not set; admin login disabled")
	}

	templatesDir := ""
	if cfg.TemplatesReload {
		templatesDir = "./web/templates"
	}

	deps := handlers.NewDeps(db, cfg, authSvc)
	app := handlers.NewApp(deps, handlers.AppOptions{
		Views:     web.Engine(templatesDir),
		AccessLog: accessLog,
	})

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeDrafts(purgeCtx, deps.ConfiguratorHandler.Configurator, cfg.DraftTTL)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}()
	log.Printf("[http] listening on :%s (budget %.2f)", cfg.Port, cfg.BudgetMax)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	stopPurge()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[http] shutdown: %v", err)
	}
}

// purgeDrafts drops abandoned configurator drafts at start-up and hourly after.
func purgeDrafts(ctx context.Context, cfg *services.ConfiguratorService, ttl time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		n, err := cfg.PurgeStale(ctx, ttl)
		switch {
		case err != nil && ctx.Err() == nil:
			applog.Error(nil, "drafts.purge.fail", err, nil)
		case n > 0:
			applog.Info(nil, "drafts.purged", map[string]any{"count": n, "ttl": ttl.String()})
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
