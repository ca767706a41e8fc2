// cmd/web/main.go
//
// Council Tax Rebate sign-up service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (.env fallback for dev).
//
//  2. Start the rotating JSON logger (tees to console in a TTY).
//
//  3. Load and validate configuration; a missing DSN or listen address is
//     an operator error and stops the process here, never mid-request.
//
//  4. Open the database pool and apply component migrations (the
//     Residents table with its two UNIQUE keys).
//
//  5. Optionally open the GeoLite2 database for the audit trail.
//
//  6. Build the router: security headers → request info → sign-up routes.
//
//  7. Serve the app and the /metrics listener under one errgroup with
//     signal-driven graceful shutdown.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	signupcomp "github.com/yanizio/rebate/components/signup"
	"github.com/yanizio/rebate/internal/component"
	"github.com/yanizio/rebate/internal/config"
	"github.com/yanizio/rebate/internal/database"
	"github.com/yanizio/rebate/internal/logger"
	"github.com/yanizio/rebate/internal/middleware"
	"github.com/yanizio/rebate/internal/requestinfo"
	"github.com/yanizio/rebate/internal/server"
	"github.com/yanizio/rebate/internal/submission"
	"github.com/yanizio/rebate/internal/view"
)

const shutdownGrace = 10 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { _ = godotenv.Load() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration (fail fast on operator error) ─────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		logOut.Fatalf("configuration: %v", err)
	}

	//
	// ── 2.  Database pool ───────────────────────────────────────────────
	//
	logOut.Info("connecting to database …")
	db, err := database.Open(cfg.ResolvedDSN())
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Info("database online")

	//
	// ── 3.  Optional GeoLite2 for the audit trail ───────────────────────
	//
	if cfg.Geo.CityDBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.CityDBPath); err != nil {
			logOut.Warnw("geolocation disabled", "err", err)
		}
	}

	//
	// ── 4.  Components: construct, register, migrate, mount ────────────
	//
	svc, err := submission.NewService(db, logOut)
	if err != nil {
		logOut.Fatalf("submission service: %v", err)
	}
	views := view.New(cfg.Paths.Root)
	component.Register(signupcomp.New(svc, views, logOut))

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	for _, c := range component.All() {
		for _, stmt := range c.Migrations() {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				logOut.Fatalf("migrate %s: %v", c.Name(), err)
			}
		}
		r.Mount(c.Mount(), c.Routes())
		logOut.Infow("component mounted", "name", c.Name(), "mount", c.Mount())
	}

	//
	// ── 5.  App + metrics listeners under one errgroup ─────────────────
	//
	app := server.New(cfg.HTTP.ListenAddr, r)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := server.New(cfg.HTTP.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := app.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logOut.Infow("metrics listening", "addr", cfg.HTTP.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = metricsSrv.Shutdown(shutCtx)
		return app.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
	logOut.Info("shutdown complete")
}
