// Command server starts the SkillGenome HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpserver "github.com/skillgenome/skillgenome/internal/adapter/httpserver"
	ghimp "github.com/skillgenome/skillgenome/internal/adapter/importer/github"
	"github.com/skillgenome/skillgenome/internal/adapter/importer/linkedin"
	"github.com/skillgenome/skillgenome/internal/adapter/observability"
	"github.com/skillgenome/skillgenome/internal/adapter/refdata"
	"github.com/skillgenome/skillgenome/internal/adapter/repo/postgres"
	tikaext "github.com/skillgenome/skillgenome/internal/adapter/textextractor/tika"
	"github.com/skillgenome/skillgenome/internal/app"
	"github.com/skillgenome/skillgenome/internal/config"
	"github.com/skillgenome/skillgenome/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, extraction and import instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Repositories
	profileRepo := postgres.NewProfileRepo(pool)
	skillRepo := postgres.NewSkillRepo(pool)
	courseRepo := postgres.NewCourseRepo(pool)

	// Reference data: embedded defaults unless a file override is set.
	ref, err := refdata.NewFromFile(cfg.RefDataPath)
	if err != nil {
		slog.Error("reference data load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("reference data loaded",
		slog.Int("ontology_skills", len(ref.Ontology())),
		slog.Int("roles", len(ref.Roles())))

	// External text extractor (Apache Tika)
	ext := tikaext.New(cfg.TikaURL)

	// Import sources
	liImporter := linkedin.New()
	maxElapsed, initial, maxIvl, mult := cfg.ImportBackoff()
	ghClient := ghimp.New(cfg.GitHubAPIBaseURL, ghimp.BackoffConfig{
		MaxElapsedTime:  maxElapsed,
		InitialInterval: initial,
		MaxInterval:     maxIvl,
		Multiplier:      mult,
	})

	// Usecases
	analyzeSvc := usecase.NewAnalyzeService(ext, ref)
	readinessSvc := usecase.NewReadinessService(skillRepo, ref)
	profileSvc := usecase.NewProfileService(profileRepo, skillRepo, courseRepo)
	importSvc := usecase.NewImportService(profileRepo, skillRepo, courseRepo)

	// HTTP server
	srv := httpserver.NewServer(cfg, analyzeSvc, readinessSvc, profileSvc, importSvc, liImporter, ghClient, ref)
	srv.DBCheck = func(ctx context.Context) error { return pool.Ping(ctx) }
	srv.TikaCheck = ext.Ping

	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
