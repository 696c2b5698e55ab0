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

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"agrimind/config"
	"agrimind/database"
	"agrimind/pkg/ai"
	"agrimind/pkg/backup"
	"agrimind/pkg/cache"
	"agrimind/pkg/logger"
	"agrimind/pkg/metrics"
	"agrimind/router"

	// Auth + Health
	authCtrlImp "agrimind/pkg/auth/controllerImp"
	healthCtrlImp "agrimind/pkg/health/controllerImp"

	// Transfer
	transferCtrlImp "agrimind/pkg/transfer/controllerImp"
	transferRepoImp "agrimind/pkg/transfer/repositoryImp"
	transferSvcImp "agrimind/pkg/transfer/serviceImp"

	// Snapshot
	snapshotCtrlImp "agrimind/pkg/snapshot/controllerImp"
	snapshotRepoImp "agrimind/pkg/snapshot/repositoryImp"
	snapshotSvcImp "agrimind/pkg/snapshot/serviceImp"

	// Assistant
	assistantCtrlImp "agrimind/pkg/assistant/controllerImp"
	assistantSvcImp "agrimind/pkg/assistant/serviceImp"
)

func main() {
	if err := run(); err != nil {
		zlog.Error().Err(err).Msg("[boot] exiting")
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) Config + logger
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, ServiceName: "agrimind"})
	log.Info().Interface("config", cfg.Redacted()).Msg("[boot] config loaded")

	// 2) DB + automigrate
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// 3) Optional cache and backup store
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("[boot] redis unavailable, snapshot cache off")
		} else {
			cacheClient = rc
			defer rc.Close()
		}
	}
	backups, err := backup.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backup store: %w", err)
	}

	m := metrics.New()
	llm := newLLM(cfg, log)

	// 4) Services
	transferSvc := transferSvcImp.New(transferRepoImp.New(db), transferRepoImp.NewImportRuns(db), backups, m, log)
	snapshotSvc := snapshotSvcImp.New(snapshotRepoImp.New(db), cacheClient, log)
	assistantSvc := assistantSvcImp.New(llm, snapshotSvc, m, log)

	// 5) Router
	e := router.New(
		echo.New(),
		log,
		router.Options{AuthRequired: cfg.AuthRequired, BodyLimit: fmt.Sprintf("%dM", cfg.MaxUploadMB)},
		m,
		authCtrlImp.NewAuthController(),
		healthCtrlImp.NewHealthCtrl(db, cacheClient),
		transferCtrlImp.New(transferSvc, int64(cfg.MaxUploadMB)<<20),
		snapshotCtrlImp.New(snapshotSvc),
		assistantCtrlImp.New(assistantSvc),
	)

	// 6) Start
	log.Info().Str("port", cfg.Port).Str("ai", llm.Name()).Msg("[boot] listening")
	return serve(ctx, e, ":"+cfg.Port)
}

// serve runs e until ctx is done, then shuts it down. A listener failure is
// returned to the caller.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newLLM picks the assistant provider; a provider missing its key falls back to the mock.
func newLLM(cfg config.AppConfig, log zerolog.Logger) ai.Client {
	switch cfg.AIProvider {
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return ai.NewGemini(cfg.GeminiEndpoint, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		log.Warn().Msg("[boot] GEMINI_API_KEY not set, using mock assistant")
	case "openai":
		if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
			return ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
		}
		log.Warn().Msg("[boot] LLM_ENDPOINT/LLM_API_KEY not set, using mock assistant")
	}
	return ai.NewMock()
}
