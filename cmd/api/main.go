// Command api runs the quote generation HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradequote_backend/internal/catalog"
	apphttp "tradequote_backend/internal/http"
	"tradequote_backend/internal/http/router"
	"tradequote_backend/internal/quote"
	"tradequote_backend/internal/quote/service"
	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/config"
	"tradequote_backend/platform/logger"
	"tradequote_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("production").Error("configuration error", "error", err.Error())
		os.Exit(1)
	}

	log := logger.New(cfg.GetEnv())
	log.Info("starting quote service", "env", cfg.GetEnv(), "addr", cfg.GetHTTPAddr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := service.LoadParams(cfg.GetPipelineConfigPath())
	if err != nil {
		log.Error("pipeline config error", "error", err.Error())
		os.Exit(1)
	}

	primary, err := textgen.NewGemini(ctx, cfg.GetTextGenAPIKey(), cfg.GetTextGenModel())
	if err != nil {
		log.Error("text generation client error", "error", err.Error())
		os.Exit(1)
	}
	var fallback textgen.Completer
	if model := cfg.GetTextGenFallbackModel(); model != "" && model != cfg.GetTextGenModel() {
		fallback = primary.WithModel(model)
	}
	ai := textgen.WithRetry(primary, fallback, textgen.Policy{
		MaxAttempts:    cfg.GetTextGenMaxAttempts(),
		InitialBackoff: cfg.GetTextGenBackoff(),
	}, log)
	log.Info("text generation ready", "model", primary.ModelName())

	catalogModule := catalog.NewModule(cfg, log)

	quoteModule := quote.NewModule(ai, catalogModule.Searcher(), params, validator.New(), log)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: map[string]apphttp.HealthChecker{
			"cache": nil,
		},
		Modules: []apphttp.Module{quoteModule},
	}
	if c := catalogModule.CacheHealth(); c != nil {
		app.Health["cache"] = c
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err.Error())
	}
	log.Info("stopped")
}
