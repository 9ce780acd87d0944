package cmd

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

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/airbuds-price-predictor/api/openapi"
	"github.com/donaldgifford/airbuds-price-predictor/internal/api/handlers"
	"github.com/donaldgifford/airbuds-price-predictor/internal/api/middleware"
	"github.com/donaldgifford/airbuds-price-predictor/internal/config"
	"github.com/donaldgifford/airbuds-price-predictor/internal/engine"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/logger"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/model"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
)

const (
	apiTitle = "Airbuds Price Predictor"

	modelLoadTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	clog := newConsoleLogger(cfg)
	slogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	p, err := loadPredictor(cmd.Context(), cfg, clog)
	if err != nil {
		clog.Error("model load failed", "err", err)
		return err
	}

	eng := engine.NewEngine(p,
		engine.WithLogger(slogger),
		engine.WithCurrency(cfg.Display.Currency),
	)
	e := newServer(cfg, eng, slogger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	clog.Info("starting server", "addr", addr, "backend", p.Backend(), "ready", p.Ready())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	clog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	clog.Info("server stopped")
	return nil
}

func newConsoleLogger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           logger.CharmLevel(logger.ParseLevel(cfg.Logging.Level)),
		ReportTimestamp: true,
	})
}

// loadPredictor opens the configured scoring backend once. When the model is
// required a load failure is returned; otherwise the predictor starts
// Unavailable and every prediction reports it.
func loadPredictor(ctx context.Context, cfg *config.Config, clog *log.Logger) (*predict.Predictor, error) {
	ctx, cancel := context.WithTimeout(ctx, modelLoadTimeout)
	defer cancel()

	scorer, err := model.Open(ctx, model.Options{
		Backend:  cfg.Model.Backend,
		Path:     cfg.Model.Path,
		Endpoint: cfg.Model.HTTP.Endpoint,
		Timeout:  cfg.Model.HTTP.Timeout,
	})
	if err != nil {
		if cfg.Model.IsRequired() {
			return nil, fmt.Errorf("loading model: %w", err)
		}
		clog.Warn("model not loaded; predictions are unavailable", "err", err)
		return predict.NewUnavailable(err), nil
	}

	clog.Info("model loaded", "backend", scorer.Name(), "path", cfg.Model.Path)
	return predict.New(scorer), nil
}

// newServer wires middleware, probes, metrics, and the API operations.
func newServer(cfg *config.Config, eng *engine.Engine, slogger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(slogger))
	e.Use(middleware.Recovery(slogger))
	e.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled() {
		e.Use(middleware.RateLimit(
			middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		))
	}

	health := handlers.NewHealthHandler(eng)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig(apiTitle, Version))
	handlers.RegisterFieldsRoutes(api, handlers.NewFieldsHandler())
	handlers.RegisterPredictRoutes(api, handlers.NewPredictHandler(eng))

	openapi.RegisterRoutes(e, apiTitle)

	return e
}
