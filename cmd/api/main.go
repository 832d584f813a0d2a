// Package main is the entry point for the fmrwatch API server.
//
// It loads configuration, wires the project feed (PostgreSQL or the built-in
// seed set), the defect detector, the survey evaluation sink, and telemetry,
// then serves HTTP with graceful shutdown on SIGINT/SIGTERM.
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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"fmrwatch/internal/api/handlers"
	"fmrwatch/internal/config"
	"fmrwatch/internal/core"
	"fmrwatch/internal/dashboard"
	"fmrwatch/internal/db"
	"fmrwatch/internal/detection"
	"fmrwatch/internal/rollup"
	"fmrwatch/internal/survey"
	"fmrwatch/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("fmrwatch API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"detector", cfg.Detection.Variant,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	// Project feed: PostgreSQL when DATABASE_URL is set, otherwise the
	// built-in seed set (read-only, no persistence).
	var (
		source          dashboard.ProjectSource
		writer          handlers.ProjectWriter
		assessmentStore handlers.AssessmentStore
		surveyStore     survey.SubmissionStore
	)
	if cfg.Database.URL != "" {
		pool, err := db.NewPool(startCtx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		srv.AddCloser(func() error {
			pool.Close()
			return nil
		})
		srv.HealthProbes = append(srv.HealthProbes, &dbHealthProbe{pool: pool})

		projectRepo := db.NewProjectRepository(pool)
		source = projectRepo
		writer = projectRepo
		assessmentStore = db.NewAssessmentRepository(pool)
		surveyStore = db.NewSurveyRepository(pool)
	} else {
		logger.Info("no DATABASE_URL configured, serving built-in seed projects")
		source = db.NewSeedProjectSource()
	}

	dashboardSvc := dashboard.NewService(source, logger)

	// Defect detector.
	var detector detection.Detector
	switch cfg.Detection.Variant {
	case "model":
		client := openai.NewClient(cfg.Detection.OpenAIAPIKey)
		detector = detection.NewModelBacked(client, cfg.Detection.Model, logger)
	default:
		detector = detection.NewRandomStub(logger)
	}

	// AWS clients are only constructed when a component needs them.
	var awsCfg aws.Config
	needAWS := cfg.Survey.QueueURL != "" || cfg.Observability.EnableMetrics
	if needAWS {
		awsCfg, err = awsconfig.LoadDefaultConfig(startCtx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return fmt.Errorf("loading AWS configuration: %w", err)
		}
	}

	// Survey evaluation sink.
	var sink survey.EvaluationSink
	if cfg.Survey.QueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
			if cfg.AWS.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
			}
		})
		sink = survey.NewSQSSink(sqsClient, cfg.Survey.QueueURL, logger)
	} else {
		sink = survey.NewLogSink(logger)
	}
	surveySvc := survey.NewService(surveyStore, sink, logger)

	// Telemetry.
	var statusSink rollup.StatusSink
	if cfg.Observability.EnableMetrics {
		cwClient := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
			if cfg.AWS.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
			}
		})
		collector := telemetry.NewCloudWatchCollector(cwClient, cfg.Observability.MetricNamespace, logger)
		srv.Metrics = collector
		statusSink = collector
	}

	// HTTP handlers.
	projectHandler := handlers.NewProjectHandler(dashboardSvc, writer, srv.Validator, logger)
	assessmentHandler := handlers.NewAssessmentHandler(detector, assessmentStore, cfg.Detection.MaxImageBytes, logger)
	surveyHandler := handlers.NewSurveyHandler(surveySvc, srv.Validator, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		projectHandler.RegisterRoutes,
		assessmentHandler.RegisterRoutes,
		surveyHandler.RegisterRoutes,
	)
	srv.MountRoutes()

	// Background status rollup.
	rollupJob := rollup.NewJob(dashboardSvc, statusSink, logger)
	if cfg.Jobs.RollupSchedule != "" {
		if err := rollupJob.Start(cfg.Jobs.RollupSchedule); err != nil {
			return fmt.Errorf("scheduling status rollup: %w", err)
		}
		defer rollupJob.Stop()
	}

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer serves HTTP until a shutdown signal or listener error, then
// drains in-flight requests and closes server resources.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return srv.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}

// dbHealthProbe reports database reachability for GET /health.
type dbHealthProbe struct {
	pool *pgxpool.Pool
}

func (p *dbHealthProbe) Name() string { return "database" }

func (p *dbHealthProbe) Check(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
