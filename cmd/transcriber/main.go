package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/skypro1111/batch-transcription-service/internal/config"
	"github.com/skypro1111/batch-transcription-service/internal/metrics"
	"github.com/skypro1111/batch-transcription-service/internal/pipeline"
	"github.com/skypro1111/batch-transcription-service/internal/report"
	"github.com/skypro1111/batch-transcription-service/internal/server"
	"github.com/skypro1111/batch-transcription-service/internal/transcription"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "batch-transcription-service"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	inputPath := flag.String("input", "", "Path to the input WAV file (overrides config)")
	outputDir := flag.String("output", "", "Directory for transcription reports (overrides config)")
	flag.Parse()

	// Load .env if present; the API key usually lives there
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.String("input_path", cfg.Input.Path),
		slog.Float64("chunk_duration", cfg.Audio.ChunkDuration),
		slog.String("transcription_endpoint", cfg.Transcription.Endpoint),
		slog.String("language_code", cfg.Transcription.LanguageCode),
		slog.String("model", cfg.Transcription.Model),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("log_level", cfg.Logging.Level),
	)

	apiKey := cfg.Transcription.APIKey()
	if apiKey == "" {
		logger.Error("Transcription API key is not set",
			slog.String("env_var", cfg.Transcription.APIKeyEnv),
		)
		os.Exit(1)
	}

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()

	client, err := transcription.NewClient(transcription.Config{
		Endpoint: cfg.Transcription.Endpoint,
		APIKey:   apiKey,
		Timeout:  cfg.Transcription.GetTimeoutDuration(),
	})
	if err != nil {
		logger.Error("Failed to create transcription client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	request := transcription.Request{
		LanguageCode:   cfg.Transcription.LanguageCode,
		Model:          cfg.Transcription.Model,
		WithTimestamps: cfg.Transcription.WithTimestamps,
	}

	p := pipeline.New(client, request, cfg.Audio.GetChunkDuration(), logger, appMetrics)

	// Start monitoring server (if enabled)
	var monitor *server.MonitorServer
	if cfg.Monitor.Enabled {
		monitor = server.NewMonitorServer(cfg.Monitor, logger, cfg, p, appMetrics)
		if err := monitor.Start(); err != nil {
			logger.Error("Failed to start monitoring server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	runReport, err := p.Run(ctx, cfg.Input.Path)
	if err != nil {
		logger.Error("Transcription run failed", slog.String("error", err.Error()))
		stopMonitor(monitor, logger)
		os.Exit(1)
	}

	logger.Info("Transcription run completed",
		slog.Int("chunks", runReport.ChunkCount),
		slog.Int("failed_chunks", runReport.FailedChunks),
		slog.Int("transcript_chars", len(runReport.Transcript)),
	)

	writer, err := report.NewWriter(cfg.Output.Dir)
	if err != nil {
		logger.Error("Failed to create report writer", slog.String("error", err.Error()))
		stopMonitor(monitor, logger)
		os.Exit(1)
	}

	path, err := writer.Write(runReport.Transcript, runReport.GeneratedAt)
	switch {
	case errors.Is(err, report.ErrEmptyTranscript):
		logger.Warn("No transcription produced, skipping report")
	case err != nil:
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		stopMonitor(monitor, logger)
		os.Exit(1)
	default:
		appMetrics.RecordReportWritten()
		logger.Info("Report written", slog.String("path", path))
	}

	fmt.Println(runReport.Transcript)

	stopMonitor(monitor, logger)
	logger.Info("Service stopped")
}

// stopMonitor gracefully shuts down the monitoring server if it was started
func stopMonitor(monitor *server.MonitorServer, logger *slog.Logger) {
	if monitor == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := monitor.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping monitoring server", slog.String("error", err.Error()))
	}
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// The transcript goes to stdout, so logs default to stderr
	var output *os.File
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
