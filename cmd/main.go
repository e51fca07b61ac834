package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/vigil/internal/adapters/alert"
	"github.com/okian/vigil/internal/adapters/capture"
	"github.com/okian/vigil/internal/adapters/pose"
	app "github.com/okian/vigil/internal/app"
	"github.com/okian/vigil/internal/config"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the camera or video file.
	grabber, err := capture.OpenDevice(cfg.VideoSource)
	if err != nil {
		os.Stderr.WriteString("failed to open video source: " + err.Error() + "\n")
		return
	}

	source := capture.NewSource(grabber,
		capture.WithCapacity(cfg.QueueCapacity),
		capture.WithReadTimeout(cfg.ReadTimeout()),
		capture.WithEnqueueTimeout(cfg.EnqueueTimeout()),
	)

	estimator := pose.NewClient(cfg.PoseEndpoint)

	// Create and start the pipeline with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithSource(source),
		app.WithEstimator(estimator),
		app.WithSensitivity(cfg.Sensitivity),
		app.WithConfidence(cfg.Confidence),
		app.WithCooldown(cfg.Cooldown()),
		app.WithSmoothingWindow(cfg.SmoothingWindow),
		app.WithReadTimeout(cfg.ReadTimeout()),
		app.WithMaxReadMisses(cfg.MaxReadMisses),
		app.WithIncidentHandler(func(ctx context.Context, incident alert.Incident) {
			loggerInstance.Warn(ctx, "FALL DETECTED",
				logger.String("incident", incident.ID.String()),
				logger.Float64("confidence", incident.Confidence),
				logger.Duration("videoTime", incident.VideoTime),
			)
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start pipeline: " + err.Error() + "\n")
		return
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Metrics and health endpoints.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting metrics server", logger.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("metrics server failed: " + err.Error() + "\n")
		}
	}()

	// Exit when the stream ends on its own (e.g. a video file ran out).
	streamDone := make(chan struct{})
	go func() {
		svc.Wait()
		close(streamDone)
	}()

	select {
	case <-ctx.Done():
		loggerInstance.Info(ctx, "shutting down...")
	case <-streamDone:
		loggerInstance.Info(ctx, "stream finished, shutting down...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	svc.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "metrics server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "pipeline stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
