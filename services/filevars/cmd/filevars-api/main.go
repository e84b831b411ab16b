package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filevars/pkg/metrics"
	gos3 "filevars/pkg/s3"
	"filevars/pkg/telemetry"
	"filevars/services/filevars"
	"filevars/services/filevars/internal/config"
)

func main() {
	if err := run("filevars-api"); err != nil {
		log.New(os.Stderr, "", log.LstdFlags).Fatal(err)
	}
}

func run(serviceName string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, serviceName, telemetry.Options{})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "%s: telemetry shutdown error: %v\n", serviceName, err)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service := filevars.NewService(nil, cfg.Ingest.ChunkSize)
	if cfg.S3.Enabled {
		s3Client, err := gos3.NewClientFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("init s3 client: %w", err)
		}
		service = filevars.NewService(s3Client, cfg.Ingest.ChunkSize)
	}

	catalogue := metrics.Default()
	if cfg.Metrics.Enabled {
		// Registered so /metrics always lists the job acquisition vocabulary; the
		// component that increments them runs outside this process.
		if _, err := metrics.NewCounters(catalogue, prometheus.DefaultRegisterer, cfg.Metrics.Namespace); err != nil {
			return fmt.Errorf("register job metrics: %w", err)
		}
	}

	api, err := filevars.NewServer(service, catalogue, tel.Logger, filevars.ServerConfig{
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Timeout:        cfg.HTTP.Timeout,
	})
	if err != nil {
		return fmt.Errorf("init api server: %w", err)
	}
	routes, err := api.Routes()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/readyz", readyHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/v1/", routes)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           tel.Middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "%s: server shutdown error: %v\n", serviceName, err)
		}
	}()

	tel.Logger.Printf("INFO listening on %s", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		tel.Logger.Printf("ERROR server failed: %v", err)
		return err
	}

	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
