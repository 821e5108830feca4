/**
 * Highlight extraction worker - main entry point
 *
 * Consumes extraction jobs from a Redis-backed queue. Each job carries a
 * page screenshot and a highlight color; the result written back to the
 * task is the ordered list of highlighted passages.
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pagemark/highlight-worker/internal/config"
	"github.com/pagemark/highlight-worker/internal/highlight"
	"github.com/pagemark/highlight-worker/internal/logging"
	"github.com/pagemark/highlight-worker/internal/queue"
	"github.com/pagemark/highlight-worker/internal/recognizer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger("worker")
	logger.Info("Highlight extraction worker starting",
		"redis", cfg.RedisURL, "queue", cfg.QueueName,
		"concurrency", cfg.WorkerConcurrency, "color", cfg.HighlightColor)

	defaultColor, err := highlight.ParseColor(cfg.HighlightColor)
	if err != nil {
		log.Fatalf("Invalid HIGHLIGHT_COLOR: %v", err)
	}

	rec := recognizer.NewTesseract(recognizer.TesseractConfig{
		Language: cfg.TesseractLanguage,
	})

	pipeline := highlight.NewPipeline(rec, highlight.Config{
		PrimaryCoverage: cfg.PrimaryCoverage,
		RelaxedCoverage: cfg.RelaxedCoverage,
		ExtractWorkers:  cfg.ExtractWorkers,
		EnhanceCrops:    cfg.EnhanceCrops,
	}, logger.WithPrefix("pipeline"))

	consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
		RedisURL:          cfg.RedisURL,
		QueueName:         cfg.QueueName,
		Concurrency:       cfg.WorkerConcurrency,
		Pipeline:          pipeline,
		DefaultColor:      defaultColor,
		ProcessingTimeout: int64(cfg.ProcessingTimeout),
		Logger:            logger.WithPrefix("queue"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize queue consumer: %v", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := consumer.Start(startCtx); err != nil {
		cancel()
		log.Fatalf("Failed to start queue consumer: %v", err)
	}
	cancel()

	logger.Info("Worker ready, waiting for jobs")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan
	logger.Info("Received signal, shutting down", "signal", sig)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := consumer.Stop(stopCtx); err != nil {
		logger.Error("Error stopping queue consumer", "error", err)
	}

	logger.Info("Shutdown complete")
}
