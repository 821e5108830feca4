/**
 * Queue consumer for the highlight extraction worker
 *
 * Consumes extraction jobs from a Redis-backed queue via Asynq, runs the
 * pipeline, and writes the passage list back onto the task result. The
 * queue carries no persistence: results live only on the task for the
 * submitting caller to collect.
 */

package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pagemark/highlight-worker/internal/errors"
	"github.com/pagemark/highlight-worker/internal/highlight"
	"github.com/pagemark/highlight-worker/internal/logging"
)

// TaskTypeExtract is the task type handled by this consumer.
const TaskTypeExtract = "highlight:extract"

// JobData represents the payload of an extraction job. Either ImagePath or
// ImageData must be set; ImageData wins when both are present.
type JobData struct {
	JobID     string                 `json:"jobId"`
	UserID    string                 `json:"userId,omitempty"`
	ImagePath string                 `json:"imagePath,omitempty"`
	ImageData []byte                 `json:"imageData,omitempty"`
	Color     string                 `json:"color,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// JobResult is written to the task result on success.
type JobResult struct {
	JobID      string   `json:"jobId"`
	Color      string   `json:"color"`
	Passages   []string `json:"passages"`
	Count      int      `json:"count"`
	DurationMS int64    `json:"durationMs"`
}

// Consumer handles job consumption from the Redis queue
type Consumer struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	redis    *redis.Client
	pipeline *highlight.Pipeline
	logger   *logging.Logger
	config   *ConsumerConfig
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	Pipeline          *highlight.Pipeline
	DefaultColor      highlight.Color
	ProcessingTimeout int64 // milliseconds, default 60000
	Logger            *logging.Logger
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("Pipeline is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger("queue")
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = highlight.ColorYellow
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Direct Redis connection for connectivity checks and queue stats.
	parsed, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(parsed)

	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10,
				"default":     1,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				// Exponential backoff: 5s, 10s, 20s, capped at 60s
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				cfg.Logger.Error("Task processing error",
					"type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	consumer := &Consumer{
		client:   client,
		server:   server,
		mux:      mux,
		redis:    rdb,
		pipeline: cfg.Pipeline,
		logger:   cfg.Logger,
		config:   cfg,
	}
	mux.HandleFunc(TaskTypeExtract, consumer.handleExtract)

	return consumer, nil
}

// Ping verifies Redis connectivity.
func (c *Consumer) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Enqueue submits an extraction job to the queue.
func (c *Consumer) Enqueue(ctx context.Context, job *JobData) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job data: %w", err)
	}
	task := asynq.NewTask(TaskTypeExtract, payload, asynq.Queue(c.config.QueueName), asynq.Retention(24*time.Hour))
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Start starts the queue consumer
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}

	c.logger.Info("Starting queue consumer",
		"concurrency", c.config.Concurrency, "queue", c.config.QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			c.logger.Error("Queue consumer stopped", "error", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully
func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.Info("Stopping queue consumer")

	c.server.Shutdown()

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}
	if err := c.redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}

	c.logger.Info("Queue consumer stopped")
	return nil
}

// handleExtract processes one extraction job
func (c *Consumer) handleExtract(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var job JobData
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fmt.Errorf("failed to unmarshal job data: %v: %w", err, asynq.SkipRetry)
	}

	c.logger.Info("Processing extraction job",
		"job", job.JobID, "path", job.ImagePath, "color", job.Color, "user", job.UserID)

	color := c.config.DefaultColor
	if job.Color != "" {
		parsed, err := highlight.ParseColor(job.Color)
		if err != nil {
			return fmt.Errorf("invalid job: %v: %w", err, asynq.SkipRetry)
		}
		color = parsed
	}

	img, err := c.loadImage(&job)
	if err != nil {
		// An unreadable image will not get better on retry.
		return fmt.Errorf("failed to load image: %v: %w", err, asynq.SkipRetry)
	}

	timeout := time.Duration(60000) * time.Millisecond
	if c.config.ProcessingTimeout > 0 {
		timeout = time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}
	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	passages, err := c.pipeline.Extract(processCtx, img, color)
	duration := time.Since(startTime)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			timeoutErr := errors.NewProcessingTimeoutError(job.JobID, timeout, err)
			c.logger.Error("Extraction timed out",
				"job", job.JobID, "duration", duration, "timeout", timeout)
			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}
		if errors.IsCode(err, errors.ErrorInvalidImage) || errors.IsCode(err, errors.ErrorNoHighlightDetected) {
			// Fatal pipeline conditions are deterministic for a given image.
			c.logger.Error("Extraction failed", "job", job.JobID, "error", err)
			return fmt.Errorf("extraction failed: %v: %w", err, asynq.SkipRetry)
		}
		c.logger.Error("Extraction failed", "job", job.JobID, "duration", duration, "error", err)
		return fmt.Errorf("extraction failed: %w", err)
	}

	result := JobResult{
		JobID:      job.JobID,
		Color:      string(color),
		Passages:   passages,
		Count:      len(passages),
		DurationMS: duration.Milliseconds(),
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if _, err := task.ResultWriter().Write(encoded); err != nil {
		c.logger.Warn("Failed to write task result", "job", job.JobID, "error", err)
	}

	c.logger.Info("Extraction job completed",
		"job", job.JobID, "passages", len(passages), "duration", duration)

	return nil
}

// loadImage decodes the job's image from its inline bytes or its path.
func (c *Consumer) loadImage(job *JobData) (image.Image, error) {
	if len(job.ImageData) > 0 {
		return imaging.Decode(bytes.NewReader(job.ImageData), imaging.AutoOrientation(true))
	}
	if job.ImagePath != "" {
		return imaging.Open(job.ImagePath, imaging.AutoOrientation(true))
	}
	return nil, fmt.Errorf("job carries neither imageData nor imagePath")
}

// GetStatistics returns consumer statistics including the current queue depth.
func (c *Consumer) GetStatistics(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"concurrency": c.config.Concurrency,
		"queue":       c.config.QueueName,
	}
	if pending, err := c.redis.LLen(ctx, fmt.Sprintf("asynq:{%s}:pending", c.config.QueueName)).Result(); err == nil {
		stats["pending"] = pending
	}
	return stats
}
