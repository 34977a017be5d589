package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fiapx/fiapx-thumbnail-service/internal/domain/entity"
	"github.com/fiapx/fiapx-thumbnail-service/internal/domain/port"
	"github.com/fiapx/fiapx-thumbnail-service/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type GenerateThumbnailUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	generator port.ThumbnailGenerator
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger
	tempDir   string
	maxRetry  int
}

type GenerateThumbnailConfig struct {
	TempDir    string
	MaxRetries int
}

func NewGenerateThumbnailUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	generator port.ThumbnailGenerator,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg GenerateThumbnailConfig,
) *GenerateThumbnailUseCase {
	return &GenerateThumbnailUseCase{
		repo:      repo,
		storage:   storage,
		generator: generator,
		publisher: publisher,
		dlq:       dlq,
		notifier:  notifier,
		logger:    logger,
		tempDir:   cfg.TempDir,
		maxRetry:  cfg.MaxRetries,
	}
}

func (uc *GenerateThumbnailUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "GenerateThumbnailUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.ThumbnailRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.thumbnailPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *GenerateThumbnailUseCase) thumbnailPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.ThumbnailRequestMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input"+filepath.Ext(msg.VideoKey))
	if err := uc.storage.DownloadVideo(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Select a representative frame and encode it
	genStart := time.Now()
	ctx3, spanGen := tracer.Start(ctx, "generate_thumbnail")
	result, err := uc.generator.Generate(ctx3, videoPath)
	if err != nil {
		spanGen.End()
		log.Error("thumbnail generation failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "generate_thumbnail: "+err.Error(), log)
	}
	spanGen.End()
	metrics.JobProcessingDuration.WithLabelValues("generate").Observe(time.Since(genStart).Seconds())
	metrics.FramesSampledTotal.Add(float64(result.FramesSampled))

	// Upload thumbnail to MinIO
	upStart := time.Now()
	ctx4, spanUp := tracer.Start(ctx, "upload_thumbnail")
	thumbKey := fmt.Sprintf("%s/thumb_%s.png", msg.UserID, job.ID.String())
	if err := uc.storage.UploadThumbnail(ctx4, thumbKey, bytes.NewReader(result.PNG), int64(len(result.PNG))); err != nil {
		spanUp.End()
		log.Error("thumbnail upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_thumbnail: "+err.Error(), log)
	}
	spanUp.End()
	metrics.JobProcessingDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	// Mark completed
	job.MarkCompleted(thumbKey, result.Width, result.Height, result.FramesSampled, result.VideoDuration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("job completed successfully",
		zap.Int("width", result.Width),
		zap.Int("height", result.Height),
		zap.Int("frames_sampled", result.FramesSampled),
		zap.Float64("duration_secs", result.VideoDuration),
		zap.String("thumbnail_key", thumbKey),
	)

	return nil
}

func (uc *GenerateThumbnailUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.ThumbnailRequestMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *GenerateThumbnailUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.ThumbnailRequestMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *GenerateThumbnailUseCase) publishStatus(ctx context.Context, job *entity.Job, log *zap.Logger) {
	statusMsg := entity.ThumbnailStatusMessage{
		JobID:         job.ID,
		UserID:        job.UserID,
		Status:        job.Status,
		VideoKey:      job.VideoKey,
		ThumbnailKey:  job.ThumbnailKey,
		Width:         job.Width,
		Height:        job.Height,
		FramesSampled: job.FramesSampled,
		Duration:      job.VideoDuration,
		ErrorMessage:  job.ErrorMessage,
		Attempt:       job.Attempt,
		MaxAttempts:   job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
