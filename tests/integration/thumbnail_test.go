package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fiapx/fiapx-thumbnail-service/internal/domain/entity"
	"github.com/fiapx/fiapx-thumbnail-service/internal/infra/email"
	"github.com/fiapx/fiapx-thumbnail-service/internal/infra/ffmpeg"
	miniostorage "github.com/fiapx/fiapx-thumbnail-service/internal/infra/minio"
	"github.com/fiapx/fiapx-thumbnail-service/internal/infra/postgres"
	"github.com/fiapx/fiapx-thumbnail-service/internal/infra/rabbitmq"
	"github.com/fiapx/fiapx-thumbnail-service/internal/usecase"
	"github.com/fiapx/fiapx-thumbnail-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

func TestGenerateThumbnailEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("jobs"),
		tcpostgres.WithUsername("job_user"),
		tcpostgres.WithPassword("job_pass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start RabbitMQ container
	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	defer rmqContainer.Terminate(ctx)

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	// Start MinIO container
	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	minioEndpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Run migrations
	err = postgres.RunMigrations(pgConnStr, "../../migrations")
	require.NoError(t, err)

	// Setup MinIO storage
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:        minioEndpoint,
		AccessKey:       "minioadmin",
		SecretKey:       "minioadmin",
		UseSSL:          false,
		UploadBucket:    "uploads",
		ThumbnailBucket: "thumbnails",
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBuckets(ctx))

	// Upload test video to MinIO
	testVideoPath := filepath.Join("..", "testdata", "test.mp4")
	if _, err := os.Stat(testVideoPath); os.IsNotExist(err) {
		t.Skip("test video not found at tests/testdata/test.mp4 - generate it with: ffmpeg -f lavfi -i testsrc=duration=2:size=320x240:rate=25 -c:v libx264 -pix_fmt yuv420p tests/testdata/test.mp4")
	}

	minioClient, err := miniogo.New(minioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	videoKey := "testuser/test.mp4"
	_, err = minioClient.FPutObject(ctx, "uploads", videoKey, testVideoPath, miniogo.PutObjectOptions{
		ContentType: "video/mp4",
	})
	require.NoError(t, err)

	// Setup RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, "fiapx.media")
	require.NoError(t, err)

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, "thumbnail.generate.dlq")

	// Database pool and repository
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	defer pool.Close()
	repo := postgres.NewJobRepository(pool)

	log, err := logger.New("debug")
	require.NoError(t, err)

	generator := ffmpeg.NewGenerator(7680, 4320, log)
	notifier := email.NewSMTPNotifier("localhost", 1025, "noreply@fiapx.local", log)

	uc := usecase.NewGenerateThumbnailUseCase(
		repo, storage, generator,
		statusPub, dlqPub, notifier,
		log,
		usecase.GenerateThumbnailConfig{
			TempDir:    t.TempDir(),
			MaxRetries: 3,
		},
	)

	// Execute the use case directly with a request message
	msg := entity.ThumbnailRequestMessage{
		JobID:    uuid.New(),
		UserID:   "testuser",
		VideoKey: videoKey,
		FileSize: 0,
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, uc.Execute(ctx, body))

	// Job must be COMPLETED with the stream geometry recorded
	job, err := repo.FindByID(ctx, msg.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, 320, job.Width)
	assert.Equal(t, 240, job.Height)
	assert.Greater(t, job.FramesSampled, 0)
	require.NotEmpty(t, job.ThumbnailKey)

	// The stored object must be a decodable PNG with the source geometry
	obj, err := minioClient.GetObject(ctx, "thumbnails", job.ThumbnailKey, miniogo.GetObjectOptions{})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(obj)
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}
