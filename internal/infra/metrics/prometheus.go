package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiapx_thumbnail_jobs_processed_total",
		Help: "Total number of thumbnail jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fiapx_thumbnail_job_duration_seconds",
		Help:    "Duration of the thumbnail generation pipeline",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fiapx_thumbnail_frames_sampled_total",
		Help: "Total number of decoded frames sampled for selection across all jobs",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fiapx_thumbnail_active_workers",
		Help: "Number of currently active workers generating thumbnails",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiapx_thumbnail_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
