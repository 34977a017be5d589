package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/fiapx/fiapx-thumbnail-service/internal/domain/port"
	"github.com/fiapx/fiapx-thumbnail-service/internal/thumbnail"
	"go.uber.org/zap"
)

var (
	// ErrSourceTooWide and ErrSourceTooTall reject absurdly large sources
	// before any decode work starts.
	ErrSourceTooWide = errors.New("source video too wide")
	ErrSourceTooTall = errors.New("source video too tall")
)

// Generator produces a representative-frame PNG for a video file: probe the
// stream, run the histogram selection pipeline over up to
// thumbnail.MaxSampleFrames decoded frames, and encode the winner.
type Generator struct {
	maxSourceWidth  int
	maxSourceHeight int
	logger          *zap.Logger
}

func NewGenerator(maxSourceWidth, maxSourceHeight int, logger *zap.Logger) *Generator {
	return &Generator{
		maxSourceWidth:  maxSourceWidth,
		maxSourceHeight: maxSourceHeight,
		logger:          logger,
	}
}

func (g *Generator) Generate(ctx context.Context, videoPath string) (*port.ThumbnailResult, error) {
	probe, err := Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	if g.maxSourceWidth > 0 && probe.Width > g.maxSourceWidth {
		return nil, fmt.Errorf("%w: %dpx", ErrSourceTooWide, probe.Width)
	}
	if g.maxSourceHeight > 0 && probe.Height > g.maxSourceHeight {
		return nil, fmt.Errorf("%w: %dpx", ErrSourceTooTall, probe.Height)
	}

	duration, err := ProbeDuration(ctx, videoPath)
	if err != nil {
		g.logger.Warn("could not get video duration", zap.Error(err))
	}

	session, err := NewSession(ctx, videoPath, probe, g.logger)
	if err != nil {
		return nil, fmt.Errorf("open decode session: %w", err)
	}
	defer session.Close()

	img, err := thumbnail.ExtractRepresentativeImage(session, probe.StreamIndex, NewConverter())
	if err != nil {
		return nil, fmt.Errorf("extract representative image: %w", err)
	}

	pngData, err := encodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	g.logger.Info("thumbnail generated",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("frames_sampled", session.FramesProduced()),
		zap.Float64("video_duration", duration),
	)

	return &port.ThumbnailResult{
		PNG:           pngData,
		Width:         img.Width,
		Height:        img.Height,
		FramesSampled: session.FramesProduced(),
		VideoDuration: duration,
	}, nil
}

// encodePNG wraps the packed RGBA buffer without copying and encodes it.
func encodePNG(img *thumbnail.Image) ([]byte, error) {
	rgba := &image.RGBA{
		Pix:    img.Data,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
