package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeResult describes the video stream selected for thumbnail extraction.
type ProbeResult struct {
	StreamIndex int
	Width       int
	Height      int
	PixFmt      string
}

// Probe inspects the container with ffprobe and returns the first video
// stream's index and geometry.
func Probe(ctx context.Context, videoPath string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=index,width,height,pix_fmt",
		"-of", "csv=p=0",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	return parseProbeOutput(strings.TrimSpace(string(output)))
}

func parseProbeOutput(line string) (*ProbeResult, error) {
	if line == "" {
		return nil, fmt.Errorf("no video stream found")
	}
	// ffprobe may report several matching lines; the first video stream wins.
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Split(strings.TrimRight(line, ","), ",")
	if len(fields) < 4 {
		return nil, fmt.Errorf("unexpected ffprobe output %q", line)
	}

	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("parse stream index: %w", err)
	}
	width, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parse width: %w", err)
	}
	height, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("parse height: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid video dimensions %dx%d", width, height)
	}

	return &ProbeResult{
		StreamIndex: index,
		Width:       width,
		Height:      height,
		PixFmt:      fields[3],
	}, nil
}

// ProbeDuration returns the container duration in seconds.
func ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}
