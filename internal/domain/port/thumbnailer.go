package port

import "context"

type ThumbnailResult struct {
	PNG           []byte
	Width         int
	Height        int
	FramesSampled int
	VideoDuration float64
}

type ThumbnailGenerator interface {
	Generate(ctx context.Context, videoPath string) (*ThumbnailResult, error)
}
