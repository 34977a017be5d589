package thumbnail

import "errors"

var (
	// ErrNoFramesDecoded is returned when sampling finishes without a single
	// decoded frame, even on a clean end of stream.
	ErrNoFramesDecoded = errors.New("no frames decoded from stream")

	// ErrEmptySampleSet is the selector's own guard against an empty input.
	// Unreachable when ErrNoFramesDecoded is checked first, but raised
	// independently.
	ErrEmptySampleSet = errors.New("empty sample set")

	// ErrUnsupportedPixelFormat is returned by the histogram builder when a
	// frame is not in the packed 3-bytes-per-pixel layout it requires.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format for histogram")

	// ErrConversionInit is returned when a conversion context cannot be created.
	ErrConversionInit = errors.New("conversion context init failed")

	// ErrConversionFailed is returned when the pixel format conversion itself fails.
	ErrConversionFailed = errors.New("pixel format conversion failed")
)
