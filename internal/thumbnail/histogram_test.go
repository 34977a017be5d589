package thumbnail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidFrame builds a width x height packed RGB24 frame filled with one
// color. padding extra bytes are appended to every row to exercise stride
// handling.
func solidFrame(width, height int, r, g, b byte, padding int) *DecodedFrame {
	stride := width*3 + padding
	data := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			data[row+x*3] = r
			data[row+x*3+1] = g
			data[row+x*3+2] = b
		}
		// Poison the padding so a traversal that ignores stride miscounts.
		for p := width * 3; p < stride; p++ {
			data[row+p] = 0xFF
		}
	}
	return NewDecodedFrame(width, height, PixelFormatRGB24, []Plane{{Data: data, Stride: stride}}, nil)
}

func TestBuildHistogramSolidColor(t *testing.T) {
	f := solidFrame(8, 6, 10, 20, 30, 0)

	hist, err := BuildHistogram(f)
	require.NoError(t, err)

	assert.Equal(t, 48, hist[10])
	assert.Equal(t, 48, hist[256+20])
	assert.Equal(t, 48, hist[512+30])
}

func TestBuildHistogramPixelCountInvariant(t *testing.T) {
	// Every pixel contributes one increment per channel sub-histogram.
	f := solidFrame(13, 7, 1, 2, 3, 0)
	f.Planes[0].Data[0] = 200 // non-uniform content
	f.Planes[0].Data[1] = 201

	hist, err := BuildHistogram(f)
	require.NoError(t, err)

	pixels := 13 * 7
	for c := 0; c < 3; c++ {
		sum := 0
		for b := 0; b < 256; b++ {
			sum += hist[c*256+b]
		}
		assert.Equal(t, pixels, sum, "channel %d", c)
	}
}

func TestBuildHistogramSkipsRowPadding(t *testing.T) {
	padded := solidFrame(5, 4, 100, 110, 120, 7)
	packed := solidFrame(5, 4, 100, 110, 120, 0)

	histPadded, err := BuildHistogram(padded)
	require.NoError(t, err)
	histPacked, err := BuildHistogram(packed)
	require.NoError(t, err)

	assert.Equal(t, histPacked, histPadded)
	assert.Zero(t, histPadded[0xFF], "padding bytes must not be counted")
}

func TestBuildHistogramRejectsWrongFormat(t *testing.T) {
	f := NewDecodedFrame(2, 2, PixelFormatRGBA, []Plane{{Data: make([]byte, 16), Stride: 8}}, nil)

	_, err := BuildHistogram(f)
	assert.ErrorIs(t, err, ErrUnsupportedPixelFormat)
}

func TestBuildHistogramRejectsEmptyPlane(t *testing.T) {
	f := NewDecodedFrame(2, 2, PixelFormatRGB24, nil, nil)

	_, err := BuildHistogram(f)
	assert.ErrorIs(t, err, ErrUnsupportedPixelFormat)
}
