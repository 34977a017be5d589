package thumbnail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter expands packed RGB24 to RGBA without scaling, mimicking the
// real converter closely enough for pipeline tests.
type fakeConverter struct {
	initErr    error
	convertErr error
	policy     ScalePolicy
	closed     int
}

type fakeConvertContext struct {
	conv *fakeConverter
}

func (c *fakeConverter) NewContext(src PixelFormat, width, height int, policy ScalePolicy) (ConvertContext, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}
	c.policy = policy
	return &fakeConvertContext{conv: c}, nil
}

func (cc *fakeConvertContext) Convert(f *DecodedFrame) ([]byte, error) {
	if cc.conv.convertErr != nil {
		return nil, cc.conv.convertErr
	}
	out := make([]byte, f.Width*f.Height*4)
	plane := f.Planes[0]
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			src := y*plane.Stride + x*3
			dst := (y*f.Width + x) * 4
			copy(out[dst:], plane.Data[src:src+3])
			out[dst+3] = 0xFF
		}
	}
	return out, nil
}

func (cc *fakeConvertContext) Close() error {
	cc.conv.closed++
	return nil
}

func TestExtractRepresentativeImagePicksFirstOfDominantPair(t *testing.T) {
	// Frames: solid X, solid Y, solid X. The average is X-dominant and the
	// tie between the two X frames resolves to the first.
	s := &fakeSession{}
	s.steps = []fakeStep{
		{streamIndex: 0, frames: []*DecodedFrame{s.trackedFrame(4, 4, 10)}},
		{streamIndex: 0, frames: []*DecodedFrame{s.trackedFrame(4, 4, 250)}},
		{streamIndex: 0, frames: []*DecodedFrame{s.trackedFrame(4, 4, 10)}},
	}
	conv := &fakeConverter{}

	img, err := ExtractRepresentativeImage(s, 0, conv)
	require.NoError(t, err)

	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 4, img.Height)
	assert.Equal(t, 4*4*4, img.Size())
	// Shade 10 everywhere proves the first X frame won, not the third's copy
	// or the Y frame.
	assert.Equal(t, byte(10), img.Data[0])
	assert.Equal(t, byte(0xFF), img.Data[3])
	assert.Equal(t, 3, s.released, "all sampled frames released on success")
	assert.Equal(t, ScaleAccurate, conv.policy)
	assert.Equal(t, 1, conv.closed)
}

func TestExtractRepresentativeImageOutputStride(t *testing.T) {
	// Source rows are padded; the output must be exactly width*height*4.
	s := &fakeSession{}
	f := solidFrame(5, 3, 7, 8, 9, 11)
	f.release = func() { s.released++ }
	s.steps = []fakeStep{{streamIndex: 0, frames: []*DecodedFrame{f}}}

	img, err := ExtractRepresentativeImage(s, 0, &fakeConverter{})
	require.NoError(t, err)
	assert.Equal(t, 5*3*4, img.Size())
}

func TestExtractRepresentativeImageNoFrames(t *testing.T) {
	s := &fakeSession{}

	_, err := ExtractRepresentativeImage(s, 0, &fakeConverter{})
	assert.ErrorIs(t, err, ErrNoFramesDecoded)
}

func TestExtractRepresentativeImageConversionInitFailure(t *testing.T) {
	s := &fakeSession{}
	s.steps = []fakeStep{{streamIndex: 0, frames: []*DecodedFrame{s.trackedFrame(2, 2, 50)}}}
	conv := &fakeConverter{initErr: errors.New("out of contexts")}

	_, err := ExtractRepresentativeImage(s, 0, conv)
	assert.ErrorIs(t, err, ErrConversionInit)
	assert.Equal(t, 1, s.released, "frames released on conversion failure")
}

func TestExtractRepresentativeImageConversionFailure(t *testing.T) {
	s := &fakeSession{}
	s.steps = []fakeStep{{streamIndex: 0, frames: []*DecodedFrame{s.trackedFrame(2, 2, 50)}}}
	conv := &fakeConverter{convertErr: errors.New("scaler choked")}

	_, err := ExtractRepresentativeImage(s, 0, conv)
	assert.ErrorIs(t, err, ErrConversionFailed)
	assert.Equal(t, 1, s.released)
}

func TestExtractRepresentativeImageUnsupportedFormat(t *testing.T) {
	s := &fakeSession{}
	f := NewDecodedFrame(2, 2, PixelFormatRGBA, []Plane{{Data: make([]byte, 16), Stride: 8}}, func() { s.released++ })
	s.steps = []fakeStep{{streamIndex: 0, frames: []*DecodedFrame{f}}}

	_, err := ExtractRepresentativeImage(s, 0, &fakeConverter{})
	assert.ErrorIs(t, err, ErrUnsupportedPixelFormat)
	assert.Equal(t, 1, s.released)
}

func TestFrameReleaseIsIdempotent(t *testing.T) {
	n := 0
	f := NewDecodedFrame(1, 1, PixelFormatRGB24, []Plane{{Data: []byte{1, 2, 3}, Stride: 3}}, func() { n++ })

	f.Release()
	f.Release()
	assert.Equal(t, 1, n)
}
