package thumbnail

import "fmt"

// ScalePolicy selects the resampling trade-off of a conversion context.
type ScalePolicy int

const (
	// ScaleAccurate prioritizes deterministic, accuracy-first resampling.
	// Output quality matters more than latency for a one-shot thumbnail.
	ScaleAccurate ScalePolicy = iota
	// ScaleFast prioritizes conversion speed.
	ScaleFast
)

// ConvertContext transforms decoded frames of one fixed geometry and source
// format into packed RGBA. Close releases the context.
type ConvertContext interface {
	Convert(f *DecodedFrame) ([]byte, error)
	Close() error
}

// Converter creates conversion contexts; the color-space collaborator of
// the pipeline.
type Converter interface {
	NewContext(src PixelFormat, width, height int, policy ScalePolicy) (ConvertContext, error)
}

// Image is the produced thumbnail: a packed RGBA buffer with row stride
// exactly Width*4 and no padding. Ownership passes to the caller.
type Image struct {
	Width  int
	Height int
	Data   []byte
}

// Size is the byte length of the pixel buffer, always Width*Height*4.
func (img *Image) Size() int {
	return len(img.Data)
}

// convertFrame encodes the selected frame to a packed RGBA image through the
// conversion collaborator.
func convertFrame(conv Converter, f *DecodedFrame) (*Image, error) {
	cc, err := conv.NewContext(f.Format, f.Width, f.Height, ScaleAccurate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionInit, err)
	}
	defer cc.Close()

	data, err := cc.Convert(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if want := f.Width * f.Height * 4; len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrConversionFailed, len(data), want)
	}

	return &Image{Width: f.Width, Height: f.Height, Data: data}, nil
}
