package ffmpeg

import (
	"fmt"

	"github.com/fiapx/fiapx-thumbnail-service/internal/thumbnail"
)

// Converter implements thumbnail.Converter for packed RGB24 input, the only
// format sessions produce. Expansion to RGBA is exact, so the accurate and
// fast policies converge; the requested policy is still validated.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

func (c *Converter) NewContext(src thumbnail.PixelFormat, width, height int, policy thumbnail.ScalePolicy) (thumbnail.ConvertContext, error) {
	if src != thumbnail.PixelFormatRGB24 {
		return nil, fmt.Errorf("source format %s not supported", src)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid geometry %dx%d", width, height)
	}
	if policy != thumbnail.ScaleAccurate && policy != thumbnail.ScaleFast {
		return nil, fmt.Errorf("unknown scale policy %d", policy)
	}
	return &convertContext{width: width, height: height}, nil
}

type convertContext struct {
	width  int
	height int
	closed bool
}

// Convert expands packed RGB24 rows into a packed RGBA buffer with row
// stride exactly width*4 and alpha fully opaque.
func (cc *convertContext) Convert(f *thumbnail.DecodedFrame) ([]byte, error) {
	if cc.closed {
		return nil, fmt.Errorf("conversion context already closed")
	}
	if f.Width != cc.width || f.Height != cc.height {
		return nil, fmt.Errorf("frame geometry %dx%d does not match context %dx%d",
			f.Width, f.Height, cc.width, cc.height)
	}
	if !f.HasData() {
		return nil, fmt.Errorf("frame has no pixel data")
	}

	plane := f.Planes[0]
	out := make([]byte, cc.width*cc.height*4)
	for y := 0; y < cc.height; y++ {
		src := y * plane.Stride
		dst := y * cc.width * 4
		for x := 0; x < cc.width; x++ {
			copy(out[dst:dst+3], plane.Data[src:src+3])
			out[dst+3] = 0xFF
			src += 3
			dst += 4
		}
	}
	return out, nil
}

func (cc *convertContext) Close() error {
	cc.closed = true
	return nil
}
