package thumbnail

// MaxSampleFrames bounds how many decoded frames one extraction may hold at
// once. Histogram cost is O(width*height) per frame, so the cap also bounds
// total selection cost.
const MaxSampleFrames = 100

// PixelFormat tags the byte layout of a frame's pixel data.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	// PixelFormatRGB24 is packed 3 bytes per pixel, one byte per channel,
	// no alpha. The only layout the histogram builder accepts.
	PixelFormatRGB24
	// PixelFormatRGBA is packed 4 bytes per pixel. The output layout.
	PixelFormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB24:
		return "rgb24"
	case PixelFormatRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Packet is a unit of compressed data read from the container, tagged with
// its source stream. Packets are transient; Release returns any pooled
// buffer after the decode attempt.
type Packet struct {
	StreamIndex int
	Data        []byte

	release func()
}

// NewPacket builds a packet with an optional release hook invoked exactly
// once by Release.
func NewPacket(streamIndex int, data []byte, release func()) *Packet {
	return &Packet{StreamIndex: streamIndex, Data: data, release: release}
}

// Release returns the packet's buffer to its owner. Safe to call more than
// once; only the first call has effect.
func (p *Packet) Release() {
	if p.release != nil {
		p.release()
		p.release = nil
	}
}

// Plane is one pixel plane of a decoded frame. Stride is the row byte
// length, which may exceed width*bytesPerPixel due to padding.
type Plane struct {
	Data   []byte
	Stride int
}

// DecodedFrame is a fully reconstructed picture produced by the decoder.
// The sampler owns it until the pipeline releases it.
type DecodedFrame struct {
	Width  int
	Height int
	Format PixelFormat
	Planes []Plane

	release func()
}

// NewDecodedFrame builds a frame with an optional release hook invoked
// exactly once by Release.
func NewDecodedFrame(width, height int, format PixelFormat, planes []Plane, release func()) *DecodedFrame {
	return &DecodedFrame{
		Width:   width,
		Height:  height,
		Format:  format,
		Planes:  planes,
		release: release,
	}
}

// HasData reports whether the frame carries pixel data in its primary plane.
func (f *DecodedFrame) HasData() bool {
	return len(f.Planes) > 0 && len(f.Planes[0].Data) > 0
}

// Release returns the frame's buffers to their owner. Safe to call more
// than once; only the first call has effect.
func (f *DecodedFrame) Release() {
	if f.release != nil {
		f.release()
		f.release = nil
	}
}

// sampleSet is the ordered, bounded set of frames collected in decode order.
// It owns every frame it holds; releaseAll is the single place frames are
// given back, regardless of which pipeline step failed.
type sampleSet struct {
	frames []*DecodedFrame
}

func newSampleSet() *sampleSet {
	return &sampleSet{frames: make([]*DecodedFrame, 0, MaxSampleFrames)}
}

func (s *sampleSet) append(f *DecodedFrame) {
	s.frames = append(s.frames, f)
}

func (s *sampleSet) len() int {
	return len(s.frames)
}

func (s *sampleSet) releaseAll() {
	for _, f := range s.frames {
		f.Release()
	}
}
