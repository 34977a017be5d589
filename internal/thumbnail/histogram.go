package thumbnail

import "fmt"

const (
	histChannels = 3
	histBins     = 256
	// HistSize is the number of bins in a frame histogram: three
	// concatenated 256-bin channel histograms.
	HistSize = histChannels * histBins
)

// Histogram is the color distribution of one decoded frame: bins 0-255 for
// channel 0, 256-511 for channel 1, 512-767 for channel 2. Never mutated
// after construction.
type Histogram [HistSize]int

// BuildHistogram computes the histogram of a packed 3-bytes-per-pixel frame.
// Rows advance by the plane stride, not width*3, so trailing padding bytes
// are skipped. Any other pixel layout fails with ErrUnsupportedPixelFormat.
func BuildHistogram(f *DecodedFrame) (Histogram, error) {
	var hist Histogram
	if f.Format != PixelFormatRGB24 {
		return hist, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, f.Format)
	}
	if !f.HasData() {
		return hist, fmt.Errorf("%w: frame has no pixel data", ErrUnsupportedPixelFormat)
	}

	plane := f.Planes[0]
	row := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			px := row + x*histChannels
			for c := 0; c < histChannels; c++ {
				hist[c*histBins+int(plane.Data[px+c])]++
			}
		}
		row += plane.Stride
	}
	return hist, nil
}
