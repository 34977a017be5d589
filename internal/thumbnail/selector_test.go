package thumbnail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramOf(f *DecodedFrame, t *testing.T) Histogram {
	t.Helper()
	h, err := BuildHistogram(f)
	require.NoError(t, err)
	return h
}

func TestSelectBestFrameEmpty(t *testing.T) {
	_, err := selectBestFrame(nil)
	assert.ErrorIs(t, err, ErrEmptySampleSet)
}

func TestSelectBestFrameSingle(t *testing.T) {
	hists := []Histogram{histogramOf(solidFrame(4, 4, 1, 2, 3, 0), t)}

	best, err := selectBestFrame(hists)
	require.NoError(t, err)
	assert.Equal(t, 0, best)
}

func TestAverageHistogramIsTrueMean(t *testing.T) {
	var a, b Histogram
	a[0] = 10
	b[0] = 20
	a[500] = 4

	avg := averageHistogram([]Histogram{a, b})

	assert.Equal(t, 15.0, avg[0])
	assert.Equal(t, 2.0, avg[500])
}

func TestAverageHistogramIdempotentUnderDuplication(t *testing.T) {
	h := histogramOf(solidFrame(6, 6, 50, 60, 70, 0), t)

	avg := averageHistogram([]Histogram{h, h})
	for b := 0; b < HistSize; b++ {
		assert.Equal(t, float64(h[b]), avg[b])
	}
}

func TestSelectBestFrameTieBreakLowestIndex(t *testing.T) {
	h := histogramOf(solidFrame(4, 4, 9, 9, 9, 0), t)

	best, err := selectBestFrame([]Histogram{h, h, h})
	require.NoError(t, err)
	assert.Equal(t, 0, best, "equal errors must not displace an earlier selection")
}

func TestSelectBestFramePicksDominantColor(t *testing.T) {
	// A, B, A: the average is A-dominant, so both A frames score strictly
	// below B and tie with each other. First minimal wins.
	a := histogramOf(solidFrame(8, 8, 200, 0, 0, 0), t)
	b := histogramOf(solidFrame(8, 8, 0, 0, 200, 0), t)

	best, err := selectBestFrame([]Histogram{a, b, a})
	require.NoError(t, err)
	assert.Equal(t, 0, best)
}

func TestSumSquaredErrorZeroAgainstSelf(t *testing.T) {
	h := histogramOf(solidFrame(4, 4, 33, 44, 55, 0), t)
	avg := averageHistogram([]Histogram{h})

	assert.Zero(t, sumSquaredError(&h, &avg))
}
