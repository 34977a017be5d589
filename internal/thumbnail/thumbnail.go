// Package thumbnail selects a representative still image from a short sample
// of decoded video frames. Instead of seeking to an arbitrary timestamp
// (which risks a black frame, a transition, or a logo card) it samples up to
// MaxSampleFrames frames, histograms their color distributions, and picks
// the frame closest to the bin-wise average by sum of squared error.
//
// Simplified version of the algorithm by Vadim Zaliva
// (http://notbrainsurgery.livejournal.com/29773.html).
package thumbnail

import "fmt"

// ExtractRepresentativeImage runs the full pipeline against one decode
// session: sample frames from the target stream, histogram them, pick the
// frame closest to the average distribution, and convert it to packed RGBA.
// Every sampled frame is released before returning, success or failure.
// The session and converter must not be shared across invocations.
func ExtractRepresentativeImage(session DecodeSession, streamIndex int, conv Converter) (*Image, error) {
	set, err := sampleFrames(session, streamIndex)
	if err != nil {
		return nil, err
	}
	defer set.releaseAll()

	hists := make([]Histogram, set.len())
	for i, f := range set.frames {
		h, err := BuildHistogram(f)
		if err != nil {
			return nil, fmt.Errorf("histogram frame %d: %w", i, err)
		}
		hists[i] = h
	}

	best, err := selectBestFrame(hists)
	if err != nil {
		return nil, err
	}

	return convertFrame(conv, set.frames[best])
}
