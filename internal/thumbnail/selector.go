package thumbnail

// averageHistogram computes the bin-wise arithmetic mean of all histograms.
func averageHistogram(hists []Histogram) [HistSize]float64 {
	var avg [HistSize]float64
	for i := range hists {
		for b := 0; b < HistSize; b++ {
			avg[b] += float64(hists[i][b])
		}
	}
	n := float64(len(hists))
	for b := 0; b < HistSize; b++ {
		avg[b] /= n
	}
	return avg
}

// sumSquaredError estimates how far a frame's color distribution sits from
// the sampled set's average. Lower is closer.
func sumSquaredError(hist *Histogram, avg *[HistSize]float64) float64 {
	var sum float64
	for b := 0; b < HistSize; b++ {
		err := avg[b] - float64(hist[b])
		sum += err * err
	}
	return sum
}

// selectBestFrame returns the index of the histogram with the minimum
// sum-of-squared-error against the average. Ties keep the earliest index:
// only a strictly smaller error displaces the current best.
func selectBestFrame(hists []Histogram) (int, error) {
	if len(hists) == 0 {
		return -1, ErrEmptySampleSet
	}

	avg := averageHistogram(hists)

	best := 0
	var minSqErr float64
	for i := range hists {
		sqErr := sumSquaredError(&hists[i], &avg)
		if i == 0 || sqErr < minSqErr {
			best = i
			minSqErr = sqErr
		}
	}
	return best, nil
}
