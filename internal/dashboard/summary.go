package dashboard

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of per-window totals in the history.
// P90 is the nearest-rank 90th percentile, so it is always one of the
// observed totals.
type Summary struct {
	Windows int
	Sum     int
	Mean    float64
	Median  float64
	P90     float64
	Max     float64
}

// Summarize computes the summary of totals. An empty input yields a zero Summary.
func Summarize(totals []int) Summary {
	if len(totals) == 0 {
		return Summary{}
	}
	data := stats.LoadRawData(totals)

	s := Summary{Windows: len(totals)}
	for _, n := range totals {
		s.Sum += n
	}
	// Errors are only returned for empty input, which is handled above.
	s.Mean, _ = stats.Mean(data)
	s.Median, _ = stats.Median(data)
	s.P90, _ = stats.PercentileNearestRank(data, 90)
	s.Max, _ = stats.Max(data)
	return s
}
