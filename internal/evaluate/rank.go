// Package evaluate turns per-row anomaly scores produced by an external
// detector into rankings, top-n detections and result records.
package evaluate

import (
	"sort"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// Ranking returns the 1-based rank of every value. With ascending set the
// smallest value ranks first, otherwise the largest. Ties keep input order.
func Ranking(values []float64, ascending bool) []int {
	idx := order(values, !ascending)
	ranks := make([]int, len(values))
	for r, i := range idx {
		ranks[i] = r + 1
	}
	return ranks
}

// TopN returns the indexes of the n best values, largest first when
// descending is set. n is clamped to [0, len(values)].
func TopN(values []float64, n int, descending bool) []int {
	if n < 0 {
		n = 0
	}
	if n > len(values) {
		n = len(values)
	}
	return order(values, descending)[:n]
}

func order(values []float64, descending bool) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})
	return idx
}

// Detect marks, for every row, whether the prediction agrees with the
// ground truth: predicted rows are correct when they are outliers, the
// others when they are inliers.
func Detect(labels []relation.Label, predicted []int) []bool {
	set := make(map[int]struct{}, len(predicted))
	for _, i := range predicted {
		set[i] = struct{}{}
	}
	out := make([]bool, len(labels))
	for i, l := range labels {
		if _, ok := set[i]; ok {
			out[i] = l == relation.Outlier
		} else {
			out[i] = l == relation.Inlier
		}
	}
	return out
}

// CountOutliers returns the number of rows labelled Outlier.
func CountOutliers(labels []relation.Label) int {
	n := 0
	for _, l := range labels {
		if l == relation.Outlier {
			n++
		}
	}
	return n
}
