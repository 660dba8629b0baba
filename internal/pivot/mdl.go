package pivot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// CutPoint splits ascending category frequencies into a rare and a common
// group by minimum description length and returns the size of the rare
// group. Ties resolve to the lowest index. An empty input returns 0.
func CutPoint(sorted []int) int {
	freq := make([]float64, len(sorted))
	for i, f := range sorted {
		freq[i] = float64(f)
	}
	best, cut := math.Inf(1), 0
	for i := range freq {
		if dl := descriptionLength(freq[:i], freq[i:]); dl < best {
			best, cut = dl, i
		}
	}
	return cut
}

func descriptionLength(pre, post []float64) float64 {
	postAvg := floats.Sum(post) / float64(len(post))
	dl := math.Log2(1 + postAvg)
	if len(pre) > 0 {
		preAvg := floats.Sum(pre) / float64(len(pre))
		dl += math.Log2(1 + preAvg)
		dl += deviationCost(pre, preAvg)
	}
	return dl + deviationCost(post, postAvg)
}

func deviationCost(group []float64, avg float64) float64 {
	var c float64
	for _, f := range group {
		c += math.Log2(1 + math.Abs(avg-f))
	}
	return c
}

// SortedCategories orders category counts by ascending frequency. Equal
// counts keep their input order.
func SortedCategories(counts []relation.CategoryCount) []relation.CategoryCount {
	out := make([]relation.CategoryCount, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count < out[b].Count })
	return out
}

// Frequencies extracts the counts of already sorted categories.
func Frequencies(counts []relation.CategoryCount) []int {
	out := make([]int, len(counts))
	for i, c := range counts {
		out[i] = c.Count
	}
	return out
}
