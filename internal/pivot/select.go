package pivot

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// SelectPivots picks k reference rows that are far apart under categorical
// distance. It seeds from a random row, takes the row farthest from it,
// then the row farthest from that one. Every further pivot minimizes the
// summed deviation of its distances from the second scan's maximum.
//
// The scans do not exclude already chosen rows and the reference maximum
// is not refreshed between steps, so pivots may repeat; callers get k
// indexes regardless.
func SelectPivots(rel *relation.Relation, k int, distinct []int, rng *rand.Rand) ([]int, error) {
	n := rel.NumRows()
	if n == 0 {
		return nil, errors.WithStack(relation.ErrEmptyRelation)
	}
	if k < 2 {
		return nil, errors.Errorf("need at least 2 pivots, got %d", k)
	}
	var (
		rows = rel.Instances()
		cat  = rel.Categorical()
		ids  = make([]int, k)
	)
	dist := func(i, j int) (float64, error) {
		return relation.Distance(rows[i], rows[j], cat, distinct)
	}

	seed := rng.Intn(n)
	maxDist, err := dist(0, seed)
	if err != nil {
		return nil, err
	}
	for i := 1; i < n; i++ {
		d, err := dist(i, seed)
		if err != nil {
			return nil, err
		}
		if d > maxDist {
			maxDist, ids[0] = d, i
		}
	}

	maxDist, err = dist(ids[1], ids[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < n; i++ {
		d, err := dist(i, ids[0])
		if err != nil {
			return nil, err
		}
		if d > maxDist {
			maxDist, ids[1] = d, i
		}
	}

	for next := 2; next < k; next++ {
		minErr := math.Inf(1)
		for i := 0; i < n; i++ {
			var e float64
			for _, id := range ids[:next] {
				if i == id {
					break
				}
				d, err := dist(i, id)
				if err != nil {
					return nil, err
				}
				e += math.Abs(maxDist - d)
			}
			if e < minErr {
				minErr, ids[next] = e, i
			}
		}
	}
	return ids, nil
}
