package relation

import (
	"math"

	"github.com/pkg/errors"
)

// Distance is the weighted soft Hamming distance between two rows restricted
// to categorical columns. A mismatch on column j costs 1 - 1/distinct[j]^2,
// so disagreement on a low-cardinality column weighs less than on a
// high-cardinality one. The result is the square root of the summed cost.
func Distance(a, b *Instance, categorical []bool, distinct []int) (float64, error) {
	var sum float64
	for j := range a.Values {
		if !categorical[j] || a.Values[j] == b.Values[j] {
			continue
		}
		n := distinct[j]
		if n <= 0 {
			return 0, errors.Wrapf(ErrEmptyCategory, "column %d", j)
		}
		sum += 1 - 1/math.Pow(float64(n), 2)
	}
	return math.Sqrt(sum), nil
}

// Distance measures rows i and k of the relation with its own distinct counts.
func (r *Relation) Distance(i, k int) (float64, error) {
	return Distance(r.instances[i], r.instances[k], r.categorical, r.DistinctCounts())
}
