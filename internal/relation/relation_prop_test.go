package relation

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/floats"
)

const testRandomSeed int64 = 7823434

func testParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(testRandomSeed)
	parameters.MinSuccessfulTests = 500
	return parameters
}

func TestDistanceProperties(t *testing.T) {
	var (
		cat      = []bool{true, true, false, true}
		distinct = []int{4, 2, 0, 7}
		props    = gopter.NewProperties(testParameters())
		genRow   = gen.SliceOfN(4, gen.IntRange(0, 3)).Map(func(v []int) *Instance {
			values := make([]float64, len(v))
			for i, x := range v {
				values[i] = float64(x)
			}
			return NewInstance(0, values, Inlier)
		})
	)

	props.Property("distance is symmetric", prop.ForAll(
		func(a, b *Instance) (bool, error) {
			ab, err := Distance(a, b, cat, distinct)
			if err != nil {
				return false, err
			}
			ba, err := Distance(b, a, cat, distinct)
			if err != nil {
				return false, err
			}
			return ab == ba, nil
		},
		genRow, genRow,
	))

	props.Property("distance is zero iff categorical columns agree", prop.ForAll(
		func(a, b *Instance) (bool, error) {
			d, err := Distance(a, b, cat, distinct)
			if err != nil {
				return false, err
			}
			agree := true
			for j := range cat {
				if cat[j] && a.At(j) != b.At(j) {
					agree = false
				}
			}
			return (d == 0) == agree && d >= 0, nil
		},
		genRow, genRow,
	))

	props.TestingRun(t)
}

func TestNormalizeRangeProperty(t *testing.T) {
	props := gopter.NewProperties(testParameters())

	props.Property("numeric values land in [0,1] with min at 0 and max at 1", prop.ForAll(
		func(col []float64) (bool, error) {
			rs := make([]*Instance, len(col))
			for i, v := range col {
				rs[i] = NewInstance(i, []float64{v}, Inlier)
			}
			r, err := New("p", nil, rs, ColumnTypeSpec{"num"}, Options{})
			if err != nil {
				return false, err
			}
			if err := r.Normalize(nil); err != nil {
				return false, err
			}
			got := r.Column(0)
			lo, hi := floats.MinIdx(col), floats.MaxIdx(col)
			if col[lo] == col[hi] {
				return floats.Max(got) == 0 && floats.Min(got) == 0, nil
			}
			if got[lo] != 0 || got[hi] != 1 {
				return false, nil
			}
			return floats.Min(got) >= 0 && floats.Max(got) <= 1, nil
		},
		gen.SliceOfN(12, gen.Float64Range(-1e3, 1e3)),
	))

	props.TestingRun(t)
}
