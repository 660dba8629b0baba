package pivot

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/rand"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

const (
	red   = 0
	blue  = 1
	green = 2
)

func colorRelation(t *testing.T) *relation.Relation {
	t.Helper()
	colors := []float64{red, red, blue, red, green, red, blue, red, red, red}
	var rows []*relation.Instance
	for i, c := range colors {
		rows = append(rows, relation.NewInstance(i, []float64{c, 10 + float64(i)}, relation.Inlier))
	}
	r, err := relation.New("colors", []string{"cat_color", "num_price"}, rows,
		relation.ColumnTypeSpec{"cat", "num"}, relation.Options{})
	require.NoError(t, err)
	return r
}

func TestTransformSingleColumnColors(t *testing.T) {
	r := colorRelation(t)
	tr := NewTransformer(1, nil)
	require.NoError(t, r.Normalize(tr))

	res := tr.Result()
	assert.Equal(t, PathSingle, res.Path)
	assert.Equal(t, 2, res.CutPoint)
	assert.Equal(t, []float64{green, blue}, res.PivotValues)

	want := []float64{1, 1, 0, 1, 0, 1, 0, 1, 1, 1}
	if diff := cmp.Diff(want, r.Column(0)); diff != "" {
		t.Fatalf("color column mismatch (-want +got):\n%s", diff)
	}
	price := r.Column(1)
	assert.Equal(t, 0.0, price[0])
	assert.Equal(t, 1.0, price[9])
	assert.InDelta(t, 1.0/9, price[1], 1e-12)
}

func TestTransformSingleColumnRawDistances(t *testing.T) {
	// skip rescale to look at the summed distances directly
	r := colorRelation(t)
	tr := NewTransformer(1, nil)
	require.NoError(t, tr.single(r, 0, r.DistinctCounts(), zap.NewNop()))

	w := math.Sqrt(1 - 1.0/9)
	assert.InDelta(t, 2*w, r.At(0, 0), 1e-12)
	assert.InDelta(t, w, r.At(2, 0), 1e-12)
	assert.InDelta(t, w, r.At(4, 0), 1e-12)
}

func mixedRelation(t *testing.T) *relation.Relation {
	t.Helper()
	data := [][]float64{
		{0, 1.5, 0, 3},
		{1, 2.5, 0, 3},
		{2, 0.5, 1, 1},
		{0, 9.0, 2, 3},
		{1, 4.0, 2, 0},
		{0, 3.0, 0, 3},
		{3, 7.5, 1, 2},
	}
	var rows []*relation.Instance
	for i, v := range data {
		rows = append(rows, relation.NewInstance(i, v, relation.Label(i%2)))
	}
	r, err := relation.New("mixed", nil, rows,
		relation.ColumnTypeSpec{"cat", "num", "object", "cat"}, relation.Options{})
	require.NoError(t, err)
	return r
}

func TestTransformMultiColumn(t *testing.T) {
	r := mixedRelation(t)
	tr := NewTransformer(42, nil)
	require.NoError(t, r.Normalize(tr))

	res := tr.Result()
	require.Equal(t, PathMulti, res.Path)
	require.Len(t, res.PivotRows, 3)

	rows, cols := r.Features().Dims()
	assert.Equal(t, 7, rows)
	assert.Equal(t, 4, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := r.At(i, j)
			assert.True(t, v >= 0 && v <= 1, "value %v at (%d,%d)", v, i, j)
		}
	}
	// each pivot sits at distance zero from itself in its own column
	for k, j := range r.CategoricalColumns() {
		assert.Zero(t, r.At(res.PivotRows[k], j))
	}
	assert.Equal(t, []relation.Label{0, 1, 0, 1, 0, 1, 0}, r.Labels())
	assert.Equal(t, []bool{true, false, true, true}, r.Categorical())
}

func TestTransformMultiColumnIsDeterministic(t *testing.T) {
	a, b := mixedRelation(t), mixedRelation(t)
	ta, tb := NewTransformer(7, nil), NewTransformer(7, nil)
	require.NoError(t, a.Normalize(ta))
	require.NoError(t, b.Normalize(tb))

	assert.Equal(t, ta.Result(), tb.Result())
	if diff := cmp.Diff(a.Features().RawMatrix().Data, b.Features().RawMatrix().Data); diff != "" {
		t.Fatalf("transform not reproducible (-a +b):\n%s", diff)
	}
}

func TestTransformNoCategoricalColumns(t *testing.T) {
	rows := []*relation.Instance{
		relation.NewInstance(0, []float64{1}, relation.Inlier),
		relation.NewInstance(1, []float64{3}, relation.Inlier),
	}
	r, err := relation.New("num", nil, rows, relation.ColumnTypeSpec{"num"}, relation.Options{})
	require.NoError(t, err)
	tr := NewTransformer(1, nil)
	require.NoError(t, r.Normalize(tr))
	assert.Equal(t, PathNone, tr.Result().Path)
	assert.Equal(t, []float64{0, 1}, r.Column(0))
}

func TestTransformWarnsOnFewRows(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rows := []*relation.Instance{
		relation.NewInstance(0, []float64{0, 0, 1}, relation.Inlier),
		relation.NewInstance(1, []float64{1, 1, 0}, relation.Outlier),
	}
	r, err := relation.New("tiny", nil, rows, relation.ColumnTypeSpec{"cat", "cat", "cat"}, relation.Options{})
	require.NoError(t, err)

	tr := NewTransformer(3, zap.New(core))
	require.NoError(t, r.Normalize(tr))
	assert.Len(t, tr.Result().PivotRows, 3)
	assert.Equal(t, 1, logs.FilterMessageSnippet("fewer rows").Len())
}

func TestSelectPivotsErrors(t *testing.T) {
	r := mixedRelation(t)
	rng := rand.New(rand.NewSource(1))
	_, err := SelectPivots(r, 1, r.DistinctCounts(), rng)
	assert.Error(t, err)

	empty, err := relation.New("e", nil, nil, relation.ColumnTypeSpec{"cat", "cat"}, relation.Options{})
	require.NoError(t, err)
	_, err = SelectPivots(empty, 2, empty.DistinctCounts(), rng)
	assert.ErrorIs(t, err, relation.ErrEmptyRelation)
}

func TestSelectPivotsFirstTwoAreFarApart(t *testing.T) {
	r := mixedRelation(t)
	distinct := r.DistinctCounts()
	for seed := uint64(0); seed < 20; seed++ {
		ids, err := SelectPivots(r, 2, distinct, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		d, err := relation.Distance(r.Instance(ids[0]), r.Instance(ids[1]), r.Categorical(), distinct)
		require.NoError(t, err)
		for i := 0; i < r.NumRows(); i++ {
			di, err := relation.Distance(r.Instance(i), r.Instance(ids[0]), r.Categorical(), distinct)
			require.NoError(t, err)
			assert.LessOrEqual(t, di, d, "seed %d row %d", seed, i)
		}
	}
}
