package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransformer struct {
	seen []float64
	err  error
}

func (rt *recordingTransformer) TransformCategorical(r *Relation) error {
	rt.seen = r.Column(1)
	return rt.err
}

func TestNormalizeNumericRange(t *testing.T) {
	r, err := New("x", nil, rows(
		[]float64{0, 10},
		[]float64{1, 30},
		[]float64{0, 20},
	), ColumnTypeSpec{"cat", "num"}, Options{})
	require.NoError(t, err)

	rt := &recordingTransformer{}
	require.NoError(t, r.Normalize(rt))

	// numeric columns are rescaled before the transformer sees the relation
	assert.Equal(t, []float64{0, 1, 0.5}, rt.seen)
	assert.Equal(t, []float64{0, 1, 0}, r.Column(0))
	assert.True(t, r.IsNormalized())
	assert.Equal(t, []float64{0, 10}, r.Instance(0).Original())
}

func TestNormalizeIsOneShot(t *testing.T) {
	r, err := New("x", nil, rows([]float64{1}, []float64{2}), ColumnTypeSpec{"num"}, Options{})
	require.NoError(t, err)
	require.NoError(t, r.Normalize(nil))

	err = r.Normalize(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyNormalized)
	assert.Equal(t, []float64{0, 1}, r.Column(0))
}

func TestNormalizeFailedPassStillCountsAsDone(t *testing.T) {
	r, err := New("x", nil, rows([]float64{1, 1}, []float64{2, 2}), ColumnTypeSpec{"cat", "num"}, Options{})
	require.NoError(t, err)
	rt := &recordingTransformer{err: assert.AnError}

	assert.ErrorIs(t, r.Normalize(rt), assert.AnError)
	assert.ErrorIs(t, r.Normalize(rt), ErrAlreadyNormalized)
}

func TestNormalizeEmpty(t *testing.T) {
	r, err := New("x", nil, nil, ColumnTypeSpec{"num"}, Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Normalize(nil), ErrEmptyRelation)
}

func TestNormalizeConstantColumnPolicies(t *testing.T) {
	tests := []struct {
		policy  ConstantPolicy
		want    []float64
		wantErr error
	}{
		{"", []float64{0, 0}, nil},
		{PolicyZero, []float64{0, 0}, nil},
		{PolicySkip, []float64{7, 7}, nil},
		{PolicyError, nil, ErrDegenerateColumn},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			r, err := New("x", []string{"flat"}, rows([]float64{7}, []float64{7}), ColumnTypeSpec{"num"}, Options{ConstantPolicy: tt.policy})
			require.NoError(t, err)
			err = r.Normalize(nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "flat")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Column(0))
		})
	}
}

func TestParseConstantPolicy(t *testing.T) {
	p, err := ParseConstantPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyZero, p)

	p, err = ParseConstantPolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParseConstantPolicy("clamp")
	assert.Error(t, err)
}
