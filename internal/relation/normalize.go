package relation

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// ConstantPolicy selects how a column with max == min is rescaled.
type ConstantPolicy string

const (
	// PolicyZero maps every value of a constant column to 0.
	PolicyZero ConstantPolicy = "zero"
	// PolicySkip leaves a constant column untouched.
	PolicySkip ConstantPolicy = "skip"
	// PolicyError fails with ErrDegenerateColumn.
	PolicyError ConstantPolicy = "error"
)

// ParseConstantPolicy validates a policy name.
func ParseConstantPolicy(s string) (ConstantPolicy, error) {
	switch ConstantPolicy(s) {
	case PolicyZero, PolicySkip, PolicyError:
		return ConstantPolicy(s), nil
	case "":
		return PolicyZero, nil
	default:
		return "", errors.Errorf("invalid constant policy %q (use zero|skip|error)", s)
	}
}

// CategoricalTransformer rewrites the categorical columns of a relation into
// continuous values. It runs inside Normalize, after numeric columns have
// been rescaled.
type CategoricalTransformer interface {
	TransformCategorical(r *Relation) error
}

// Normalize min-max scales every numeric column to [0,1], then hands the
// relation to t (if non-nil) for the categorical columns. It may run once.
func (r *Relation) Normalize(t CategoricalTransformer) error {
	if r.normalized {
		return errors.WithStack(ErrAlreadyNormalized)
	}
	if r.numRows == 0 || r.numCols == 0 {
		return errors.WithStack(ErrEmptyRelation)
	}
	// Marked before any write: a failed pass leaves partially rewritten rows
	// that must not be normalized again.
	r.normalized = true

	if err := r.RescaleColumns(false); err != nil {
		return err
	}
	if t != nil {
		if err := t.TransformCategorical(r); err != nil {
			return err
		}
	}
	return nil
}

// RescaleColumns min-max scales every column whose categorical flag equals
// categorical.
func (r *Relation) RescaleColumns(categorical bool) error {
	for j := 0; j < r.numCols; j++ {
		if r.categorical[j] != categorical {
			continue
		}
		if err := r.rescale(j); err != nil {
			return err
		}
	}
	return nil
}

func (r *Relation) rescale(j int) error {
	if r.numRows == 0 {
		return nil
	}
	col := r.Column(j)
	lo, hi := floats.Min(col), floats.Max(col)
	width := hi - lo
	if width == 0 {
		switch r.opt.ConstantPolicy {
		case PolicySkip:
			r.opt.Logger.Debug("constant column left unscaled", zap.Int("column", j), zap.Float64("value", lo))
			return nil
		case PolicyError:
			return errors.Wrapf(ErrDegenerateColumn, "column %d (%s)", j, r.columnName(j))
		default:
			r.opt.Logger.Debug("constant column mapped to zero", zap.Int("column", j), zap.Float64("value", lo))
			for _, in := range r.instances {
				in.SetAt(j, 0)
			}
			return nil
		}
	}
	for _, in := range r.instances {
		in.SetAt(j, (in.At(j)-lo)/width)
	}
	return nil
}

func (r *Relation) columnName(j int) string {
	if j < len(r.Header) {
		return r.Header[j]
	}
	return fmt.Sprintf("col%d", j)
}
