package relation

import "github.com/pkg/errors"

var (
	// ErrAlreadyNormalized is returned when Normalize runs a second time on
	// the same Relation.
	ErrAlreadyNormalized = errors.New("relation already normalized")
	// ErrEmptyRelation is returned when Normalize runs on a Relation with no
	// rows or no columns.
	ErrEmptyRelation = errors.New("relation has no rows or columns")
	// ErrDegenerateColumn is returned for a constant column when the
	// constant policy is PolicyError.
	ErrDegenerateColumn = errors.New("column has zero-width range")
	// ErrEmptyCategory is returned when a categorical column with no
	// distinct values reaches the distance function.
	ErrEmptyCategory = errors.New("categorical column has no distinct values")
	// ErrShape is returned when rows, header and type metadata disagree on
	// the number of columns.
	ErrShape = errors.New("column count mismatch")
	// ErrMissingTypes is returned when no type metadata is available for a
	// dataset.
	ErrMissingTypes = errors.New("missing column type metadata")
)
