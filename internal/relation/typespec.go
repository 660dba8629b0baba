package relation

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ColumnType is the declared type of one data column. "cat" and "object"
// mark a categorical column; any other value is treated as numeric.
type ColumnType string

const (
	TypeCategorical ColumnType = "cat"
	TypeObject      ColumnType = "object"
	TypeNumeric     ColumnType = "num"
)

// IsCategorical reports whether the type marks a categorical column.
func (t ColumnType) IsCategorical() bool {
	switch ColumnType(strings.ToLower(string(t))) {
	case TypeCategorical, TypeObject:
		return true
	}
	return false
}

// ColumnTypeSpec holds the type of every data column, label column excluded.
type ColumnTypeSpec []ColumnType

// Uniform returns a spec of n columns of the same type.
func Uniform(t ColumnType, n int) ColumnTypeSpec {
	s := make(ColumnTypeSpec, n)
	for i := range s {
		s[i] = t
	}
	return s
}

// Categorical returns the per-column categorical flags.
func (s ColumnTypeSpec) Categorical() []bool {
	out := make([]bool, len(s))
	for i, t := range s {
		out[i] = t.IsCategorical()
	}
	return out
}

// TypeMap maps a dataset name to its column types. An entry whose types
// contain "..." declares every column with its first type.
type TypeMap map[string][]string

// LoadTypeMap reads a YAML (or JSON) type map file.
func LoadTypeMap(path string) (TypeMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read type map")
	}
	var m TypeMap
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "parse type map")
	}
	return m, nil
}

var versionSuffix = regexp.MustCompile(`_v[0-9]{1,2}`)

// DatasetKey derives the type map key from a dataset path: the file stem
// with any _vNN version marker removed.
func DatasetKey(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return versionSuffix.ReplaceAllString(base, "")
}

// Lookup returns the column types for the dataset at path, expanding the
// "..." shorthand to numCols columns.
func (m TypeMap) Lookup(path string, numCols int) (ColumnTypeSpec, bool) {
	types, ok := m[DatasetKey(path)]
	if !ok || len(types) == 0 {
		return nil, false
	}
	for _, t := range types {
		if t == "..." {
			return Uniform(ColumnType(types[0]), numCols), true
		}
	}
	spec := make(ColumnTypeSpec, len(types))
	for i, t := range types {
		spec[i] = ColumnType(t)
	}
	return spec, true
}
