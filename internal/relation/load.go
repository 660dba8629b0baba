package relation

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/parser"
)

// DefaultLabelColumn is the column looked up when no label column is named.
const DefaultLabelColumn = "outlier"

// LoadOptions controls how a parsed table becomes a Relation.
type LoadOptions struct {
	Options
	// LabelColumn names the ground-truth column. Empty means "outlier" if
	// present, else the last column.
	LabelColumn string
	// NoLabel treats every column as data; all labels are Unknown.
	NoLabel bool
	// StandardizeLabels maps the majority label value to inlier and the
	// other one to outlier before label parsing.
	StandardizeLabels bool
	// DecimalSeparator for numeric cells; 0 means '.'.
	DecimalSeparator rune
}

// Dictionary maps the numeric codes of a text categorical column back to
// their display values.
type Dictionary struct {
	labels []string
	codes  map[string]float64
}

func newDictionary() *Dictionary {
	return &Dictionary{codes: make(map[string]float64)}
}

// Code returns the code for s, assigning the next one on first sight.
func (d *Dictionary) Code(s string) float64 {
	if c, ok := d.codes[s]; ok {
		return c
	}
	c := float64(len(d.labels))
	d.codes[s] = c
	d.labels = append(d.labels, s)
	return c
}

// Label returns the display value for code.
func (d *Dictionary) Label(code float64) (string, bool) {
	i := int(code)
	if float64(i) != code || i < 0 || i >= len(d.labels) {
		return "", false
	}
	return d.labels[i], true
}

// Len returns the number of distinct display values.
func (d *Dictionary) Len() int { return len(d.labels) }

// FromTable builds a Relation from a parsed table. spec describes the data
// columns in order, label column excluded.
func FromTable(t *parser.Table, spec ColumnTypeSpec, opt LoadOptions) (*Relation, error) {
	labelIdx := -1
	if !opt.NoLabel && len(t.Header) > 0 {
		labelIdx = LabelIndex(t, opt.LabelColumn)
		if labelIdx < 0 {
			return nil, errors.Errorf("label column %q not found", opt.LabelColumn)
		}
	}
	var dataCols []int
	var header []string
	for j, h := range t.Header {
		if j == labelIdx {
			continue
		}
		dataCols = append(dataCols, j)
		header = append(header, h)
	}
	if len(spec) == 0 {
		return nil, errors.Wrapf(ErrMissingTypes, "dataset %s", t.Name)
	}
	if len(spec) != len(dataCols) {
		return nil, errors.Wrapf(ErrShape, "dataset %s has %d data columns, types describe %d", t.Name, len(dataCols), len(spec))
	}

	categorical := spec.Categorical()
	dicts := make([]*Dictionary, len(dataCols))
	for k, j := range dataCols {
		if categorical[k] && !allNumeric(t.Records, j, opt.DecimalSeparator) {
			dicts[k] = newDictionary()
		}
	}

	var labelMap map[string]string
	if opt.StandardizeLabels && labelIdx >= 0 {
		labelMap = standardizeLabels(t.Records, labelIdx)
	}

	rows := make([]*Instance, len(t.Records))
	values := make([]float64, len(dataCols))
	for i, rec := range t.Records {
		for k, j := range dataCols {
			cell := strings.TrimSpace(rec[j])
			if dicts[k] != nil {
				values[k] = dicts[k].Code(cell)
				continue
			}
			x, ok := parseNumber(cell, opt.DecimalSeparator)
			if !ok {
				return nil, errors.Errorf("row %d, column %q: %q is not numeric", i+1, t.Header[j], cell)
			}
			values[k] = x
		}
		label := Unknown
		if labelIdx >= 0 {
			raw := strings.TrimSpace(rec[labelIdx])
			if mapped, ok := labelMap[raw]; ok {
				raw = mapped
			}
			label = ParseLabel(raw)
		}
		rows[i] = NewInstance(i, values, label)
	}

	r, err := New(t.Name, header, rows, spec, opt.Options)
	if err != nil {
		return nil, err
	}
	r.dicts = dicts
	r.HasLabel = labelIdx >= 0
	if r.HasLabel {
		r.LabelName = t.Header[labelIdx]
	}
	return r, nil
}

// ParseLabel maps a raw label cell: integer text becomes that integer,
// "no" becomes Inlier and anything else Outlier.
func ParseLabel(s string) Label {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Label(n)
	}
	if strings.EqualFold(s, "no") {
		return Inlier
	}
	return Outlier
}

// LabelIndex locates the label column of t: the named column, else
// "outlier", else the last column. It returns -1 only when name is given
// and absent.
func LabelIndex(t *parser.Table, name string) int {
	if name != "" {
		return t.Column(name)
	}
	if j := t.Column(DefaultLabelColumn); j >= 0 {
		return j
	}
	return len(t.Header) - 1
}

// standardizeLabels maps the most frequent raw label to "no" and the
// second one to "yes". Ties keep first-appearance order.
func standardizeLabels(records [][]string, idx int) map[string]string {
	counts := map[string]int{}
	var order []string
	for _, rec := range records {
		v := strings.TrimSpace(rec[idx])
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) < 2 {
		return nil
	}
	major, minor := order[0], order[1]
	if counts[minor] > counts[major] {
		major, minor = minor, major
	}
	return map[string]string{major: "no", minor: "yes"}
}

func allNumeric(records [][]string, j int, dec rune) bool {
	for _, rec := range records {
		if _, ok := parseNumber(strings.TrimSpace(rec[j]), dec); !ok {
			return false
		}
	}
	return true
}

// parseNumber accepts finite numbers only; NaN and infinities are rejected.
func parseNumber(s string, dec rune) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if dec != 0 && dec != '.' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, string(dec), ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
