package relation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/parser"
)

func colorTable() *parser.Table {
	return &parser.Table{
		Name:   "colors",
		Header: []string{"color", "price", "outlier"},
		Records: [][]string{
			{"red", "10", "no"},
			{"blue", "12.5", "no"},
			{"red", "20", "yes"},
		},
	}
}

func TestFromTable(t *testing.T) {
	r, err := FromTable(colorTable(), ColumnTypeSpec{"cat", "num"}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "colors", r.Name)
	assert.Equal(t, []string{"color", "price"}, r.Header)
	assert.True(t, r.HasLabel)
	assert.Equal(t, "outlier", r.LabelName)
	assert.Equal(t, []Label{Inlier, Inlier, Outlier}, r.Labels())
	assert.Equal(t, []float64{0, 1, 0}, r.Column(0))
	assert.Equal(t, 2, r.DistinctCount(0))

	d := r.Dictionary(0)
	require.NotNil(t, d)
	s, ok := d.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "blue", s)
	_, ok = d.Label(1.5)
	assert.False(t, ok)
	assert.Nil(t, r.Dictionary(1))
}

func TestFromTableNumericCategoriesKeepCodes(t *testing.T) {
	tbl := &parser.Table{
		Header:  []string{"size", "class"},
		Records: [][]string{{"3", "0"}, {"7", "1"}},
	}
	r, err := FromTable(tbl, ColumnTypeSpec{"cat"}, LoadOptions{LabelColumn: "CLASS"})
	require.NoError(t, err)
	assert.Nil(t, r.Dictionary(0))
	assert.Equal(t, []float64{3, 7}, r.Column(0))
	assert.Equal(t, []Label{Inlier, Outlier}, r.Labels())
}

func TestFromTableErrors(t *testing.T) {
	_, err := FromTable(colorTable(), ColumnTypeSpec{"cat"}, LoadOptions{})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromTable(colorTable(), nil, LoadOptions{})
	assert.ErrorIs(t, err, ErrMissingTypes)

	_, err = FromTable(colorTable(), ColumnTypeSpec{"cat", "num"}, LoadOptions{LabelColumn: "target"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")

	for _, cell := range []string{"?", "NaN", "Inf", "+Inf", "-infinity"} {
		tbl := colorTable()
		tbl.Records[1][1] = cell
		_, err = FromTable(tbl, ColumnTypeSpec{"cat", "num"}, LoadOptions{})
		require.Error(t, err, cell)
		assert.Contains(t, err.Error(), "not numeric", cell)
	}
}

func TestFromTableNaNCategoryIsText(t *testing.T) {
	tbl := &parser.Table{
		Header:  []string{"c", "x", "outlier"},
		Records: [][]string{{"NaN", "1", "no"}, {"NaN", "2", "no"}, {"1", "3", "no"}, {"1", "4", "yes"}},
	}
	r, err := FromTable(tbl, ColumnTypeSpec{"cat", "num"}, LoadOptions{})
	require.NoError(t, err)
	require.NotNil(t, r.Dictionary(0))
	assert.Equal(t, []float64{0, 0, 1, 1}, r.Column(0))
	assert.Equal(t, 2, r.DistinctCount(0))
	for _, c := range r.CategoryCounts(0) {
		assert.Equal(t, 2, c.Count)
	}

	d, err := r.Distance(0, 0)
	require.NoError(t, err)
	assert.Zero(t, d)

	require.NoError(t, r.Normalize(nil))
	for _, v := range r.Column(1) {
		assert.True(t, v >= 0 && v <= 1, v)
	}
}

func TestFromTableLastColumnLabelAndNoLabel(t *testing.T) {
	tbl := &parser.Table{
		Header:  []string{"a", "b", "target"},
		Records: [][]string{{"x", "1", "2"}},
	}
	r, err := FromTable(tbl, ColumnTypeSpec{"cat", "num"}, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "target", r.LabelName)
	assert.Equal(t, []Label{2}, r.Labels())

	r, err = FromTable(tbl, ColumnTypeSpec{"cat", "num", "num"}, LoadOptions{NoLabel: true})
	require.NoError(t, err)
	assert.False(t, r.HasLabel)
	assert.Equal(t, []Label{Unknown}, r.Labels())
}

func TestFromTableStandardizeLabels(t *testing.T) {
	tbl := &parser.Table{
		Header: []string{"a", "class"},
		Records: [][]string{
			{"x", "normal"}, {"y", "attack"}, {"x", "normal"}, {"z", "normal"},
		},
	}
	r, err := FromTable(tbl, ColumnTypeSpec{"cat"}, LoadOptions{StandardizeLabels: true})
	require.NoError(t, err)
	assert.Equal(t, []Label{Inlier, Outlier, Inlier, Inlier}, r.Labels())
}

func TestFromTableDecimalComma(t *testing.T) {
	tbl := &parser.Table{
		Header:  []string{"price", "outlier"},
		Records: [][]string{{"1.234,5", "no"}},
	}
	r, err := FromTable(tbl, ColumnTypeSpec{"num"}, LoadOptions{DecimalSeparator: ','})
	require.NoError(t, err)
	assert.Equal(t, 1234.5, r.At(0, 0))
}

func TestParseLabel(t *testing.T) {
	assert.Equal(t, Inlier, ParseLabel(" No "))
	assert.Equal(t, Outlier, ParseLabel("yes"))
	assert.Equal(t, Outlier, ParseLabel("anomaly"))
	assert.Equal(t, Label(0), ParseLabel("0"))
	assert.Equal(t, Label(-1), ParseLabel("-1"))
}

func TestSave(t *testing.T) {
	r, err := FromTable(colorTable(), ColumnTypeSpec{"cat", "num"}, LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, r.Normalize(nil))

	var buf bytes.Buffer
	require.NoError(t, r.Save(&buf, SaveOptions{}))
	assert.Equal(t, "color,price,outlier\n0,10,no\n1,12.5,no\n0,20,yes\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Save(&buf, SaveOptions{Delimiter: ';', RestoreCategories: true}))
	assert.Equal(t, "color;price;outlier\nred;10;no\nblue;12.5;no\nred;20;yes\n", buf.String())
}
