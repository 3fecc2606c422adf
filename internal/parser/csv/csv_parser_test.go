package csv_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	pcsv "github.com/aneroid/ergast-f1db-extra/internal/parser/csv"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

func column(t *testing.T, tbl *table.Table, name string) *table.Column {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %q", name)
	return c
}

// TestParse_RawMissingTokens verifies only "" and \N are missing; other
// null-looking tokens stay literal strings.
func TestParse_RawMissingTokens(t *testing.T) {
	t.Parallel()

	in := "a,b,c,d\n" +
		`1,\N,NA,null` + "\n" +
		`,N/A,nan,"\N"` + "\n"

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, tbl.ColumnNames())
	assert.Equal(t, []any{"1", nil}, column(t, tbl, "a").Values)
	assert.Equal(t, []any{nil, "N/A"}, column(t, tbl, "b").Values)
	assert.Equal(t, []any{"NA", "nan"}, column(t, tbl, "c").Values)
	assert.Equal(t, []any{"null", nil}, column(t, tbl, "d").Values)
	for _, c := range tbl.Columns() {
		assert.Equal(t, dtype.KindString, c.Kind)
	}
}

func TestParse_Typed(t *testing.T) {
	t.Parallel()

	in := "driverId,number,code,dob,points\n" +
		`1,44,HAM,1985-01-07,10.5` + "\n" +
		`2,\N,007,\N,\N` + "\n"

	p := pcsv.NewParser(pcsv.Options{
		Types: map[string]dtype.Kind{
			"driverId": {Base: dtype.Signed, Bits: 64},
			"number":   {Base: dtype.Signed, Bits: 32, Nullable: true},
			"code":     dtype.KindString,
			"points":   {Base: dtype.Float, Bits: 64},
			"absent":   {Base: dtype.Bool},
		},
		ParseDates: []string{"dob"},
	})
	tbl, err := p.Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []any{int64(1), int64(2)}, column(t, tbl, "driverId").Values)
	assert.Equal(t, []any{int32(44), nil}, column(t, tbl, "number").Values)
	assert.Equal(t, []any{"HAM", "007"}, column(t, tbl, "code").Values)

	dob := column(t, tbl, "dob")
	assert.Equal(t, dtype.KindDateTime, dob.Kind)
	assert.Equal(t, []any{time.Date(1985, 1, 7, 0, 0, 0, 0, time.UTC), nil}, dob.Values)

	pts := column(t, tbl, "points")
	assert.Equal(t, 10.5, pts.Values[0])
	assert.True(t, math.IsNaN(pts.Values[1].(float64)))
}

func TestParse_TypedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		opt   pcsv.Options
		want  error
		wantS string
	}{
		{
			name: "missing in non-nullable int",
			in:   "id\n1\n\\N\n",
			opt:  pcsv.Options{Types: map[string]dtype.Kind{"id": {Base: dtype.Signed, Bits: 64}}},
			want: dtype.ErrMissingValue,
		},
		{
			name:  "bad int",
			in:    "id\n1\nx\n",
			opt:   pcsv.Options{Types: map[string]dtype.Kind{"id": {Base: dtype.Signed, Bits: 64, Nullable: true}}},
			want:  dtype.ErrInvalidValue,
			wantS: `line 3 column "id"`,
		},
		{
			name: "parse dates column absent",
			in:   "id\n1\n",
			opt:  pcsv.Options{ParseDates: []string{"dob"}},
			want: table.ErrColumnNotFound,
		},
		{
			name: "bad date",
			in:   "dob\n07/01/1985\n",
			opt:  pcsv.Options{ParseDates: []string{"dob"}},
			want: dtype.ErrInvalidValue,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := pcsv.NewParser(tc.opt).Parse(strings.NewReader(tc.in))
			require.ErrorIs(t, err, tc.want)
			if tc.wantS != "" {
				assert.ErrorContains(t, err, tc.wantS)
			}
		})
	}
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	_, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty input")

	_, err = pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorContains(t, err, "duplicate column")

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}

func TestParse_BOMAndDelimiter(t *testing.T) {
	t.Parallel()

	in := "\ufeffcircuitId;name\n1;Albert Park\n"
	tbl, err := pcsv.NewParser(pcsv.Options{Comma: ';'}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"circuitId", "name"}, tbl.ColumnNames())
	assert.Equal(t, []any{"Albert Park"}, column(t, tbl, "name").Values)
}

func TestParse_CustomNAValues(t *testing.T) {
	t.Parallel()

	tbl, err := pcsv.NewParser(pcsv.Options{NAValues: []string{}}).Parse(strings.NewReader("a\n\\N\n\"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{`\N`, ""}, column(t, tbl, "a").Values)
}
