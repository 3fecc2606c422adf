package transformer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"drivers.csv":               "drivers",
		"lap_times.csv":             "lap_times",
		"constructor-standings.csv": "constructor_standings",
		"f1db_csv/pit_stops.csv":    "pit_stops",
		"sprint results.csv":        "sprint_results",
		"R\u00e4ikk\u00f6nen.csv":        "R\u00e4ikk\u00f6nen",
		"Ra\u0308ikko\u0308nen.csv":      "R\u00e4ikk\u00f6nen",
		"status":                    "status",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}

func TestIdentify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Drivers, Identify("drivers.csv"))
	assert.Equal(t, Qualifying, Identify("qualifying"))
	assert.Equal(t, ConstructorStandings, Identify("constructor-standings.csv"))
	assert.Equal(t, Unknown, Identify("sprint_results.csv"))
	assert.Equal(t, "lap_times", LapTimes.String())
	assert.Equal(t, "unknown", Unknown.String())
}

// TestRegistry_Dispatch checks registered files get their hook and every
// other file gets the identity transform.
func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()

	tbl, err := table.New(&table.Column{Name: "q1", Kind: dtype.KindString, Values: []any{"1:23.456"}},
		&table.Column{Name: "q2", Kind: dtype.KindString, Values: []any{nil}},
		&table.Column{Name: "q3", Kind: dtype.KindString, Values: []any{nil}})
	require.NoError(t, err)

	out, err := r.Lookup("qualifying.csv").Apply(tbl)
	require.NoError(t, err)
	q1ms, ok := out.Column("q1ms")
	require.True(t, ok)
	assert.Equal(t, []any{uint32(83456)}, q1ms.Values)

	plain, err := table.New(&table.Column{Name: "x", Kind: dtype.KindString, Values: []any{"1"}})
	require.NoError(t, err)
	same, err := r.Lookup("sprint_results.csv").Apply(plain)
	require.NoError(t, err)
	assert.Same(t, plain, same)
	assert.Equal(t, []string{"x"}, same.ColumnNames())

	same, err = r.Lookup("circuits.csv").Apply(plain)
	require.NoError(t, err)
	assert.Same(t, plain, same)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	called := false
	r.Register(Seasons, Func(func(t *table.Table) (*table.Table, error) {
		called = true
		return t, nil
	}))
	_, err := r.Lookup("seasons.csv").Apply(nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestChain_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var ran []int
	c := Chain{
		Func(func(t *table.Table) (*table.Table, error) { ran = append(ran, 1); return t, nil }),
		Func(func(t *table.Table) (*table.Table, error) { ran = append(ran, 2); return nil, boom }),
		Func(func(t *table.Table) (*table.Table, error) { ran = append(ran, 3); return t, nil }),
	}
	_, err := c.Apply(nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, ran)
}
