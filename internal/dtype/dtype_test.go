package dtype

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Kind
	}{
		{"int64", Kind{Base: Signed, Bits: 64}},
		{"Int64", Kind{Base: Signed, Bits: 64, Nullable: true}},
		{"int8", Kind{Base: Signed, Bits: 8}},
		{"uint32", Kind{Base: Unsigned, Bits: 32}},
		{"UInt32", Kind{Base: Unsigned, Bits: 32, Nullable: true}},
		{"float64", Kind{Base: Float, Bits: 64}},
		{"Float32", Kind{Base: Float, Bits: 32, Nullable: true}},
		{"bool", Kind{Base: Bool}},
		{"boolean", Kind{Base: Bool, Nullable: true}},
		{"object", Kind{Base: String, Nullable: true}},
		{"string", KindString},
		{"datetime64[ns]", KindDateTime},
		{"datetime", KindDateTime},
		{" Int32 ", Kind{Base: Signed, Bits: 32, Nullable: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "int12", "float16", "uintX", "decimal", "category"} {
		_, err := ParseKind(name)
		assert.ErrorIs(t, err, ErrUnknownType, name)
	}
}

// TestKindString_RoundTrip verifies canonical names parse back to the same kind.
func TestKindString_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{
		{Base: Signed, Bits: 16},
		{Base: Unsigned, Bits: 64, Nullable: true},
		{Base: Float, Bits: 64},
		{Base: Bool, Nullable: true},
		KindDateTime,
		KindString,
	} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}

func TestKindParse(t *testing.T) {
	t.Parallel()

	v, err := Kind{Base: Signed, Bits: 32}.Parse("-17")
	require.NoError(t, err)
	assert.Equal(t, int32(-17), v)

	v, err = Kind{Base: Unsigned, Bits: 16}.Parse("65535")
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), v)

	_, err = Kind{Base: Unsigned, Bits: 8}.Parse("256")
	assert.ErrorIs(t, err, ErrInvalidValue)

	v, err = Kind{Base: Float, Bits: 64}.Parse("43.5")
	require.NoError(t, err)
	assert.Equal(t, 43.5, v)

	v, err = Kind{Base: Bool}.Parse("True")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// Identifiers that look numeric stay strings under a string kind.
	v, err = KindString.Parse("007")
	require.NoError(t, err)
	assert.Equal(t, "007", v)

	_, err = Kind{Base: Signed, Bits: 64}.Parse(" 1")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestKindMissing(t *testing.T) {
	t.Parallel()

	v, err := Kind{Base: Signed, Bits: 64, Nullable: true}.Missing()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Kind{Base: Signed, Bits: 64}.Missing()
	assert.ErrorIs(t, err, ErrMissingValue)

	_, err = Kind{Base: Bool}.Missing()
	assert.ErrorIs(t, err, ErrMissingValue)

	v, err = Kind{Base: Float, Bits: 64}.Missing()
	require.NoError(t, err)
	f, ok := v.(float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))

	v, err = Kind{Base: String}.Missing()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	got, err := ParseDateTime("1990-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDateTime("2009-03-29 06:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2009, 3, 29, 6, 0, 0, 0, time.UTC), got)

	_, err = ParseDateTime("17:28:24")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseDateTime("01/05/1990")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	got, err := ParseTimeOfDay("06:05:04")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderDate.Add(6*time.Hour+5*time.Minute+4*time.Second), got)

	_, err = ParseTimeOfDay("6:5")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
