package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOverflow = errors.New("overflow")

func TestToInt(t *testing.T) {
	t.Parallel()

	n, err := ToInt(42, errOverflow)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = ToInt(math.MaxUint64, errOverflow)
	require.ErrorIs(t, err, errOverflow)
}

func TestToInt64(t *testing.T) {
	t.Parallel()

	n, err := ToInt64(math.MaxInt64, errOverflow)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)

	_, err = ToInt64(uint64(math.MaxInt64)+1, errOverflow)
	require.ErrorIs(t, err, errOverflow)
}

func TestRangeEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		off, n  uint64
		limit   uint64
		wantEnd uint64
		wantOK  bool
	}{
		{"inside", 2, 3, 10, 5, true},
		{"exact fit", 5, 5, 10, 10, true},
		{"empty at end", 10, 0, 10, 10, true},
		{"past limit", 8, 3, 10, 0, false},
		{"overflow", math.MaxUint64, 1, math.MaxUint64, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			end, ok := RangeEnd(tt.off, tt.n, tt.limit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
