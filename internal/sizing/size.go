// Package sizing provides overflow-checked conversions between the unsigned
// sizes stored in archive metadata and the signed sizes used by io and slices.
package sizing

import "math"

// ToInt converts a uint64 to int, returning overflowErr if it doesn't fit.
func ToInt(size uint64, overflowErr error) (int, error) {
	if size > uint64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(size), nil
}

// ToInt64 converts a uint64 to int64, returning overflowErr if it doesn't fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, overflowErr
	}
	return int64(size), nil
}

// AddUint64 adds two uint64 values, returning (result, false) on overflow.
func AddUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// RangeEnd returns off+n when the range [off, off+n) fits inside limit.
// ok is false when the addition overflows or the range extends past limit.
func RangeEnd(off, n, limit uint64) (end uint64, ok bool) {
	end, ok = AddUint64(off, n)
	if !ok || end > limit {
		return 0, false
	}
	return end, true
}
