package bridge

import "math"

// Args is the positional argument list of one host call, opcode excluded.
//
// Every accessor takes the parameter index and its default. The argument is
// converted when it exists and has the expected kind; otherwise the default
// is returned. A mismatch never aborts the call.
type Args []Value

// At returns the i-th argument, or Missing past the end.
func (a Args) At(i int) Value {
	if i < 0 || i >= len(a) {
		return Missing()
	}
	return a[i]
}

// Len returns the number of supplied arguments.
func (a Args) Len() int { return len(a) }

// Float64 returns argument i as a float64.
func (a Args) Float64(i int, def float64) float64 {
	if f, ok := a.At(i).Number(); ok {
		return f
	}
	return def
}

// Int8 returns argument i truncated to int8.
func (a Args) Int8(i int, def int8) int8 {
	if f, ok := a.At(i).Number(); ok {
		return int8(saturate(f, math.MinInt8, math.MaxInt8))
	}
	return def
}

// Uint8 returns argument i truncated to uint8.
func (a Args) Uint8(i int, def uint8) uint8 {
	if f, ok := a.At(i).Number(); ok {
		return uint8(saturate(f, 0, math.MaxUint8))
	}
	return def
}

// Uint16 returns argument i truncated to uint16.
func (a Args) Uint16(i int, def uint16) uint16 {
	if f, ok := a.At(i).Number(); ok {
		return uint16(saturate(f, 0, math.MaxUint16))
	}
	return def
}

// Int32 returns argument i truncated to int32.
func (a Args) Int32(i int, def int32) int32 {
	if f, ok := a.At(i).Number(); ok {
		return int32(saturate(f, math.MinInt32, math.MaxInt32))
	}
	return def
}

// Uint32 returns argument i truncated to uint32.
func (a Args) Uint32(i int, def uint32) uint32 {
	if f, ok := a.At(i).Number(); ok {
		return uint32(saturate(f, 0, math.MaxUint32))
	}
	return def
}

// String returns argument i if it is a string.
func (a Args) String(i int, def string) string {
	if s, ok := a.At(i).Str(); ok {
		return s
	}
	return def
}

// Bool returns argument i if it is a boolean.
func (a Args) Bool(i int, def bool) bool {
	if b, ok := a.At(i).Bool(); ok {
		return b
	}
	return def
}

// saturate truncates f toward zero and clamps it to [lo, hi]; NaN becomes 0.
// Go leaves out-of-range float-to-int conversions implementation-defined, so
// every integer accessor goes through here first.
func saturate(f, lo, hi float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= lo:
		return lo
	case f >= hi:
		return hi
	default:
		return math.Trunc(f)
	}
}
