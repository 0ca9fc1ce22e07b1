package floatcheck

import (
	"fmt"
	"strings"
)

// Flags is a set of IEEE-754 exception flags. The bit layout matches
// Berkeley SoftFloat's exceptionFlags so flags can be exchanged with it
// directly.
type Flags uint8

const (
	FlagInexact   Flags = 1 << 0
	FlagUnderflow Flags = 1 << 1
	FlagOverflow  Flags = 1 << 2
	FlagInfinite  Flags = 1 << 3 // Divide-by-zero
	FlagInvalid   Flags = 1 << 4

	flagsAll = FlagInexact | FlagUnderflow | FlagOverflow | FlagInfinite | FlagInvalid
)

func (f Flags) Has(v Flags) bool { return f&v == v }

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var sb strings.Builder
	for _, fl := range []struct {
		f Flags
		c byte
	}{{FlagInvalid, 'v'}, {FlagInfinite, 'i'}, {FlagOverflow, 'o'}, {FlagUnderflow, 'u'}, {FlagInexact, 'x'}} {
		if f&fl.f != 0 {
			sb.WriteByte(fl.c)
		}
	}
	if f&^flagsAll != 0 {
		fmt.Fprintf(&sb, "+%#x", uint8(f&^flagsAll))
	}
	return sb.String()
}

type RoundingMode uint8

const (
	RoundNearEven   RoundingMode = iota
	RoundMinMag                  // Toward zero
	RoundMin                     // Toward negative infinity
	RoundMax                     // Toward positive infinity
	RoundNearMaxMag              // Nearest, ties away from zero
	RoundOdd

	roundingModeCount
)

var RoundingModes = []RoundingMode{RoundNearEven, RoundMinMag, RoundMin, RoundMax, RoundNearMaxMag, RoundOdd}

var roundingModeNames = [roundingModeCount]string{
	RoundNearEven:   "near_even",
	RoundMinMag:     "minMag",
	RoundMin:        "min",
	RoundMax:        "max",
	RoundNearMaxMag: "near_maxMag",
	RoundOdd:        "odd",
}

func (m RoundingMode) String() string {
	if m >= roundingModeCount {
		return fmt.Sprintf("RoundingMode(%d)", m)
	}
	return roundingModeNames[m]
}

func ParseRoundingMode(s string) (RoundingMode, error) {
	for m, n := range roundingModeNames {
		if n == s {
			return RoundingMode(m), nil
		}
	}
	return 0, fmt.Errorf("floatcheck: unknown rounding mode %q", s)
}

// Tininess controls whether an underflowing result is detected as tiny
// before or after rounding.
type Tininess uint8

const (
	TininessBeforeRounding Tininess = iota
	TininessAfterRounding
)

func (t Tininess) String() string {
	switch t {
	case TininessBeforeRounding:
		return "before"
	case TininessAfterRounding:
		return "after"
	}
	return fmt.Sprintf("Tininess(%d)", t)
}

func ParseTininess(s string) (Tininess, error) {
	switch s {
	case "before":
		return TininessBeforeRounding, nil
	case "after":
		return TininessAfterRounding, nil
	}
	return 0, fmt.Errorf("floatcheck: unknown tininess mode %q", s)
}

// Context configures one evaluation. The zero value rounds to nearest-even,
// detects tininess before rounding and uses full extF80 precision.
//
// Context carries no mutable state; exception flags are returned by each
// operation instead.
type Context struct {
	Rounding RoundingMode
	Tininess Tininess

	// Precision is the extF80 rounding precision: 32, 64 or 80. Zero means 80.
	Precision int

	// Exact requests the inexact flag from roundToInt and float-to-integer
	// conversions.
	Exact bool
}

func (c Context) Validate() error {
	if c.Rounding >= roundingModeCount {
		return fmt.Errorf("floatcheck: invalid rounding mode %d", c.Rounding)
	}
	if c.Tininess > TininessAfterRounding {
		return fmt.Errorf("floatcheck: invalid tininess mode %d", c.Tininess)
	}
	switch c.Precision {
	case 0, 32, 64, 80:
	default:
		return fmt.Errorf("floatcheck: invalid extF80 rounding precision %d", c.Precision)
	}
	return nil
}
