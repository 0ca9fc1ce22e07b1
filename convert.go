package floatcheck

import (
	"fmt"
)

// FromInt decodes a bit pattern of integer format f into an exact Float.
func FromInt(f Format, bits U128) Float {
	inf := f.info()
	if inf.float || f == FormatNone {
		panic(fmt.Errorf("floatcheck: FromInt on non-integer format %s", f))
	}

	mag := bits.And(f.Mask())
	neg := false
	if inf.signed && mag.Bit(inf.width-1) == 1 {
		neg = true
		mag = mag.Xor(f.Mask()).Inc().And(f.Mask())
	}
	if mag.IsZero() {
		return zeroFloat(false)
	}
	return FloatFromParts(neg, 0, mag)
}

// invalidInt is the x86 result of an invalid float-to-integer conversion:
// all ones for unsigned formats, the most negative value for signed ones.
func invalidInt(f Format) U128 {
	if f.IsSigned() {
		return U128From64(1).Lsh(f.Width() - 1)
	}
	return f.Mask()
}

// ToInt rounds x to an integer with ctx.Rounding and encodes it in integer
// format f. NaN, infinity and out-of-range values raise only invalid.
// inexact is raised only if ctx.Exact is set.
func ToInt(x Float, f Format, ctx Context) (U128, Flags) {
	inf := f.info()
	if inf.float || f == FormatNone {
		panic(fmt.Errorf("floatcheck: ToInt to non-integer format %s", f))
	}
	if !x.IsFinite() && !x.IsZero() {
		return invalidInt(f), FlagInvalid
	}
	if x.IsZero() {
		return U128{}, 0
	}

	r, inexact := roundToLSB(x.normalize(), 0, ctx.Rounding)
	var flags Flags
	if inexact && ctx.Exact {
		flags = FlagInexact
	}
	if r.IsZero() {
		return U128{}, flags
	}

	// r is a non-zero integer, so r.exp >= 0.
	if r.exp >= int(inf.width) {
		return invalidInt(f), FlagInvalid
	}
	mag := r.sig.Rsh(uint(sigTop - r.exp))

	limit := Mask(inf.width) // Largest magnitude allowed
	if inf.signed {
		limit = Mask(inf.width - 1)
		if r.sign {
			limit = limit.Inc()
		}
	} else if r.sign {
		return invalidInt(f), FlagInvalid
	}
	if mag.GreaterThan(limit) {
		return invalidInt(f), FlagInvalid
	}

	if r.sign {
		mag = mag.Xor(f.Mask()).Inc().And(f.Mask())
	}
	return mag, flags
}
