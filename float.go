package floatcheck

import (
	"fmt"
	"math"
)

type floatClass uint8

const (
	classFinite floatClass = iota
	classZero
	classInf
	classNaN
)

func (c floatClass) String() string {
	switch c {
	case classFinite:
		return "finite"
	case classZero:
		return "zero"
	case classInf:
		return "inf"
	case classNaN:
		return "nan"
	}
	return fmt.Sprintf("floatClass(%d)", c)
}

// Float is the reference model's representation of one value of any format.
//
// A finite Float is sig * 2^(exp-sigTop). Once normalised, the leading bit
// of sig is bit sigTop, so exp is the unbiased exponent of the value.
// Arithmetic may leave sig out of that window; packing renormalises first.
//
// Float is a value type; all operations return new values.
type Float struct {
	sig       U128
	exp       int
	sign      bool
	class     floatClass
	signaling bool // Only meaningful for NaN
}

func zeroFloat(sign bool) Float { return Float{class: classZero, sign: sign} }
func infFloat(sign bool) Float  { return Float{class: classInf, sign: sign} }

func nanFloat(signaling bool) Float {
	return Float{class: classNaN, sign: true, signaling: signaling}
}

// FloatFromParts creates a finite Float equal to (-1)^sign * sig * 2^exp.
func FloatFromParts(sign bool, exp int, sig U128) Float {
	if sig.IsZero() {
		return zeroFloat(sign)
	}
	return Float{class: classFinite, sign: sign, sig: sig, exp: exp + sigTop}.normalize()
}

// FloatFromFloat64 decodes v through the f64 format.
func FloatFromFloat64(v float64) Float {
	return FromBits(F64, U128From64(math.Float64bits(v)))
}

func (x Float) IsZero() bool      { return x.class == classZero }
func (x Float) IsInf() bool       { return x.class == classInf }
func (x Float) IsNaN() bool       { return x.class == classNaN }
func (x Float) IsFinite() bool    { return x.class == classFinite }
func (x Float) IsSignaling() bool { return x.class == classNaN && x.signaling }
func (x Float) Sign() bool        { return x.sign }

// Exp returns the unbiased exponent of a normalised finite value.
func (x Float) Exp() int { return x.normalize().exp }

// Sig returns the significand of a normalised finite value, with the
// leading bit at bit 120.
func (x Float) Sig() U128 { return x.normalize().sig }

func (x Float) Neg() Float {
	x.sign = !x.sign
	return x
}

func (x Float) String() string {
	sign := "+"
	if x.sign {
		sign = "-"
	}
	switch x.class {
	case classZero:
		return sign + "0"
	case classInf:
		return sign + "inf"
	case classNaN:
		if x.signaling {
			return sign + "snan"
		}
		return sign + "qnan"
	}
	x = x.normalize()
	return fmt.Sprintf("%s%s*2^%d", sign, x.sig.Hex(128), x.exp-sigTop)
}

// normalize moves the leading bit of a finite significand to sigTop. Bits
// shifted out to the right are jammed into the lowest bit.
func (x Float) normalize() Float {
	if x.class != classFinite {
		return x
	}
	if x.sig.IsZero() {
		return zeroFloat(x.sign)
	}
	x.sig, x.exp = normSig(x.sig, x.exp, 128, sigTop)
	return x
}

// FromBits decodes a bit pattern of float format f. Subnormal significands
// are normalised, so the result is independent of f.
func FromBits(f Format, bits U128) Float {
	inf := f.info()
	if !inf.float {
		panic(fmt.Errorf("floatcheck: FromBits on non-float format %s", f))
	}

	bits = bits.And(f.Mask())
	sign := bits.Bit(f.Width()-1) == 1
	biased := bits.Rsh(inf.sigBits).AsUint64() & f.expMax()
	field := bits.And(Mask(inf.sigBits))

	if biased == f.expMax() {
		frac := field.And(Mask(inf.fracBits))
		if frac.IsZero() {
			return infFloat(sign)
		}
		return Float{class: classNaN, sign: sign, signaling: field.And(f.quietBit()).IsZero()}
	}

	exp := int(biased) - inf.bias
	if biased == 0 {
		exp = 1 - inf.bias
	} else if !inf.explicitInt {
		field = field.Or(U128From64(1).Lsh(inf.fracBits))
	}
	if field.IsZero() {
		return zeroFloat(sign)
	}

	x := Float{
		class: classFinite,
		sign:  sign,
		exp:   exp,
		sig:   field.Lsh(sigTop - inf.fracBits),
	}
	return x.normalize()
}

// ToBits rounds x to float format f and encodes it. NaNs of every kind
// become f.DefaultNaN().
func (x Float) ToBits(f Format, ctx Context) (U128, Flags) {
	if !f.IsFloat() {
		panic(fmt.Errorf("floatcheck: ToBits on non-float format %s", f))
	}
	x = x.normalize()
	switch x.class {
	case classNaN:
		return f.DefaultNaN(), 0
	case classInf:
		return f.Inf(x.sign), 0
	case classZero:
		return f.Zero(x.sign), 0
	}
	return roundPack(x, f, ctx)
}

// encode packs a normalised finite value that is already rounded to f's
// precision and within f's exponent range.
func (f Format) encode(x Float) U128 {
	inf := f.info()
	if x.exp >= inf.emin {
		field := x.sig.Rsh(sigTop - inf.fracBits)
		return f.pack(x.sign, uint64(x.exp+inf.bias), field)
	}
	shift := sigTop - int(inf.fracBits) + (inf.emin - x.exp)
	return f.pack(x.sign, 0, x.sig.Rsh(uint(shift)))
}
