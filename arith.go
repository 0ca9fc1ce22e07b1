package floatcheck

// The arithmetic in this file works on exact Floats and returns an unrounded
// (but sticky) Float; rounding happens in ToBits. Each result has at least
// seven bits below the 113-bit precision of the widest format, with any
// further lost bits jammed into bit 0, which is enough to round once
// correctly to every format.

// propagateNaN returns the NaN result of an operation with a NaN operand.
// invalid is raised if any operand is signalling.
func propagateNaN(xs ...Float) (Float, Flags) {
	var flags Flags
	signaling := false
	for _, x := range xs {
		if x.IsSignaling() {
			flags |= FlagInvalid
			signaling = true
		}
	}
	return nanFloat(signaling), flags
}

func invalidFloat() (Float, Flags) {
	return nanFloat(false), FlagInvalid
}

func anyNaN(xs ...Float) bool {
	for _, x := range xs {
		if x.IsNaN() {
			return true
		}
	}
	return false
}

// exactZero is the sign of a zero produced by the exact cancellation of
// opposite-signed operands.
func exactZero(ctx Context) Float {
	return zeroFloat(ctx.Rounding == RoundMin)
}

func Add(a, b Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b)
	}
	if a.IsInf() {
		if b.IsInf() && a.sign != b.sign {
			return invalidFloat()
		}
		return a, 0
	}
	if b.IsInf() {
		return b, 0
	}
	if a.IsZero() && b.IsZero() {
		if a.sign == b.sign {
			return a, 0
		}
		return exactZero(ctx), 0
	}
	if a.IsZero() {
		return b, 0
	}
	if b.IsZero() {
		return a, 0
	}

	a, b = a.normalize(), b.normalize()
	sig, exp, swapped := addSig(a.sig, a.exp, b.sig, b.exp, a.sign != b.sign, 128, sigTop)
	if sig.IsZero() {
		return exactZero(ctx), 0
	}
	sign := a.sign
	if swapped {
		sign = b.sign
	}
	return Float{class: classFinite, sign: sign, sig: sig, exp: exp}, 0
}

func Sub(a, b Float, ctx Context) (Float, Flags) {
	return Add(a, b.Neg(), ctx)
}

func Mul(a, b Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b)
	}
	sign := a.sign != b.sign
	if a.IsInf() || b.IsInf() {
		if a.IsZero() || b.IsZero() {
			return invalidFloat()
		}
		return infFloat(sign), 0
	}
	if a.IsZero() || b.IsZero() {
		return zeroFloat(sign), 0
	}

	a, b = a.normalize(), b.normalize()

	// Both significands are in [2^120, 2^121), so the product is in
	// [2^240, 2^242):
	prod := mul128to256(a.sig, b.sig)
	z := Float{
		class: classFinite,
		sign:  sign,
		exp:   a.exp + b.exp,
		sig:   prod.ShiftRightJam(sigTop).AsU128(),
	}
	return z.normalize(), 0
}

// Div uses restoring binary long division, one quotient bit per step, with
// the remainder jammed into the lowest quotient bit.
func Div(a, b Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b)
	}
	sign := a.sign != b.sign
	if a.IsInf() {
		if b.IsInf() {
			return invalidFloat()
		}
		return infFloat(sign), 0
	}
	if b.IsInf() {
		return zeroFloat(sign), 0
	}
	if b.IsZero() {
		if a.IsZero() {
			return invalidFloat()
		}
		return infFloat(sign), FlagInfinite
	}
	if a.IsZero() {
		return zeroFloat(sign), 0
	}

	a, b = a.normalize(), b.normalize()
	exp := a.exp - b.exp
	rem := a.sig
	if rem.LessThan(b.sig) {
		rem = rem.Lsh(1)
		exp--
	}

	var q U128
	for i := 0; i <= sigTop; i++ {
		q = q.Lsh(1)
		if !rem.LessThan(b.sig) {
			rem = rem.Sub(b.sig)
			q.lo |= 1
		}
		rem = rem.Lsh(1)
	}
	if !rem.IsZero() {
		q.lo |= 1
	}

	return Float{class: classFinite, sign: sign, sig: q, exp: exp}.normalize(), 0
}

// Rem computes the IEEE remainder a - n*b, where n is a/b rounded to the
// nearest integer with ties to even. The result is always exact.
func Rem(a, b Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b)
	}
	if a.IsInf() || b.IsZero() {
		return invalidFloat()
	}
	if b.IsInf() || a.IsZero() {
		return a, 0
	}

	a, b = a.normalize(), b.normalize()
	expDiff := a.exp - b.exp
	if expDiff < -1 {
		// |a| < |b|/2
		return a, 0
	}

	var (
		r, by   U128
		unitExp int
		qOdd    bool
	)

	if expDiff == -1 {
		// |b|/2 <= |a| < |b|: the truncated quotient is 0. Work in units of
		// a's exponent, where b is twice as wide.
		r, by, unitExp = a.sig, b.sig.Lsh(1), a.exp

	} else {
		r, by, unitExp = a.sig, b.sig, b.exp
		for i := expDiff; ; i-- {
			qOdd = false
			if !r.LessThan(by) {
				r = r.Sub(by)
				qOdd = true
			}
			if i == 0 {
				break
			}
			r = r.Lsh(1)
		}
	}

	// r is now the remainder of the truncated division, 0 <= r < by. Step
	// to the next quotient if r is above half of b, or exactly half with an
	// odd quotient.
	sign := a.sign
	if c := r.Lsh(1).Cmp(by); c > 0 || (c == 0 && qOdd) {
		r = by.Sub(r)
		sign = !sign
	}
	if r.IsZero() {
		return zeroFloat(a.sign), 0
	}
	return Float{class: classFinite, sign: sign, sig: r, exp: unitExp}.normalize(), 0
}

// Sqrt extracts the root one bit per step from a 242-bit radicand, giving a
// 121-bit root with the remainder jammed into the lowest bit.
func Sqrt(a Float, ctx Context) (Float, Flags) {
	if a.IsNaN() {
		return propagateNaN(a)
	}
	if a.IsZero() {
		return a, 0
	}
	if a.sign {
		return invalidFloat()
	}
	if a.IsInf() {
		return a, 0
	}

	a = a.normalize()

	// a == sig * 2^(exp-120) == (sig << 120) * 2^(exp-240). Make the
	// exponent even so it can be halved:
	exp := a.exp
	rad := U256From128(a.sig).Lsh(sigTop)
	if exp&1 != 0 {
		rad = rad.Lsh(1)
		exp--
	}

	var root, rem U128
	for i := sigTop; i >= 0; i-- {
		two := rad.Rsh(uint(2*i)).lo & 3
		rem = rem.Lsh(2).Or(U128From64(two))
		trial := root.Lsh(2).Or(U128From64(1))
		root = root.Lsh(1)
		if !rem.LessThan(trial) {
			rem = rem.Sub(trial)
			root.lo |= 1
		}
	}
	if !rem.IsZero() {
		root.lo |= 1
	}

	return Float{class: classFinite, sig: root, exp: exp / 2}.normalize(), 0
}

// RoundToInt rounds a to an integral value using ctx.Rounding. inexact is
// only raised if ctx.Exact is set.
func RoundToInt(a Float, ctx Context) (Float, Flags) {
	if a.IsNaN() {
		return propagateNaN(a)
	}
	if !a.IsFinite() {
		return a, 0
	}
	r, inexact := roundToLSB(a.normalize(), 0, ctx.Rounding)
	if inexact && ctx.Exact {
		return r, FlagInexact
	}
	return r, 0
}

// MulAdd computes a*b+c with a single rounding for formats of up to 60
// bits of precision, where the product fits the Float significand exactly.
// Wider formats must use MulAddWide.
func MulAdd(a, b, c Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b, c)
	}
	if (a.IsInf() && b.IsZero()) || (a.IsZero() && b.IsInf()) {
		return invalidFloat()
	}
	prod, _ := Mul(a, b, ctx)
	return Add(prod, c, ctx)
}
