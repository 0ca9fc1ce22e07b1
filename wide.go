package floatcheck

// WideFloat is a Float with a 256-bit significand, leading bit at
// wideSigTop. It holds the exact product of two f128 values, so a fused
// multiply-add on f128 can add the third operand before the only rounding.
//
// WideFloat only ever holds finite non-zero values; the special cases of a
// fused multiply-add are resolved on Floats before widening.
type WideFloat struct {
	sig  U256
	exp  int
	sign bool
}

// Widen converts a finite non-zero x to a WideFloat without loss.
func (x Float) Widen() WideFloat {
	if !x.IsFinite() {
		panic("floatcheck: Widen of non-finite Float")
	}
	x = x.normalize()
	return WideFloat{sig: U256From128(x.sig).Lsh(wideSigTop - sigTop), exp: x.exp, sign: x.sign}
}

// Narrow converts w back to a Float, jamming the discarded low bits. The
// result is not rounded.
func (w WideFloat) Narrow() Float {
	x := Float{
		class: classFinite,
		sign:  w.sign,
		exp:   w.exp,
		sig:   w.sig.ShiftRightJam(wideSigTop - sigTop).AsU128(),
	}
	return x.normalize()
}

func (w WideFloat) normalize() WideFloat {
	w.sig, w.exp = normSig(w.sig, w.exp, 256, wideSigTop)
	return w
}

// wideMul returns the exact product of two finite non-zero Floats.
func wideMul(a, b Float) WideFloat {
	a, b = a.normalize(), b.normalize()

	// The product is in [2^240, 2^242); moving it up to wideSigTop is exact.
	prod := mul128to256(a.sig, b.sig)
	w := WideFloat{
		sig:  prod.Lsh(wideSigTop - 2*sigTop),
		exp:  a.exp + b.exp,
		sign: a.sign != b.sign,
	}
	return w.normalize()
}

// wideAdd adds two WideFloats. ok is false if they cancelled exactly.
func wideAdd(a, b WideFloat) (out WideFloat, ok bool) {
	sig, exp, swapped := addSig(a.sig, a.exp, b.sig, b.exp, a.sign != b.sign, 256, wideSigTop)
	if sig.IsZero() {
		return out, false
	}
	sign := a.sign
	if swapped {
		sign = b.sign
	}
	return WideFloat{sig: sig, exp: exp, sign: sign}, true
}

// MulAddWide computes a*b+c with a single rounding for any format,
// including f128, by keeping the whole product in a WideFloat.
func MulAddWide(a, b, c Float, ctx Context) (Float, Flags) {
	if anyNaN(a, b) {
		return propagateNaN(a, b, c)
	}
	if (a.IsInf() && b.IsZero()) || (a.IsZero() && b.IsInf()) {
		return invalidFloat()
	}
	if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
		// At least one infinity or zero, or a NaN addend; none of these need
		// the wide product.
		prod, _ := Mul(a, b, ctx)
		return Add(prod, c, ctx)
	}

	sum, ok := wideAdd(wideMul(a, b), c.Widen())
	if !ok {
		return exactZero(ctx), 0
	}
	return sum.Narrow(), 0
}
