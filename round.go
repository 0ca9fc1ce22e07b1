package floatcheck

import (
	"fmt"
)

// significand is satisfied by U128 (Float) and U256 (WideFloat), so the
// alignment and normalisation steps are written once for both widths.
type significand[T any] interface {
	Add(T) T
	Sub(T) T
	Lsh(uint) T
	ShiftRightJam(uint) T
	LeadingZeros() uint
	Cmp(T) int
	IsZero() bool
}

// normSig moves the leading bit of a non-zero sig to bit 'top' of a
// 'width'-bit word, adjusting exp to match.
func normSig[T significand[T]](sig T, exp int, width, top uint) (T, int) {
	lz := sig.LeadingZeros()
	want := width - 1 - top
	if lz < want {
		s := want - lz
		return sig.ShiftRightJam(s), exp + int(s)
	} else if lz > want {
		s := lz - want
		return sig.Lsh(s), exp - int(s)
	}
	return sig, exp
}

// addSig adds (or subtracts) two normalised magnitudes. The smaller operand
// is aligned with a jamming right shift. swapped reports that b had the
// larger magnitude, in which case the result takes b's sign. A zero sig
// means exact cancellation.
func addSig[T significand[T]](aSig T, aExp int, bSig T, bExp int, subtract bool, width, top uint) (sig T, exp int, swapped bool) {
	if aExp < bExp || (aExp == bExp && aSig.Cmp(bSig) < 0) {
		aSig, aExp, bSig, bExp = bSig, bExp, aSig, aExp
		swapped = true
	}

	bSig = bSig.ShiftRightJam(uint(aExp - bExp))
	if subtract {
		sig = aSig.Sub(bSig)
	} else {
		sig = aSig.Add(bSig)
	}
	if sig.IsZero() {
		return sig, aExp, swapped
	}
	sig, exp = normSig(sig, aExp, width, top)
	return sig, exp, swapped
}

// roundToLSB rounds a normalised finite x to a multiple of 2^lsbExp. inexact
// reports whether any non-zero bits were discarded. The result may be zero.
func roundToLSB(x Float, lsbExp int, mode RoundingMode) (out Float, inexact bool) {
	s := lsbExp - x.exp + sigTop
	if s <= 0 {
		return x, false
	}

	var kept U128
	var half int // Discarded bits compared to half an ulp
	if s > sigTop+1 {
		// Everything is discarded, and sig < 2^(sigTop+1) <= half an ulp.
		half = -1
	} else {
		kept = x.sig.Rsh(uint(s))
		rem := x.sig.And(Mask(uint(s)))
		if rem.IsZero() {
			return x, false
		}
		half = rem.Cmp(U128From64(1).Lsh(uint(s - 1)))
	}

	up := false
	switch mode {
	case RoundNearEven:
		up = half > 0 || (half == 0 && kept.Bit(0) == 1)
	case RoundNearMaxMag:
		up = half >= 0
	case RoundMinMag:
	case RoundMin:
		up = x.sign
	case RoundMax:
		up = !x.sign
	case RoundOdd:
		kept.lo |= 1
	default:
		panic(fmt.Errorf("floatcheck: invalid rounding mode %d", mode))
	}
	if up {
		kept = kept.Inc()
	}
	if kept.IsZero() {
		return zeroFloat(x.sign), true
	}

	out = Float{class: classFinite, sign: x.sign, sig: kept, exp: lsbExp + sigTop}
	return out.normalize(), true
}

// roundPack rounds a normalised finite x to format f and encodes it.
//
// Subnormal results are rounded at the fixed position of f's smallest
// subnormal, so they are only rounded once. Underflow is raised when the
// result is both tiny and inexact.
func roundPack(x Float, f Format, ctx Context) (U128, Flags) {
	inf := f.info()
	p := f.Precision(ctx)
	minLSB := inf.emin - (p - 1)

	tiny := x.exp < inf.emin
	if tiny && ctx.Tininess == TininessAfterRounding {
		// Tiny if the result, rounded as though the exponent range were
		// unbounded, is still below the smallest normal:
		r, _ := roundToLSB(x, x.exp-(p-1), ctx.Rounding)
		tiny = r.exp < inf.emin
	}

	lsb := x.exp - (p - 1)
	if lsb < minLSB {
		lsb = minLSB
	}
	r, inexact := roundToLSB(x, lsb, ctx.Rounding)

	var flags Flags
	if inexact {
		flags |= FlagInexact
		if tiny {
			flags |= FlagUnderflow
		}
	}

	if r.class == classZero {
		return f.Zero(r.sign), flags
	}

	if r.exp > inf.emax {
		flags |= FlagOverflow | FlagInexact
		mode := ctx.Rounding
		if mode == RoundNearEven || mode == RoundNearMaxMag ||
			(mode == RoundMin && r.sign) || (mode == RoundMax && !r.sign) {
			return f.Inf(r.sign), flags
		}
		return f.maxFinite(r.sign, p), flags
	}

	return f.encode(r), flags
}
