package floatcheck

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/shabbyrobe/golib/assert"
)

var bigModes = map[RoundingMode]big.RoundingMode{
	RoundNearEven:   big.ToNearestEven,
	RoundNearMaxMag: big.ToNearestAway,
	RoundMinMag:     big.ToZero,
	RoundMin:        big.ToNegativeInf,
	RoundMax:        big.ToPositiveInf,
}

// floatToBig converts a finite or zero x exactly.
func floatToBig(x Float) *big.Float {
	z := new(big.Float).SetPrec(128)
	if x.IsZero() {
		if x.sign {
			z.Neg(z)
		}
		return z
	}
	x = x.normalize()
	z.SetInt(x.sig.AsBigInt())
	z.SetMantExp(z, x.exp-sigTop)
	if x.sign {
		z.Neg(z)
	}
	return z
}

// bigToFloat converts a non-zero z of at most 128 bits of precision exactly.
func bigToFloat(z *big.Float) Float {
	mant := new(big.Float)
	exp := z.MantExp(mant)
	sig, _ := new(big.Float).SetMantExp(mant, 128).Int(nil)
	neg := sig.Sign() < 0
	sig.Abs(sig)
	return FloatFromParts(neg, exp-128, accU128FromBigInt(sig))
}

// expectMulAdd computes a*b+c rounded once to precision p with big.Float.
// ok is false if the exact result is zero, or if the rounded result is not
// comfortably inside the normal range of f, where big.Float's unbounded
// exponent would disagree with f.
func expectMulAdd(f Format, mode RoundingMode, a, b, c Float) (out Float, inexact, ok bool) {
	inf := f.info()
	prod := new(big.Float).SetPrec(512).Mul(floatToBig(a), floatToBig(b))
	z := new(big.Float).SetPrec(uint(inf.prec)).SetMode(bigModes[mode])
	z.Add(prod, floatToBig(c))
	if z.Sign() == 0 {
		return out, false, false
	}
	exp := z.MantExp(nil) - 1
	if exp <= inf.emin || exp >= inf.emax {
		return out, false, false
	}
	return bigToFloat(z), z.Acc() != big.Exact, true
}

func randomNormalF128(exp int) Float {
	sig := RandU128(globalRNG).And(Mask(112)).Or(U128From64(1).Lsh(112))
	return FloatFromParts(globalRNG.Intn(2) == 1, exp-112, sig)
}

func TestMulAddWideF128(t *testing.T) {
	op, err := LookupOperation("f128_mulAdd")
	if err != nil {
		t.Fatal(err)
	}
	for mode := range bigModes {
		t.Run(mode.String(), func(t *testing.T) {
			tt := assert.WrapTB(t)
			ctx := Context{Rounding: mode}
			checked := 0
			for i := 0; i < fuzzIterations; i++ {
				a := randomNormalF128(globalRNG.Intn(121) - 60)
				b := randomNormalF128(globalRNG.Intn(121) - 60)

				// Bias the addend towards the product's magnitude so the sum
				// often cancels or needs a sticky bit from the product.
				c := randomNormalF128(a.Exp() + b.Exp() + globalRNG.Intn(240) - 120)

				exp, inexact, ok := expectMulAdd(F128, mode, a, b, c)
				if !ok {
					continue
				}
				checked++

				ab, _ := a.ToBits(F128, ctx)
				bb, _ := b.ToBits(F128, ctx)
				cb, _ := c.ToBits(F128, ctx)
				result, flags := Evaluate(op, []U128{ab, bb, cb}, ctx)

				expBits, _ := exp.ToBits(F128, ctx)
				tt.MustEqual(expBits.Hex(128), result.Hex(128), "%s * %s + %s", a, b, c)
				tt.MustEqual(inexact, flags.Has(FlagInexact))
			}
			tt.MustAssert(checked > fuzzIterations/2, "only %d checked", checked)
		})
	}
}

func TestMulAddNarrowFormats(t *testing.T) {
	for _, f := range []Format{F16, F32, F64} {
		op, err := LookupOperation(f.String() + "_mulAdd")
		if err != nil {
			t.Fatal(err)
		}
		for mode := range bigModes {
			t.Run(fmt.Sprintf("%s/%s", f, mode), func(t *testing.T) {
				tt := assert.WrapTB(t)
				ctx := Context{Rounding: mode}
				for i := 0; i < fuzzIterations; i++ {
					operands := []U128{randomFloat(f, globalRNG), randomFloat(f, globalRNG), randomFloat(f, globalRNG)}
					a, b, c := FromBits(f, operands[0]), FromBits(f, operands[1]), FromBits(f, operands[2])
					if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
						continue
					}
					exp, inexact, ok := expectMulAdd(f, mode, a, b, c)
					if !ok {
						continue
					}
					result, flags := Evaluate(op, operands, ctx)
					expBits, _ := exp.ToBits(f, ctx)
					tt.MustEqual(expBits.Hex(int(f.Width())), result.Hex(int(f.Width())), "%s * %s + %s", a, b, c)
					tt.MustEqual(inexact, flags.Has(FlagInexact))
				}
			})
		}
	}
}

func TestMulAddDoubleRounding(t *testing.T) {
	// a*b = 1 - 2^-224 exactly. Rounding the product to f128 first gives 1,
	// and 1 - 1 == 0; the fused result is -2^-224.
	tt := assert.WrapTB(t)
	one := U128From64(1)
	a := FloatFromParts(false, -112, one.Lsh(112).Add(one)) // 1 + 2^-112
	b := FloatFromParts(false, -112, one.Lsh(112).Sub(one)) // 1 - 2^-112
	c := FloatFromFloat64(-1)

	wide, flags := MulAddWide(a, b, c, nearEven)
	tt.MustEqual(Flags(0), flags)
	tt.MustEqual(FloatFromParts(true, -224, one), wide)

	bits, flags := wide.ToBits(F128, nearEven)
	tt.MustEqual(Flags(0), flags)
	tt.MustEqual("BF1F0000000000000000000000000000", bits.Hex(128))

	prod, _ := Mul(a, b, nearEven)
	rounded, _ := prod.ToBits(F128, nearEven)
	tt.MustEqual("3FFF0000000000000000000000000000", rounded.Hex(128))
}

func TestWidenNarrow(t *testing.T) {
	tt := assert.WrapTB(t)
	for i := 0; i < fuzzIterations; i++ {
		x := randomNormalF128(globalRNG.Intn(2000) - 1000)
		tt.MustEqual(x, x.Widen().Narrow())
	}
}
