package floatcheck

// Boundary corpora. Q tables hold sign-and-exponent codes, right-aligned:
// the biased exponent in the low expBits bits and the sign just above it.
// QIn codes are used for operands of multi-operand operations; QOut is a
// denser set used where results must land near format boundaries. P tables
// hold fraction patterns; P1 is small, P2 covers every single bit and every
// run of adjacent bits.

var f16QIn = []uint16{
	0x00, // positive, subnormal
	0x01, // positive, -14
	0x04, // positive, -11
	0x0D, // positive, -2
	0x0E, // positive, -1
	0x0F, // positive,  0
	0x10, // positive,  1
	0x11, // positive,  2
	0x1A, // positive, 11
	0x1E, // positive, 15
	0x1F, // positive, infinity or NaN
	0x20, // negative, subnormal
	0x21, // negative, -14
	0x24, // negative, -11
	0x2D, // negative, -2
	0x2E, // negative, -1
	0x2F, // negative,  0
	0x30, // negative,  1
	0x31, // negative,  2
	0x3A, // negative, 11
	0x3E, // negative, 15
	0x3F, // negative, infinity or NaN
}

var f16QOut = []uint16{
	0x00, // positive, subnormal
	0x01, // positive, -14
	0x02, // positive, -13
	0x04, // positive, -11
	0x0B, // positive, -4
	0x0C, // positive, -3
	0x0D, // positive, -2
	0x0E, // positive, -1
	0x0F, // positive,  0
	0x10, // positive,  1
	0x11, // positive,  2
	0x12, // positive,  3
	0x13, // positive,  4
	0x1A, // positive, 11
	0x1D, // positive, 14
	0x1E, // positive, 15
	0x1F, // positive, infinity or NaN
	0x20, // negative, subnormal
	0x21, // negative, -14
	0x22, // negative, -13
	0x24, // negative, -11
	0x2B, // negative, -4
	0x2C, // negative, -3
	0x2D, // negative, -2
	0x2E, // negative, -1
	0x2F, // negative,  0
	0x30, // negative,  1
	0x31, // negative,  2
	0x32, // negative,  3
	0x33, // negative,  4
	0x3A, // negative, 11
	0x3D, // negative, 14
	0x3E, // negative, 15
	0x3F, // negative, infinity or NaN
}

var f32QIn = []uint16{
	0x000, // positive, subnormal
	0x001, // positive, -126
	0x067, // positive,  -24
	0x07D, // positive,   -2
	0x07E, // positive,   -1
	0x07F, // positive,    0
	0x080, // positive,    1
	0x081, // positive,    2
	0x097, // positive,   24
	0x0FE, // positive,  127
	0x0FF, // positive, infinity or NaN
	0x100, // negative, subnormal
	0x101, // negative, -126
	0x167, // negative,  -24
	0x17D, // negative,   -2
	0x17E, // negative,   -1
	0x17F, // negative,    0
	0x180, // negative,    1
	0x181, // negative,    2
	0x197, // negative,   24
	0x1FE, // negative,  127
	0x1FF, // negative, infinity or NaN
}

var f32QOut = []uint16{
	0x000, // positive, subnormal
	0x001, // positive, -126
	0x002, // positive, -125
	0x067, // positive,  -24
	0x07B, // positive,   -4
	0x07C, // positive,   -3
	0x07D, // positive,   -2
	0x07E, // positive,   -1
	0x07F, // positive,    0
	0x080, // positive,    1
	0x081, // positive,    2
	0x082, // positive,    3
	0x083, // positive,    4
	0x097, // positive,   24
	0x09C, // positive,   29
	0x09D, // positive,   30
	0x09E, // positive,   31
	0x09F, // positive,   32
	0x0BC, // positive,   61
	0x0BD, // positive,   62
	0x0BE, // positive,   63
	0x0BF, // positive,   64
	0x0FD, // positive,  126
	0x0FE, // positive,  127
	0x0FF, // positive, infinity or NaN
	0x100, // negative, subnormal
	0x101, // negative, -126
	0x102, // negative, -125
	0x167, // negative,  -24
	0x17B, // negative,   -4
	0x17C, // negative,   -3
	0x17D, // negative,   -2
	0x17E, // negative,   -1
	0x17F, // negative,    0
	0x180, // negative,    1
	0x181, // negative,    2
	0x182, // negative,    3
	0x183, // negative,    4
	0x197, // negative,   24
	0x19C, // negative,   29
	0x19D, // negative,   30
	0x19E, // negative,   31
	0x19F, // negative,   32
	0x1BC, // negative,   61
	0x1BD, // negative,   62
	0x1BE, // negative,   63
	0x1BF, // negative,   64
	0x1FD, // negative,  126
	0x1FE, // negative,  127
	0x1FF, // negative, infinity or NaN
}

var f64QIn = []uint16{
	0x000, // positive, subnormal
	0x001, // positive, -1022
	0x3CA, // positive,   -53
	0x3FD, // positive,    -2
	0x3FE, // positive,    -1
	0x3FF, // positive,     0
	0x400, // positive,     1
	0x401, // positive,     2
	0x434, // positive,    53
	0x7FE, // positive,  1023
	0x7FF, // positive, infinity or NaN
	0x800, // negative, subnormal
	0x801, // negative, -1022
	0xBCA, // negative,   -53
	0xBFD, // negative,    -2
	0xBFE, // negative,    -1
	0xBFF, // negative,     0
	0xC00, // negative,     1
	0xC01, // negative,     2
	0xC34, // negative,    53
	0xFFE, // negative,  1023
	0xFFF, // negative, infinity or NaN
}

var f64QOut = []uint16{
	0x000, // positive, subnormal
	0x001, // positive, -1022
	0x002, // positive, -1021
	0x3CA, // positive,   -53
	0x3FB, // positive,    -4
	0x3FC, // positive,    -3
	0x3FD, // positive,    -2
	0x3FE, // positive,    -1
	0x3FF, // positive,     0
	0x400, // positive,     1
	0x401, // positive,     2
	0x402, // positive,     3
	0x403, // positive,     4
	0x41C, // positive,    29
	0x41D, // positive,    30
	0x41E, // positive,    31
	0x41F, // positive,    32
	0x434, // positive,    53
	0x43C, // positive,    61
	0x43D, // positive,    62
	0x43E, // positive,    63
	0x43F, // positive,    64
	0x7FD, // positive,  1022
	0x7FE, // positive,  1023
	0x7FF, // positive, infinity or NaN
	0x800, // negative, subnormal
	0x801, // negative, -1022
	0x802, // negative, -1021
	0xBCA, // negative,   -53
	0xBFB, // negative,    -4
	0xBFC, // negative,    -3
	0xBFD, // negative,    -2
	0xBFE, // negative,    -1
	0xBFF, // negative,     0
	0xC00, // negative,     1
	0xC01, // negative,     2
	0xC02, // negative,     3
	0xC03, // negative,     4
	0xC1C, // negative,    29
	0xC1D, // negative,    30
	0xC1E, // negative,    31
	0xC1F, // negative,    32
	0xC34, // negative,    53
	0xC3C, // negative,    61
	0xC3D, // negative,    62
	0xC3E, // negative,    63
	0xC3F, // negative,    64
	0xFFD, // negative,  1022
	0xFFE, // negative,  1023
	0xFFF, // negative, infinity or NaN
}

var extF80QIn = []uint16{
	0x0000, // positive, subnormal
	0x0001, // positive, -16382
	0x3FBF, // positive,    -64
	0x3FFD, // positive,     -2
	0x3FFE, // positive,     -1
	0x3FFF, // positive,      0
	0x4000, // positive,      1
	0x4001, // positive,      2
	0x403F, // positive,     64
	0x7FFE, // positive,  16383
	0x7FFF, // positive, infinity or NaN
	0x8000, // negative, subnormal
	0x8001, // negative, -16382
	0xBFBF, // negative,    -64
	0xBFFD, // negative,     -2
	0xBFFE, // negative,     -1
	0xBFFF, // negative,      0
	0xC000, // negative,      1
	0xC001, // negative,      2
	0xC03F, // negative,     64
	0xFFFE, // negative,  16383
	0xFFFF, // negative, infinity or NaN
}

var extF80QOut = []uint16{
	0x0000, // positive, subnormal
	0x0001, // positive, -16382
	0x0002, // positive, -16381
	0x3FBF, // positive,    -64
	0x3FFB, // positive,     -4
	0x3FFC, // positive,     -3
	0x3FFD, // positive,     -2
	0x3FFE, // positive,     -1
	0x3FFF, // positive,      0
	0x4000, // positive,      1
	0x4001, // positive,      2
	0x4002, // positive,      3
	0x4003, // positive,      4
	0x401C, // positive,     29
	0x401D, // positive,     30
	0x401E, // positive,     31
	0x401F, // positive,     32
	0x403C, // positive,     61
	0x403D, // positive,     62
	0x403E, // positive,     63
	0x403F, // positive,     64
	0x7FFD, // positive,  16382
	0x7FFE, // positive,  16383
	0x7FFF, // positive, infinity or NaN
	0x8000, // negative, subnormal
	0x8001, // negative, -16382
	0x8002, // negative, -16381
	0xBFBF, // negative,    -64
	0xBFFB, // negative,     -4
	0xBFFC, // negative,     -3
	0xBFFD, // negative,     -2
	0xBFFE, // negative,     -1
	0xBFFF, // negative,      0
	0xC000, // negative,      1
	0xC001, // negative,      2
	0xC002, // negative,      3
	0xC003, // negative,      4
	0xC01C, // negative,     29
	0xC01D, // negative,     30
	0xC01E, // negative,     31
	0xC01F, // negative,     32
	0xC03C, // negative,     61
	0xC03D, // negative,     62
	0xC03E, // negative,     63
	0xC03F, // negative,     64
	0xFFFD, // negative,  16382
	0xFFFE, // negative,  16383
	0xFFFF, // negative, infinity or NaN
}

var f128QIn = []uint16{
	0x0000, // positive, subnormal
	0x0001, // positive, -16382
	0x3F8E, // positive,   -113
	0x3FFD, // positive,     -2
	0x3FFE, // positive,     -1
	0x3FFF, // positive,      0
	0x4000, // positive,      1
	0x4001, // positive,      2
	0x4070, // positive,    113
	0x7FFE, // positive,  16383
	0x7FFF, // positive, infinity or NaN
	0x8000, // negative, subnormal
	0x8001, // negative, -16382
	0xBF8E, // negative,   -113
	0xBFFD, // negative,     -2
	0xBFFE, // negative,     -1
	0xBFFF, // negative,      0
	0xC000, // negative,      1
	0xC001, // negative,      2
	0xC070, // negative,    113
	0xFFFE, // negative,  16383
	0xFFFF, // negative, infinity or NaN
}

var f128QOut = []uint16{
	0x0000, // positive, subnormal
	0x0001, // positive, -16382
	0x0002, // positive, -16381
	0x3F8E, // positive,   -113
	0x3FFB, // positive,     -4
	0x3FFC, // positive,     -3
	0x3FFD, // positive,     -2
	0x3FFE, // positive,     -1
	0x3FFF, // positive,      0
	0x4000, // positive,      1
	0x4001, // positive,      2
	0x4002, // positive,      3
	0x4003, // positive,      4
	0x401C, // positive,     29
	0x401D, // positive,     30
	0x401E, // positive,     31
	0x401F, // positive,     32
	0x403C, // positive,     61
	0x403D, // positive,     62
	0x403E, // positive,     63
	0x403F, // positive,     64
	0x4070, // positive,    113
	0x7FFD, // positive,  16382
	0x7FFE, // positive,  16383
	0x7FFF, // positive, infinity or NaN
	0x8000, // negative, subnormal
	0x8001, // negative, -16382
	0x8002, // negative, -16381
	0xBF8E, // negative,   -113
	0xBFFB, // negative,     -4
	0xBFFC, // negative,     -3
	0xBFFD, // negative,     -2
	0xBFFE, // negative,     -1
	0xBFFF, // negative,      0
	0xC000, // negative,      1
	0xC001, // negative,      2
	0xC002, // negative,      3
	0xC003, // negative,      4
	0xC01C, // negative,     29
	0xC01D, // negative,     30
	0xC01E, // negative,     31
	0xC01F, // negative,     32
	0xC03C, // negative,     61
	0xC03D, // negative,     62
	0xC03E, // negative,     63
	0xC03F, // negative,     64
	0xC070, // negative,    113
	0xFFFD, // negative,  16382
	0xFFFE, // negative,  16383
	0xFFFF, // negative, infinity or NaN
}

// corpus is the set of boundary tables for one format. For integer formats
// only p1 and p2 are set, and they hold whole values rather than fractions.
type corpus struct {
	qIn, qOut []uint16
	p1, p2    []U128
}

var corpora [formatCount]*corpus

func init() {
	for _, c := range []struct {
		f         Format
		qIn, qOut []uint16
	}{
		{F16, f16QIn, f16QOut},
		{F32, f32QIn, f32QOut},
		{F64, f64QIn, f64QOut},
		{F80, extF80QIn, extF80QOut},
		{F128, f128QIn, f128QOut},
	} {
		m := c.f.info().fracBits
		corpora[c.f] = &corpus{qIn: c.qIn, qOut: c.qOut, p1: buildP1(m), p2: buildP2(m)}
	}

	for _, f := range IntFormats {
		w := f.Width()
		corpora[f] = &corpus{p1: buildIntP1(w), p2: buildP2(w)}
	}
}

// buildP1 returns the four fraction patterns of an m-bit fraction: zero, the
// lowest bit, all ones, and all ones but the lowest bit.
func buildP1(m uint) []U128 {
	ones := Mask(m)
	return []U128{{}, U128From64(1), ones, ones.Dec()}
}

// buildP2 returns 4m-1 patterns of an m-bit field: zero, every single bit,
// every run of ones from the top, every run of ones from the bottom, and all
// ones with a single bit cleared.
func buildP2(m uint) []U128 {
	ones := Mask(m)
	out := make([]U128, 0, 4*m-1)
	out = append(out, U128{})
	for i := uint(0); i < m; i++ {
		out = append(out, U128From64(1).Lsh(i))
	}
	for i := uint(2); i <= m; i++ {
		out = append(out, Mask(i).Lsh(m-i))
	}
	for i := uint(1); i < m; i++ {
		out = append(out, Mask(i))
	}
	for i := uint(0); i < m; i++ {
		out = append(out, ones.AndNot(U128From64(1).Lsh(i)))
	}
	return out
}

// buildIntP1 returns the integers of a w-bit two's complement field that sit
// on a boundary for both the signed and unsigned interpretation.
func buildIntP1(w uint) []U128 {
	top := U128From64(1).Lsh(w - 1)
	ones := Mask(w)
	return []U128{
		{},
		U128From64(1),
		U128From64(2),
		U128From64(3),
		top.Dec(),
		top,
		top.Inc(),
		ones.Dec(),
		ones,
	}
}

// compose builds a bit pattern of float format f from a sign-and-exponent
// code and a fraction. The 80-bit format's explicit integer bit is set for
// every non-zero exponent.
func compose(f Format, code uint16, frac U128) U128 {
	inf := f.info()
	out := U128From64(uint64(code)).Lsh(inf.sigBits).Or(frac.And(Mask(inf.fracBits)))
	if inf.explicitInt && uint64(code)&f.expMax() != 0 {
		out = out.Or(U128From64(1).Lsh(inf.fracBits))
	}
	return out
}

// expWeight is one mask and offset pair for drawing a biased exponent. Later
// pairs cover a narrower window centred on the bias, so exponents near 1.0
// are drawn far more often than a uniform draw would give.
type expWeight struct {
	mask, offset uint64
}

var expWeights [formatCount][]expWeight

func init() {
	for _, f := range FloatFormats {
		w := f.info().expBits
		ws := []expWeight{{mask: 1<<w - 1}}
		for j := uint(0); j <= w-3; j++ {
			ws = append(ws, expWeight{
				mask:   1<<(w-j) - 1,
				offset: 1<<(w-1) - 1<<(w-1-j),
			})
		}
		expWeights[f] = ws
	}
}

// randomP3 adds two P2 patterns, giving fractions with up to two runs of
// ones at arbitrary positions.
func (c *corpus) randomP3(f Format, rng RandSource) U128 {
	a := c.p2[randomN(rng, len(c.p2))]
	b := c.p2[randomN(rng, len(c.p2))]
	return a.Add(b).And(Mask(f.info().fracBits))
}

func randomWeightedCode(f Format, rng RandSource) uint16 {
	ws := expWeights[f]
	w := ws[randomN(rng, len(ws))]
	v := rng.Uint64()
	code := (v&w.mask + w.offset) & f.expMax()
	if v>>63 != 0 {
		code |= 1 << f.info().expBits
	}
	return uint16(code)
}

// randomFloat draws one operand of float format f. Three eighths of the
// draws take an exponent from QOut and a P3 fraction, one eighth QOut with
// a uniform fraction, and the rest a weighted exponent with either kind of
// fraction.
func randomFloat(f Format, rng RandSource) U128 {
	c := corpora[f]
	sel := rng.Uint64() & 7

	var code uint16
	if sel < 4 {
		code = c.qOut[randomN(rng, len(c.qOut))]
	} else {
		code = randomWeightedCode(f, rng)
	}

	var frac U128
	if sel == 3 || sel == 7 {
		frac = RandU128(rng)
	} else {
		frac = c.randomP3(f, rng)
	}
	return compose(f, code, frac)
}

// randomInt draws one value of integer format f. The magnitude's bit length
// is uniform, so small values are as common as large ones; signed formats
// negate half of the draws.
func randomInt(f Format, rng RandSource) U128 {
	w := f.Width()
	sel := rng.Uint64()
	if sel&3 == 0 {
		c := corpora[f]
		return c.p1[randomN(rng, len(c.p1))]
	}
	n := uint(randomN(rng, int(w)+1))
	v := RandU128(rng).And(Mask(n))
	if f.IsSigned() && sel&4 != 0 {
		v = U128{}.Sub(v).And(Mask(w))
	}
	return v
}
