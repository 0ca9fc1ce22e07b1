package floatcheck

import (
	"fmt"
)

// Format identifies an operand or result encoding. Float formats are the five
// IEEE-754 binary formats; the integer formats only appear as the source or
// destination of a conversion.
type Format uint8

const (
	FormatNone Format = iota
	F16
	F32
	F64
	F80
	F128
	UI32
	UI64
	I32
	I64

	formatCount
)

var FloatFormats = []Format{F16, F32, F64, F80, F128}
var IntFormats = []Format{UI32, UI64, I32, I64}

type formatInfo struct {
	name  string
	width uint
	float bool

	// Float formats only:
	expBits     uint
	sigBits     uint // Width of the stored significand field
	fracBits    uint // Position of the (possibly implicit) leading bit in the field
	explicitInt bool
	bias        int
	prec        int
	emin        int
	emax        int

	// Integer formats only:
	signed bool
}

var formatInfos = [formatCount]formatInfo{
	FormatNone: {name: "none"},

	F16: {name: "f16", width: 16, float: true, expBits: 5, sigBits: 10, fracBits: 10,
		bias: 15, prec: 11, emin: -14, emax: 15},
	F32: {name: "f32", width: 32, float: true, expBits: 8, sigBits: 23, fracBits: 23,
		bias: 127, prec: 24, emin: -126, emax: 127},
	F64: {name: "f64", width: 64, float: true, expBits: 11, sigBits: 52, fracBits: 52,
		bias: 1023, prec: 53, emin: -1022, emax: 1023},
	F80: {name: "extF80", width: 80, float: true, expBits: 15, sigBits: 64, fracBits: 63,
		explicitInt: true, bias: 16383, prec: 64, emin: -16382, emax: 16383},
	F128: {name: "f128", width: 128, float: true, expBits: 15, sigBits: 112, fracBits: 112,
		bias: 16383, prec: 113, emin: -16382, emax: 16383},

	UI32: {name: "ui32", width: 32},
	UI64: {name: "ui64", width: 64},
	I32:  {name: "i32", width: 32, signed: true},
	I64:  {name: "i64", width: 64, signed: true},
}

func (f Format) info() *formatInfo {
	if f >= formatCount {
		panic(fmt.Errorf("floatcheck: unknown format %d", f))
	}
	return &formatInfos[f]
}

func (f Format) String() string {
	if f >= formatCount {
		return fmt.Sprintf("Format(%d)", f)
	}
	return formatInfos[f].name
}

// Width is the number of bits in the format's encoding.
func (f Format) Width() uint { return f.info().width }

func (f Format) IsFloat() bool { return f.info().float }

// IsSigned reports whether f is a signed integer format.
func (f Format) IsSigned() bool { return f.info().signed }

// Precision is the number of significand bits, including the leading bit,
// that results are rounded to. Only F80 honours ctx.Precision.
func (f Format) Precision(ctx Context) int {
	inf := f.info()
	if f == F80 {
		switch ctx.Precision {
		case 32:
			return 24
		case 64:
			return 53
		}
	}
	return inf.prec
}

// Mask returns a U128 with the low Width() bits set.
func (f Format) Mask() U128 { return Mask(f.Width()) }

func (f Format) expMax() uint64 { return 1<<f.info().expBits - 1 }

func (f Format) signBit() U128 { return U128From64(1).Lsh(f.Width() - 1) }

func (f Format) quietBit() U128 { return U128From64(1).Lsh(f.info().fracBits - 1) }

func (f Format) pack(sign bool, biasedExp uint64, field U128) U128 {
	inf := f.info()
	out := field.And(Mask(inf.sigBits)).Or(U128From64(biasedExp).Lsh(inf.sigBits))
	if sign {
		out = out.Or(f.signBit())
	}
	return out
}

// DefaultNaN is the NaN produced by every invalid operation: sign set, quiet
// bit set and an empty payload.
func (f Format) DefaultNaN() U128 {
	field := f.quietBit()
	if f.info().explicitInt {
		field = field.Or(U128From64(1).Lsh(63))
	}
	return f.pack(true, f.expMax(), field)
}

// Inf returns the encoding of an infinity with the given sign.
func (f Format) Inf(sign bool) U128 {
	var field U128
	if f.info().explicitInt {
		field = U128From64(1).Lsh(63)
	}
	return f.pack(sign, f.expMax(), field)
}

// Zero returns the encoding of a zero with the given sign.
func (f Format) Zero(sign bool) U128 {
	return f.pack(sign, 0, U128{})
}

// maxFinite returns the largest finite magnitude when rounding to p bits.
func (f Format) maxFinite(sign bool, p int) U128 {
	inf := f.info()
	field := Mask(uint(p)).Lsh(inf.fracBits + 1 - uint(p))
	return f.pack(sign, f.expMax()-1, field)
}

// ParseFormat accepts the names returned by Format.String(). "f80" is also
// accepted for extF80.
func ParseFormat(s string) (Format, error) {
	if s == "f80" {
		return F80, nil
	}
	for f := F16; f < formatCount; f++ {
		if formatInfos[f].name == s {
			return f, nil
		}
	}
	return FormatNone, fmt.Errorf("floatcheck: unknown format %q", s)
}
