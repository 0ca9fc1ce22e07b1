package floatcheck

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"
	"strings"
)

// U128 holds a format's bit pattern (right-aligned) or a 128-bit significand.
// U128 is a value type; all operations return new values.
type U128 struct {
	hi, lo uint64
}

func U128FromRaw(hi, lo uint64) U128 { return U128{hi: hi, lo: lo} }
func U128From64(v uint64) U128       { return U128{hi: 0, lo: v} }
func U128From32(v uint32) U128       { return U128{hi: 0, lo: uint64(v)} }
func U128From16(v uint16) U128       { return U128{hi: 0, lo: uint64(v)} }

// U128FromHex parses a hexadecimal string, with or without a leading "0x".
// Underscores and spaces are ignored so long patterns can be grouped.
func U128FromHex(s string) (out U128, err error) {
	s = strings.NewReplacer("_", "", " ", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" || len(s) > 32 {
		return out, fmt.Errorf("floatcheck: u128 hex %q invalid", s)
	}
	if len(s) > 16 {
		hs, ls := s[:len(s)-16], s[len(s)-16:]
		if out.hi, err = strconv.ParseUint(hs, 16, 64); err != nil {
			return out, fmt.Errorf("floatcheck: u128 hex %q invalid: %w", s, err)
		}
		s = ls
	}
	if out.lo, err = strconv.ParseUint(s, 16, 64); err != nil {
		return out, fmt.Errorf("floatcheck: u128 hex %q invalid: %w", s, err)
	}
	return out, nil
}

// U128FromBigInt creates a U128 from a big.Int. Overflow truncates to MaxU128
// and sets accurate to 'false'.
func U128FromBigInt(v *big.Int) (out U128, accurate bool) {
	if v.Sign() < 0 {
		return out, false
	}
	if v.BitLen() > 128 {
		return MaxU128, false
	}
	var lo big.Int
	lo.And(v, maxBigUint64)
	var hi big.Int
	hi.Rsh(v, 64)
	return U128{hi: hi.Uint64(), lo: lo.Uint64()}, true
}

// RandU128 generates an unsigned 128-bit random integer from an external source.
func RandU128(source RandSource) (out U128) {
	return U128{hi: source.Uint64(), lo: source.Uint64()}
}

func (u U128) IsZero() bool { return u == zeroU128 }

// Raw returns access to the U128 as a pair of uint64s. See U128FromRaw() for
// the counterpart.
func (u U128) Raw() (hi, lo uint64) { return u.hi, u.lo }

// Hex formats u as exactly width/4 hex digits, which is how bit patterns of
// a 'width'-bit format are exchanged with other processes.
func (u U128) Hex(width int) string {
	digits := (width + 3) / 4
	var s string
	if u.hi == 0 {
		s = strconv.FormatUint(u.lo, 16)
	} else {
		lo := strconv.FormatUint(u.lo, 16)
		s = strconv.FormatUint(u.hi, 16) + strings.Repeat("0", 16-len(lo)) + lo
	}
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	return strings.ToUpper(s)
}

func (u U128) String() string {
	return "0x" + u.Hex(128)
}

func (u U128) Format(s fmt.State, c rune) {
	// FIXME: This is good enough for now, but not forever.
	u.AsBigInt().Format(s, c)
}

func (u U128) AsBigInt() (b *big.Int) {
	var v big.Int
	v.SetUint64(u.hi)
	v.Lsh(&v, 64)
	var lo big.Int
	lo.SetUint64(u.lo)
	return v.Or(&v, &lo)
}

// AsUint64 truncates the U128 to fit in a uint64.
func (u U128) AsUint64() uint64 { return u.lo }

// Bit returns the value of bit n.
func (u U128) Bit(n uint) uint {
	if n >= 64 {
		return uint(u.hi>>(n-64)) & 1
	}
	return uint(u.lo>>n) & 1
}

// Mask returns a U128 with the lowest n bits set.
func Mask(n uint) U128 {
	if n >= 128 {
		return MaxU128
	} else if n > 64 {
		return U128{hi: 1<<(n-64) - 1, lo: maxUint64}
	} else if n == 64 {
		return U128{lo: maxUint64}
	}
	return U128{lo: 1<<n - 1}
}

func (u U128) Inc() (v U128) {
	v.lo = u.lo + 1
	v.hi = u.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Dec() (v U128) {
	v.lo = u.lo - 1
	v.hi = u.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

func (u U128) Add(n U128) (v U128) {
	v.lo = u.lo + n.lo
	v.hi = u.hi + n.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Sub(n U128) (v U128) {
	v.lo = u.lo - n.lo
	v.hi = u.hi - n.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

func (u U128) Cmp(n U128) int {
	if u.hi > n.hi {
		return 1
	} else if u.hi < n.hi {
		return -1
	} else if u.lo > n.lo {
		return 1
	} else if u.lo < n.lo {
		return -1
	}
	return 0
}

func (u U128) Equal(n U128) bool {
	return u.hi == n.hi && u.lo == n.lo
}

func (u U128) GreaterThan(n U128) bool {
	return u.hi > n.hi || (u.hi == n.hi && u.lo > n.lo)
}

func (u U128) LessThan(n U128) bool {
	return u.hi < n.hi || (u.hi == n.hi && u.lo < n.lo)
}

func (u U128) And(v U128) (out U128) {
	out.hi = u.hi & v.hi
	out.lo = u.lo & v.lo
	return out
}

func (u U128) AndNot(v U128) (out U128) {
	out.hi = u.hi &^ v.hi
	out.lo = u.lo &^ v.lo
	return out
}

func (u U128) Or(v U128) (out U128) {
	out.hi = u.hi | v.hi
	out.lo = u.lo | v.lo
	return out
}

func (u U128) Xor(v U128) (out U128) {
	out.hi = u.hi ^ v.hi
	out.lo = u.lo ^ v.lo
	return out
}

func (u U128) Lsh(n uint) (v U128) {
	if n == 0 {
		return u
	} else if n >= 128 {
		return v
	} else if n > 64 {
		v.hi = u.lo << (n - 64)
		v.lo = 0
	} else if n < 64 {
		v.hi = (u.hi << n) | (u.lo >> (64 - n))
		v.lo = u.lo << n
	} else if n == 64 {
		v.hi = u.lo
		v.lo = 0
	}
	return v
}

func (u U128) Rsh(n uint) (v U128) {
	if n == 0 {
		return u
	} else if n >= 128 {
		return v
	} else if n > 64 {
		v.lo = u.hi >> (n - 64)
		v.hi = 0
	} else if n < 64 {
		v.lo = (u.lo >> n) | (u.hi << (64 - n))
		v.hi = u.hi >> n
	} else if n == 64 {
		v.lo = u.hi
		v.hi = 0
	}
	return v
}

// ShiftRightJam shifts u right by n bits. If any of the bits shifted out are
// non-zero, the lowest bit of the result is set.
func (u U128) ShiftRightJam(n uint) U128 {
	if n == 0 {
		return u
	}
	if n >= 128 {
		if u.IsZero() {
			return u
		}
		return U128{lo: 1}
	}
	v := u.Rsh(n)
	if !u.And(Mask(n)).IsZero() {
		v.lo |= 1
	}
	return v
}

func (u U128) LeadingZeros() uint {
	if u.hi == 0 {
		return uint(bits.LeadingZeros64(u.lo)) + 64
	} else {
		return uint(bits.LeadingZeros64(u.hi))
	}
}

func (u U128) TrailingZeros() uint {
	if u.lo == 0 {
		return uint(bits.TrailingZeros64(u.hi)) + 64
	} else {
		return uint(bits.TrailingZeros64(u.lo))
	}
}

// BitLen returns the number of bits required to represent u; 0 for zero.
func (u U128) BitLen() uint {
	return 128 - u.LeadingZeros()
}

func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.Hex(128)), nil
}

func (u *U128) UnmarshalText(bts []byte) (err error) {
	v, err := U128FromHex(string(bts))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func mul64to128(u, v uint64) (hi, lo uint64) {
	var (
		u1 = (u & 0xffffffff)
		v1 = (v & 0xffffffff)
		t  = (u1 * v1)
		w3 = (t & 0xffffffff)
		k  = (t >> 32)
	)

	u >>= 32
	t = (u * v1) + k
	k = (t & 0xffffffff)
	var w1 = (t >> 32)

	v >>= 32
	t = (u1 * v) + k
	k = (t >> 32)

	return (u * v) + w1 + k,
		(t << 32) + w3
}

// mul128to256 returns the full 256-bit product of n and by.
func mul128to256(n, by U128) U256 {
	var out U256
	out.hi, out.hm = mul64to128(n.hi, by.hi)
	out.lm, out.lo = mul64to128(n.lo, by.lo)

	for _, cross := range [2][2]uint64{{n.hi, by.lo}, {n.lo, by.hi}} {
		thi, tlo := mul64to128(cross[0], cross[1])

		var carry uint64
		out.lm, carry = bits.Add64(out.lm, tlo, 0)
		out.hm, carry = bits.Add64(out.hm, thi, carry)
		out.hi += carry
	}
	return out
}
