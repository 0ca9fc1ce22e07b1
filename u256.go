package floatcheck

import (
	"fmt"
	"math/big"
	"math/bits"
)

// U256 exists to implement just enough of a 256-bit integer to carry the
// significand of a WideFloat and the full product of two U128 significands.
type U256 struct {
	hi, hm, lm, lo uint64
}

func U256From128(in U128) U256 {
	hi, lo := in.Raw()
	return U256{lm: hi, lo: lo}
}

func U256From64(in uint64) U256 {
	return U256{lo: in}
}

// U256FromRaw128 creates a U256 from its upper and lower halves.
func U256FromRaw128(hi, lo U128) U256 {
	return U256{hi: hi.hi, hm: hi.lo, lm: lo.hi, lo: lo.lo}
}

func (u U256) IsZero() bool { return u == zeroU256 }

// Hi128 returns the upper 128 bits of u.
func (u U256) Hi128() U128 { return U128{hi: u.hi, lo: u.hm} }

// AsU128 truncates u to its lower 128 bits.
func (u U256) AsU128() U128 { return U128FromRaw(u.lm, u.lo) }

func (u U256) IsU128() bool { return u.hi == 0 && u.hm == 0 }

func (u U256) AsBigInt() (b *big.Int) {
	var v big.Int
	for _, w := range [4]uint64{u.hi, u.hm, u.lm, u.lo} {
		v.Lsh(&v, 64)
		v.Or(&v, new(big.Int).SetUint64(w))
	}
	return &v
}

func (u U256) Cmp(n U256) int {
	if u.hi > n.hi {
		return 1
	} else if u.hi < n.hi {
		return -1
	} else if u.hm > n.hm {
		return 1
	} else if u.hm < n.hm {
		return -1
	} else if u.lm > n.lm {
		return 1
	} else if u.lm < n.lm {
		return -1
	} else if u.lo > n.lo {
		return 1
	} else if u.lo < n.lo {
		return -1
	}
	return 0
}

func (u U256) Add(n U256) (v U256) {
	var carry uint64
	v.lo, carry = bits.Add64(u.lo, n.lo, 0)
	v.lm, carry = bits.Add64(u.lm, n.lm, carry)
	v.hm, carry = bits.Add64(u.hm, n.hm, carry)
	v.hi, _ = bits.Add64(u.hi, n.hi, carry)
	return v
}

func (u U256) Sub(n U256) (v U256) {
	var borrow uint64
	v.lo, borrow = bits.Sub64(u.lo, n.lo, 0)
	v.lm, borrow = bits.Sub64(u.lm, n.lm, borrow)
	v.hm, borrow = bits.Sub64(u.hm, n.hm, borrow)
	v.hi, _ = bits.Sub64(u.hi, n.hi, borrow)
	return v
}

func (u U256) Format(s fmt.State, c rune) {
	// FIXME: This is good enough for now, but not forever.
	u.AsBigInt().Format(s, c)
}

func (u U256) String() string {
	return "0x" + u.Hi128().Hex(128) + u.AsU128().Hex(128)
}

func (u U256) LeadingZeros() uint {
	if u.hi != 0 {
		return uint(bits.LeadingZeros64(u.hi))
	} else if u.hm != 0 {
		return uint(bits.LeadingZeros64(u.hm)) + 64
	} else if u.lm != 0 {
		return uint(bits.LeadingZeros64(u.lm)) + 128
	} else if u.lo != 0 {
		return uint(bits.LeadingZeros64(u.lo)) + 192
	}
	return 256
}

func (u U256) TrailingZeros() uint {
	if u.lo != 0 {
		return uint(bits.TrailingZeros64(u.lo))
	} else if u.lm != 0 {
		return uint(bits.TrailingZeros64(u.lm)) + 64
	} else if u.hm != 0 {
		return uint(bits.TrailingZeros64(u.hm)) + 128
	} else if u.hi != 0 {
		return uint(bits.TrailingZeros64(u.hi)) + 192
	}
	return 256
}

func (u U256) Lsh(n uint) (v U256) {
	if n == 0 {
		return u

	} else if n < 64 {
		return U256{
			hi: (u.hi << n) | (u.hm >> (64 - n)),
			hm: (u.hm << n) | (u.lm >> (64 - n)),
			lm: (u.lm << n) | (u.lo >> (64 - n)),
			lo: u.lo << n,
		}

	} else if n == 64 {
		return U256{hi: u.hm, hm: u.lm, lm: u.lo}

	} else if n < 128 {
		n -= 64
		return U256{
			hi: (u.hm << n) | (u.lm >> (64 - n)),
			hm: (u.lm << n) | (u.lo >> (64 - n)),
			lm: u.lo << n,
		}

	} else if n == 128 {
		return U256{hi: u.lm, hm: u.lo}

	} else if n < 192 {
		n -= 128
		return U256{
			hi: (u.lm << n) | (u.lo >> (64 - n)),
			hm: u.lo << n,
		}

	} else if n == 192 {
		return U256{hi: u.lo}
	} else if n < 256 {
		return U256{hi: u.lo << (n - 192)}
	} else {
		return U256{}
	}
}

func (u U256) Rsh(n uint) (v U256) {
	if n == 0 {
		return u

	} else if n < 64 {
		return U256{
			hi: u.hi >> n,
			hm: (u.hm >> n) | (u.hi << (64 - n)),
			lm: (u.lm >> n) | (u.hm << (64 - n)),
			lo: (u.lo >> n) | (u.lm << (64 - n)),
		}

	} else if n == 64 {
		return U256{hm: u.hi, lm: u.hm, lo: u.lm}

	} else if n < 128 {
		n -= 64
		return U256{
			hm: u.hi >> n,
			lm: (u.hm >> n) | (u.hi << (64 - n)),
			lo: (u.lm >> n) | (u.hm << (64 - n)),
		}

	} else if n == 128 {
		return U256{lm: u.hi, lo: u.hm}

	} else if n < 192 {
		n -= 128
		return U256{
			lm: u.hi >> n,
			lo: (u.hm >> n) | (u.hi << (64 - n)),
		}

	} else if n == 192 {
		return U256{lo: u.hi}

	} else if n < 256 {
		return U256{lo: u.hi >> (n - 192)}

	} else {
		return U256{}
	}
}

// ShiftRightJam shifts u right by n bits, setting the lowest bit of the
// result if any non-zero bits were shifted out.
func (u U256) ShiftRightJam(n uint) U256 {
	if n == 0 {
		return u
	}
	if n >= 256 {
		if u.IsZero() {
			return u
		}
		return U256{lo: 1}
	}
	v := u.Rsh(n)
	if !u.Lsh(256 - n).IsZero() {
		v.lo |= 1
	}
	return v
}
