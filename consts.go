package floatcheck

import (
	"math/big"
)

const (
	maxUint64 = 1<<64 - 1

	// sigTop is the bit position of the leading significand bit of a
	// normalised Float. The seven bits above it absorb carries; the bits
	// below the destination precision hold the round and sticky bits.
	sigTop = 120

	// wideSigTop is the same as sigTop but for WideFloat.
	wideSigTop = 248
)

var (
	MaxU128 = U128{hi: maxUint64, lo: maxUint64}

	zeroU128 U128
	zeroU256 U256

	maxBigUint64 = new(big.Int).SetUint64(maxUint64)
)
