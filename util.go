package floatcheck

// RandSource is satisfied by *Rand, and by *math/rand.Rand in tests.
type RandSource interface {
	Uint64() uint64
}

// randomN returns a value in [0, n) using the high bits of a draw. n must be
// small relative to 1<<32, which every caller in this package guarantees.
func randomN(src RandSource, n int) int {
	if n <= 0 {
		panic("floatcheck: randomN with n <= 0")
	}
	return int(((src.Uint64() >> 32) * uint64(n)) >> 32)
}
