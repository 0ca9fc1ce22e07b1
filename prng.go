package floatcheck

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"
)

// Key is the 256-bit key of the Threefry counter cipher behind Rand.
type Key [4]uint64

// DefaultKey is used when no seed is given. The words are the first
// hexadecimal digits of pi.
var DefaultKey = Key{0x243F6A8885A308D3, 0x13198A2E03707344, 0xA4093822299F31D0, 0x082EFA98EC4E6C89}

// KeyFromSeed derives a Key from an arbitrary seed string.
func KeyFromSeed(seed string) Key {
	sum := sha3.Sum256([]byte(seed))
	var k Key
	for i := range k {
		k[i] = binary.LittleEndian.Uint64(sum[i*8:])
	}
	return k
}

const (
	threefryRounds = 20
	threefryParity = 0x1BD11BDAA9FC1A22
)

var threefryRotations = [8][2]int{
	{14, 16}, {52, 57}, {23, 40}, {5, 37},
	{25, 33}, {46, 12}, {58, 22}, {32, 32},
}

// Threefry4x64 encrypts the counter block ctr under key with 20 rounds of
// Threefry-4x64 (Salmon et al., "Parallel random numbers: as easy as 1, 2,
// 3"). It is a pure function.
func Threefry4x64(ctr [4]uint64, key Key) [4]uint64 {
	var ks [5]uint64
	ks[4] = threefryParity
	for i := 0; i < 4; i++ {
		ks[i] = key[i]
		ks[4] ^= key[i]
	}

	x0, x1, x2, x3 := ctr[0]+ks[0], ctr[1]+ks[1], ctr[2]+ks[2], ctr[3]+ks[3]

	for r := 0; r < threefryRounds; r++ {
		rot := threefryRotations[r%8]
		if r%2 == 0 {
			x0 += x1
			x1 = bits.RotateLeft64(x1, rot[0]) ^ x0
			x2 += x3
			x3 = bits.RotateLeft64(x3, rot[1]) ^ x2
		} else {
			x0 += x3
			x3 = bits.RotateLeft64(x3, rot[0]) ^ x0
			x2 += x1
			x1 = bits.RotateLeft64(x1, rot[1]) ^ x2
		}

		if r%4 == 3 {
			s := uint64(r/4 + 1)
			x0 += ks[s%5]
			x1 += ks[(s+1)%5]
			x2 += ks[(s+2)%5]
			x3 += ks[(s+3)%5] + s
		}
	}

	return [4]uint64{x0, x1, x2, x3}
}

// Rand is a stream of random words for one task. Its output depends only on
// the key, the task index and how many words have been drawn, so any task
// can be reproduced without producing the ones before it.
//
// Rand is not safe for concurrent use; create one per task instead.
type Rand struct {
	key  Key
	ctr  [4]uint64
	buf  [4]uint64
	next int
}

func NewRand(key Key, task uint64) *Rand {
	return &Rand{
		key:  key,
		ctr:  [4]uint64{0, task, 0, 0},
		next: 4,
	}
}

func (r *Rand) Uint64() uint64 {
	if r.next >= len(r.buf) {
		r.buf = Threefry4x64(r.ctr, r.key)
		r.ctr[0]++
		r.next = 0
	}
	v := r.buf[r.next]
	r.next++
	return v
}
