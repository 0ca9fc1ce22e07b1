package floatcheck

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"
)

const fuzzDefaultIterations = 20000

var (
	fuzzIterations = fuzzDefaultIterations
	fuzzSeed       int64
	fuzzLevel      = 1
	fuzzOps        StringList

	globalRNG *rand.Rand
)

func TestMain(m *testing.M) {
	flag.IntVar(&fuzzIterations, "floatcheck.iter", fuzzIterations, "Number of iterations for each randomised check")
	flag.Int64Var(&fuzzSeed, "floatcheck.seed", fuzzSeed, "Seed the RNG (0 == current nanotime)")
	flag.IntVar(&fuzzLevel, "floatcheck.level", fuzzLevel, "Generator level used by the generated-case checks")
	flag.Var(&fuzzOps, "floatcheck.op", "Operation to check against the host (can pass multiple, or a comma separated list)")
	flag.Parse()

	if fuzzSeed == 0 {
		fuzzSeed = time.Now().UnixNano()
	}
	globalRNG = rand.New(rand.NewSource(fuzzSeed))

	log.Println("rando seed:", fuzzSeed)
	log.Println("iterations:", fuzzIterations)
	log.Println("gen level: ", fuzzLevel)

	code := m.Run()
	os.Exit(code)
}

func opActive(name string) bool {
	if len(fuzzOps) == 0 {
		return true
	}
	for _, op := range fuzzOps {
		if op == name {
			return true
		}
	}
	return false
}

// u128h parses hex, ignoring spaces and underscores. It panics on bad input.
func u128h(s string) U128 {
	u, err := U128FromHex(s)
	if err != nil {
		panic(err)
	}
	return u
}

func bigs(s string) *big.Int {
	s = strings.Replace(s, " ", "", -1)
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic(fmt.Errorf("floatcheck: big string %q invalid", s))
	}
	return b
}

func accU128FromBigInt(b *big.Int) U128 {
	u, acc := U128FromBigInt(b)
	if !acc {
		panic(fmt.Errorf("floatcheck: inaccurate conversion to U128 in tester for %s", b))
	}
	return u
}

type StringList []string

func (s StringList) Strings() []string { return s }

func (s *StringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *StringList) Set(v string) error {
	vs := strings.Split(v, ",")
	for _, vi := range vs {
		vi = strings.TrimSpace(vi)
		if vi != "" {
			*s = append(*s, vi)
		}
	}
	return nil
}

// randomBigU128 returns a random value with a random bit length, so small
// values turn up as often as large ones.
func randomBigU128(rng *rand.Rand) *big.Int {
	if rng == nil {
		rng = globalRNG
	}
	v := new(big.Int)
	bits := rng.Intn(129) - 1
	if bits < 0 {
		return v
	}
	for i := 0; i < bits; i++ {
		if rng.Intn(2) == 1 {
			v.SetBit(v, i, 1)
		}
	}
	v.SetBit(v, bits, 1)
	return v
}

var nearEven = Context{}

func f64bits(v float64) U128 { return U128From64(math.Float64bits(v)) }
func f32bits(v float32) U128 { return U128From32(math.Float32bits(v)) }
