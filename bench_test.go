package floatcheck

import (
	"context"
	"fmt"
	"math/big"
	"testing"
)

var (
	BenchBigFloatResult *big.Float
	BenchCasesResult    []Case
	BenchFlagsResult    Flags
	BenchOperandsResult []U128
	BenchThreefryResult [4]uint64
	BenchU128Result     U128
	BenchU256Result     U256
	BenchUint64Result   uint64
)

func BenchmarkU128Mul256(b *testing.B) {
	u := Mask(113)
	for i := 0; i < b.N; i++ {
		BenchU256Result = mul128to256(u, u)
	}
}

func BenchmarkU128ShiftRightJam(b *testing.B) {
	u := Mask(121)
	for _, sh := range []uint{1, 63, 64, 100, 200} {
		b.Run(fmt.Sprint(sh), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				BenchU128Result = u.ShiftRightJam(sh)
			}
		})
	}
}

func BenchmarkThreefry(b *testing.B) {
	var ctr [4]uint64
	for i := 0; i < b.N; i++ {
		ctr[0] = uint64(i)
		BenchThreefryResult = Threefry4x64(ctr, DefaultKey)
	}
}

func BenchmarkRandUint64(b *testing.B) {
	r := NewRand(DefaultKey, 0)
	for i := 0; i < b.N; i++ {
		BenchUint64Result = r.Uint64()
	}
}

func BenchmarkGenerate(b *testing.B) {
	for _, tc := range []struct {
		f     Format
		arity int
		level int
	}{
		{F32, 1, 1},
		{F64, 2, 1},
		{F128, 3, 1},
		{F80, 2, 2},
		{I64, 1, 2},
	} {
		b.Run(fmt.Sprintf("%s/%d/%d", tc.f, tc.arity, tc.level), func(b *testing.B) {
			total := TotalCount(tc.f, tc.arity, tc.level)
			for i := 0; i < b.N; i++ {
				BenchOperandsResult = Generate(tc.f, tc.arity, tc.level, uint64(i)%total, DefaultKey)
			}
		})
	}
}

func BenchmarkEvaluate(b *testing.B) {
	for _, name := range []string{
		"f32_add", "f64_mul", "f64_div", "f64_sqrt", "f64_rem",
		"f64_mulAdd", "f128_mulAdd", "extF80_div", "f128_to_i64",
	} {
		b.Run(name, func(b *testing.B) {
			op, err := LookupOperation(name)
			if err != nil {
				b.Fatal(err)
			}
			gen := NewGenerator(op, 1, DefaultKey)
			cases := make([][]U128, 1024)
			for i := range cases {
				cases[i] = gen.Generate(uint64(i * 3))
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				BenchU128Result, BenchFlagsResult = Evaluate(op, cases[i%len(cases)], nearEven)
			}
		})
	}
}

// BenchmarkBigFloatMulAdd is the cost of the math/big oracle the f128
// mulAdd tests check against.
func BenchmarkBigFloatMulAdd(b *testing.B) {
	x := floatToBig(FloatFromFloat64(1.0 / 3))
	for i := 0; i < b.N; i++ {
		prod := new(big.Float).SetPrec(512).Mul(x, x)
		BenchBigFloatResult = new(big.Float).SetPrec(113).Add(prod, x)
	}
}

func BenchmarkBatch(b *testing.B) {
	op, err := LookupOperation("f64_add")
	if err != nil {
		b.Fatal(err)
	}
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprint(workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				cases, err := Batch(context.Background(), BatchConfig{Op: op, Level: 1, Key: DefaultKey, Count: 4096, Workers: workers})
				if err != nil {
					b.Fatal(err)
				}
				BenchCasesResult = cases
			}
		})
	}
}
