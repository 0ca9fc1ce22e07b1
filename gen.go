package floatcheck

import (
	"fmt"
)

// Generator maps a case index to the operands of one case. It holds no
// state beyond its parameters, so cases can be produced in any order and by
// any number of goroutines.
//
// Case indexes interleave sub-cases: the index modulo the number of
// sub-cases at the level selects between random operands, a mix of boundary
// and random operands, and exhaustive boundary operands. The remaining
// quotient numbers the boundary combination.
type Generator struct {
	Format Format
	Arity  int
	Level  int
	Key    Key
}

// NewGenerator returns the generator for the inputs of op.
func NewGenerator(op *Operation, level int, key Key) *Generator {
	g := &Generator{Format: op.In, Arity: op.Arity, Level: level, Key: key}
	g.check()
	return g
}

func (g *Generator) Total() uint64 {
	return TotalCount(g.Format, g.Arity, g.Level)
}

func (g *Generator) Generate(index uint64) []U128 {
	return Generate(g.Format, g.Arity, g.Level, index, g.Key)
}

func (g *Generator) check() {
	if g.Level != 1 && g.Level != 2 {
		panic(fmt.Errorf("floatcheck: invalid generator level %d", g.Level))
	}
	if g.Format.IsFloat() {
		if g.Arity < 1 || g.Arity > 3 {
			panic(fmt.Errorf("floatcheck: invalid arity %d for %s", g.Arity, g.Format))
		}
	} else if g.Format == FormatNone || g.Arity != 1 {
		panic(fmt.Errorf("floatcheck: invalid arity %d for %s", g.Arity, g.Format))
	}
}

// layout describes the case space of one generator: the number of
// sub-cases interleaved in the index, the boundary table and whether the
// mixed sub-case is used.
type layout struct {
	subCases int
	q        []uint16 // nil for integer formats
	p        []U128
	mixed    bool
}

func (l layout) setSize() uint64 {
	if l.q == nil {
		return uint64(len(l.p))
	}
	return uint64(len(l.q)) * uint64(len(l.p))
}

func (g *Generator) layout() layout {
	c := corpora[g.Format]
	if !g.Format.IsFloat() {
		if g.Level == 1 {
			return layout{subCases: 3, p: c.p1}
		}
		return layout{subCases: 2, p: c.p2}
	}

	switch {
	case g.Arity == 1 && g.Level == 1:
		return layout{subCases: 3, q: c.qOut, p: c.p1}
	case g.Arity == 1:
		return layout{subCases: 2, q: c.qOut, p: c.p2}
	case g.Arity == 2 && g.Level == 1:
		return layout{subCases: 3, q: c.qIn, p: c.p1, mixed: true}
	case g.Arity == 2:
		return layout{subCases: 2, q: c.qIn, p: c.p2}
	case g.Level == 1:
		return layout{subCases: 3, q: c.qIn, p: c.p1, mixed: true}
	default:
		return layout{subCases: 2, q: c.qOut, p: c.p1}
	}
}

// boundary returns element j of the boundary set: QOut or QIn codes paired
// with every fraction pattern, or the integer table itself.
func (g *Generator) boundary(l layout, j uint64) U128 {
	if l.q == nil {
		return l.p[j]
	}
	np := uint64(len(l.p))
	return compose(g.Format, l.q[j/np], l.p[j%np])
}

func (g *Generator) random(rng RandSource) U128 {
	if g.Format.IsFloat() {
		return randomFloat(g.Format, rng)
	}
	return randomInt(g.Format, rng)
}

func pow(n uint64, k int) uint64 {
	out := uint64(1)
	for i := 0; i < k; i++ {
		out *= n
	}
	return out
}

// TotalCount returns the number of cases for operands of format f with the
// given arity at level 1 or 2.
func TotalCount(f Format, arity, level int) uint64 {
	g := Generator{Format: f, Arity: arity, Level: level}
	g.check()
	l := g.layout()
	return uint64(l.subCases) * pow(l.setSize(), arity)
}

// Generate returns the operands of case index. The same arguments always
// give the same operands. It panics if index >= TotalCount(f, arity, level).
func Generate(f Format, arity, level int, index uint64, key Key) []U128 {
	g := Generator{Format: f, Arity: arity, Level: level, Key: key}
	g.check()
	l := g.layout()

	n := l.setSize()
	combos := pow(n, arity)
	if index >= uint64(l.subCases)*combos {
		panic(fmt.Errorf("floatcheck: case index %d out of range for %s/%d level %d", index, f, arity, level))
	}

	sub := int(index % uint64(l.subCases))
	k := index / uint64(l.subCases)
	out := make([]U128, arity)

	switch {
	case sub == l.subCases-1:
		// Exhaustive: k numbers the tuple, first operand most significant.
		for i := arity - 1; i >= 0; i-- {
			out[i] = g.boundary(l, k%n)
			k /= n
		}

	case sub == 1 && l.mixed:
		// One boundary operand at position k%arity, the others random.
		rng := NewRand(key, index)
		pos := int(k % uint64(arity))
		for i := range out {
			if i == pos {
				out[i] = g.boundary(l, (k/uint64(arity))%n)
			} else {
				out[i] = g.random(rng)
			}
		}

	default:
		rng := NewRand(key, index)
		for i := range out {
			out[i] = g.random(rng)
		}
	}
	return out
}
