package floatcheck

import (
	"fmt"
	"sort"
)

type OpKind uint8

const (
	OpAdd OpKind = iota + 1
	OpSub
	OpMul
	OpMulAdd
	OpDiv
	OpRem
	OpSqrt
	OpRoundToInt
	OpConvert
	OpEq
	OpLe
	OpLt
	OpEqSignaling
	OpLeQuiet
	OpLtQuiet
)

var opKindNames = map[OpKind]string{
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpMulAdd:      "mulAdd",
	OpDiv:         "div",
	OpRem:         "rem",
	OpSqrt:        "sqrt",
	OpRoundToInt:  "roundToInt",
	OpConvert:     "to",
	OpEq:          "eq",
	OpLe:          "le",
	OpLt:          "lt",
	OpEqSignaling: "eq_signaling",
	OpLeQuiet:     "le_quiet",
	OpLtQuiet:     "lt_quiet",
}

func (k OpKind) String() string {
	if s, ok := opKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// IsComparison reports whether the result is a boolean, returned as 0 or 1.
func (k OpKind) IsComparison() bool { return k >= OpEq }

// Operation describes one operation under test: its operand and result
// formats and which parts of a Context affect its result.
type Operation struct {
	Name  string
	Kind  OpKind
	Arity int
	In    Format
	Out   Format // FormatNone for comparisons

	// RoundingArg is set if the operation takes its rounding mode and
	// exactness as explicit arguments (roundToInt and float-to-integer
	// conversions) rather than from the ambient mode.
	RoundingArg bool

	UsesRounding  bool
	UsesTininess  bool
	UsesPrecision bool // extF80 rounding precision

	eval func(in []U128, ctx Context) (U128, Flags)
}

func (op *Operation) String() string { return op.Name }

// ResultWidth is the width in bits of the result's encoding.
func (op *Operation) ResultWidth() uint {
	if op.Kind.IsComparison() {
		return 1
	}
	return op.Out.Width()
}

var (
	operations     []*Operation
	operationIndex = map[string]*Operation{}
)

// LookupOperation finds an operation by its name, e.g. "f32_add" or
// "ui64_to_f128".
func LookupOperation(name string) (*Operation, error) {
	op, ok := operationIndex[name]
	if !ok {
		return nil, fmt.Errorf("floatcheck: unknown operation %q", name)
	}
	return op, nil
}

// Operations returns every operation, sorted by name.
func Operations() []*Operation {
	out := make([]*Operation, len(operations))
	copy(out, operations)
	return out
}

// Evaluate computes the expected result and exception flags of op applied to
// operands. It panics if len(operands) != op.Arity.
func Evaluate(op *Operation, operands []U128, ctx Context) (U128, Flags) {
	if len(operands) != op.Arity {
		panic(fmt.Errorf("floatcheck: %s takes %d operands, found %d", op.Name, op.Arity, len(operands)))
	}
	if !op.UsesPrecision {
		ctx.Precision = 80
	}
	return op.eval(operands, ctx)
}

func register(op *Operation) {
	if _, ok := operationIndex[op.Name]; ok {
		panic(fmt.Errorf("floatcheck: duplicate operation %q", op.Name))
	}
	operationIndex[op.Name] = op
	operations = append(operations, op)
}

type unaryFunc func(a Float, ctx Context) (Float, Flags)
type binaryFunc func(a, b Float, ctx Context) (Float, Flags)
type ternaryFunc func(a, b, c Float, ctx Context) (Float, Flags)
type compareFunc func(a, b Float, signaling bool) (bool, Flags)

func floatResult(f Format, ctx Context, x Float, flags Flags) (U128, Flags) {
	bits, packFlags := x.ToBits(f, ctx)
	return bits, flags | packFlags
}

func init() {
	for _, f := range FloatFormats {
		f := f
		name := f.String()
		narrowPrec := f == F80

		for _, b := range []struct {
			kind OpKind
			fn   binaryFunc
		}{
			{OpAdd, Add},
			{OpSub, Sub},
			{OpMul, Mul},
			{OpDiv, Div},
			{OpRem, Rem},
		} {
			fn := b.fn
			rounds := b.kind != OpRem
			register(&Operation{
				Name: name + "_" + b.kind.String(), Kind: b.kind, Arity: 2, In: f, Out: f,
				UsesRounding:  rounds,
				UsesTininess:  b.kind == OpMul || b.kind == OpDiv || (narrowPrec && rounds),
				UsesPrecision: narrowPrec && rounds,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					z, flags := fn(FromBits(f, in[0]), FromBits(f, in[1]), ctx)
					return floatResult(f, ctx, z, flags)
				},
			})
		}

		if f != F80 {
			var fma ternaryFunc = MulAdd
			if f.info().prec > 60 {
				fma = MulAddWide
			}
			register(&Operation{
				Name: name + "_mulAdd", Kind: OpMulAdd, Arity: 3, In: f, Out: f,
				UsesRounding: true, UsesTininess: true,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					z, flags := fma(FromBits(f, in[0]), FromBits(f, in[1]), FromBits(f, in[2]), ctx)
					return floatResult(f, ctx, z, flags)
				},
			})
		}

		for _, u := range []struct {
			kind OpKind
			fn   unaryFunc
		}{
			{OpSqrt, Sqrt},
			{OpRoundToInt, RoundToInt},
		} {
			fn := u.fn
			register(&Operation{
				Name: name + "_" + u.kind.String(), Kind: u.kind, Arity: 1, In: f, Out: f,
				RoundingArg:   u.kind == OpRoundToInt,
				UsesRounding:  u.kind == OpSqrt,
				UsesPrecision: narrowPrec && u.kind == OpSqrt,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					z, flags := fn(FromBits(f, in[0]), ctx)
					return floatResult(f, ctx, z, flags)
				},
			})
		}

		for _, c := range []struct {
			kind      OpKind
			fn        compareFunc
			signaling bool
		}{
			{OpEq, Equal, false},
			{OpLe, LessOrEqual, true},
			{OpLt, LessThan, true},
			{OpEqSignaling, Equal, true},
			{OpLeQuiet, LessOrEqual, false},
			{OpLtQuiet, LessThan, false},
		} {
			fn, signaling := c.fn, c.signaling
			register(&Operation{
				Name: name + "_" + c.kind.String(), Kind: c.kind, Arity: 2, In: f,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					ok, flags := fn(FromBits(f, in[0]), FromBits(f, in[1]), signaling)
					if ok {
						return U128From64(1), flags
					}
					return U128{}, flags
				},
			})
		}

		for _, to := range FloatFormats {
			if to == f {
				continue
			}
			to := to
			narrowing := to.info().prec < f.info().prec || to.info().emax < f.info().emax
			register(&Operation{
				Name: name + "_to_" + to.String(), Kind: OpConvert, Arity: 1, In: f, Out: to,
				UsesRounding: narrowing,
				UsesTininess: narrowing,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					x := FromBits(f, in[0])
					var flags Flags
					if x.IsSignaling() {
						flags = FlagInvalid
					}
					return floatResult(to, ctx, x, flags)
				},
			})
		}

		for _, to := range IntFormats {
			to := to
			register(&Operation{
				Name: name + "_to_" + to.String(), Kind: OpConvert, Arity: 1, In: f, Out: to,
				RoundingArg: true,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					return ToInt(FromBits(f, in[0]), to, ctx)
				},
			})
		}
	}

	for _, from := range IntFormats {
		for _, to := range FloatFormats {
			from, to := from, to
			rounds := int(from.Width()) > to.info().prec
			register(&Operation{
				Name: from.String() + "_to_" + to.String(), Kind: OpConvert, Arity: 1, In: from, Out: to,
				UsesRounding: rounds,
				eval: func(in []U128, ctx Context) (U128, Flags) {
					return FromInt(from, in[0]).ToBits(to, ctx)
				},
			})
		}
	}

	sort.Slice(operations, func(i, j int) bool {
		return operations[i].Name < operations[j].Name
	})
}
