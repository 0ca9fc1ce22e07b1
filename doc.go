/*
Package floatcheck generates test cases for software implementations of
IEEE-754 binary floating point, and computes the expected result and
exception flags for each case with an independent reference model.

Five formats are supported: f16, f32, f64, extF80 and f128. Operands and
results cross the package boundary as U128 bit patterns, right-aligned and
exactly as wide as the format.

Simple example:

	op, _ := LookupOperation("f64_add")
	gen := NewGenerator(op, 1, DefaultKey)
	for i := uint64(0); i < gen.Total(); i++ {
		operands := gen.Generate(i)
		result, flags := Evaluate(op, operands, Context{})
		fmt.Println(operands, result, flags)
	}

Generators are stateless: case N is a pure function of (operation, level,
key, N), so any range of cases may be produced in any order or in parallel.

The reference model works on Float values, which hold any finite value of
any supported format exactly, along with zero, infinity and NaN. Rounding
to a destination format only happens when a Float is packed back into bits.

*/
package floatcheck
