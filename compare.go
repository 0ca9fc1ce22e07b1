package floatcheck

// Comparisons return false for unordered operands. The quiet forms raise
// invalid only for a signalling NaN; the signalling forms raise it for any
// NaN.

func Equal(a, b Float, signaling bool) (bool, Flags) {
	if anyNaN(a, b) {
		return false, unorderedFlags(a, b, signaling)
	}
	return compareOrdered(a, b) == 0, 0
}

func LessOrEqual(a, b Float, signaling bool) (bool, Flags) {
	if anyNaN(a, b) {
		return false, unorderedFlags(a, b, signaling)
	}
	return compareOrdered(a, b) <= 0, 0
}

func LessThan(a, b Float, signaling bool) (bool, Flags) {
	if anyNaN(a, b) {
		return false, unorderedFlags(a, b, signaling)
	}
	return compareOrdered(a, b) < 0, 0
}

func unorderedFlags(a, b Float, signaling bool) Flags {
	if signaling || a.IsSignaling() || b.IsSignaling() {
		return FlagInvalid
	}
	return 0
}

// compareOrdered orders two non-NaN values. Zeros compare equal regardless
// of sign.
func compareOrdered(a, b Float) int {
	if a.IsZero() && b.IsZero() {
		return 0
	}
	if a.sign != b.sign {
		if a.sign {
			return -1
		}
		return 1
	}
	c := compareMagnitude(a, b)
	if a.sign {
		return -c
	}
	return c
}

func compareMagnitude(a, b Float) int {
	rank := func(x Float) int {
		switch x.class {
		case classZero:
			return 0
		case classFinite:
			return 1
		}
		return 2
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if ra != 1 {
		return 0
	}

	a, b = a.normalize(), b.normalize()
	if a.exp != b.exp {
		if a.exp < b.exp {
			return -1
		}
		return 1
	}
	return a.sig.Cmp(b.sig)
}
