package interp

// opAdd implements the overloaded add opcode (§4.E): if either operand
// is a string, both are stringified and concatenated; otherwise it's
// numeric addition (promoting to Real if either operand is Real).
func opAdd(a, b Value) Value {
	_, aStr := a.(StringValue)
	_, bStr := b.(StringValue)
	if aStr || bStr {
		return StringValue{V: a.String() + b.String()}
	}
	return opArith(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

// opArith applies intOp when both operands are Int, else falls back to
// realOp over their numeric (float64) values. Non-numeric operands are
// coerced to 0 — arithmetic in this IR is only ever applied to values
// the checker already proved numeric.
func opArith(a, b Value, intOp func(int64, int64) int64, realOp func(float64, float64) float64) Value {
	if ai, bi, ok := bothInt(a, b); ok {
		return IntValue{V: intOp(ai, bi)}
	}
	af, _ := numeric(a)
	bf, _ := numeric(b)
	return RealValue{V: realOp(af, bf)}
}

func opDiv(a, b Value) Value {
	if ai, bi, ok := bothInt(a, b); ok {
		if bi == 0 {
			return IntValue{V: 0}
		}
		return IntValue{V: ai / bi}
	}
	af, _ := numeric(a)
	bf, _ := numeric(b)
	if bf == 0 {
		return RealValue{V: 0}
	}
	return RealValue{V: af / bf}
}

func opMod(a, b Value) Value {
	ai, bi, ok := bothInt(a, b)
	if !ok || bi == 0 {
		return IntValue{V: 0}
	}
	return IntValue{V: ai % bi}
}

// valuesEqual compares structurally, treating Int/Real as numerically
// comparable to each other.
func valuesEqual(a, b Value) bool {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			return af == bf
		}
	}
	as, aStr := a.(StringValue)
	bs, bStr := b.(StringValue)
	if aStr && bStr {
		return as.V == bs.V
	}
	ab, aBool := a.(BoolValue)
	bb, bBool := b.(BoolValue)
	if aBool && bBool {
		return ab.V == bb.V
	}
	ar, aRes := a.(ResultValue)
	br, bRes := b.(ResultValue)
	if aRes && bRes {
		return ar.OK == br.OK && ar.Payload == br.Payload
	}
	_, aNone := a.(NoneValue)
	_, bNone := b.(NoneValue)
	if aNone && bNone {
		return true
	}
	return false
}

// opCompare returns a < b (want -1) or a > b (want 1), numeric if
// possible else lexicographic for strings.
func opCompare(a, b Value, want int) Value {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			if want < 0 {
				return BoolValue{V: af < bf}
			}
			return BoolValue{V: af > bf}
		}
	}
	if as, aok := a.(StringValue); aok {
		if bs, bok := b.(StringValue); bok {
			if want < 0 {
				return BoolValue{V: as.V < bs.V}
			}
			return BoolValue{V: as.V > bs.V}
		}
	}
	return BoolValue{V: false}
}

// opCompareOrEq returns a <= b (want -1) or a >= b (want 1).
func opCompareOrEq(a, b Value, want int) Value {
	if valuesEqual(a, b) {
		return BoolValue{V: true}
	}
	return opCompare(a, b, want)
}
