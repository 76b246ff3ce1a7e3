package mldsa

// Scalar arithmetic modulo q. Coefficients live in a signed 32-bit word and
// move between several domains:
//
//   - standard form in [0, q)
//   - centered form in [-(q-1)/2, (q-1)/2]
//   - Montgomery form, where the logical value x is represented by
//     x * R mod q with R = 2^32
//   - unreduced, in the bounded range a butterfly or an accumulation leaves
//     behind
//
// Each function documents its input and output range. Everything here is
// branchless: arithmetic shifts and masks only, no data-dependent branches
// and no secret-indexed table lookups.

// Montgomery form constants.
const (
	// qInv = q^(-1) mod 2^32
	qInv = 58728449
	// montR2 = 2^64 mod q (Montgomery R^2)
	montR2 = 2365951
	// invNScale = 256^(-1) * R^2 mod q, folded into the last inverse NTT pass
	invNScale = 41978
)

// montReduce computes a * R^(-1) mod q for |a| < 2^31 * q.
// The result is in (-q, q).
func montReduce(a int64) int32 {
	t := int32(a) * qInv
	return int32((a - int64(t)*q) >> 32)
}

// montMul computes a * b * R^(-1) mod q. The result is in (-q, q) whenever
// |a * b| < 2^31 * q, which holds for all operand ranges in this package.
func montMul(a, b int32) int32 {
	return montReduce(int64(a) * int64(b))
}

// toMont converts a to Montgomery form: a * R mod q, in (-q, q).
func toMont(a int32) int32 {
	return montReduce(int64(a) * montR2)
}

// fromMont converts a Montgomery-form value to standard form in [0, q).
func fromMont(a int32) int32 {
	r := montReduce(int64(a))
	return r + ((r >> 31) & q)
}

// reduce32 maps a <= 2^31 - 2^22 - 1 to a representative with absolute value
// at most 6283009 (just under 0.75*q). Applied to accumulated pointwise products
// before an inverse NTT so that the additive growth inside the transform
// stays within an int32.
func reduce32(a int32) int32 {
	t := (a + (1 << 22)) >> 23
	return a - t*q
}

// freeze maps a in (-2q, 2q) to the standard representative in [0, q).
func freeze(a int32) int32 {
	a += (a >> 31) & (2 * q) // [0, 2q)
	a -= q                   // [-q, q)
	a += (a >> 31) & q       // [0, q)
	return a
}

// center maps standard form [0, q) to the centered representative in
// [-(q-1)/2, (q-1)/2].
func center(a int32) int32 {
	return a - (((qMinus1Div2 - a) >> 31) & q)
}

// fieldAdd returns (a + b) mod q in standard form for a, b in [0, q).
func fieldAdd(a, b int32) int32 {
	t := a + b - q
	return t + ((t >> 31) & q)
}

// fieldSub returns (a - b) mod q in standard form for a, b in [0, q).
func fieldSub(a, b int32) int32 {
	t := a - b
	return t + ((t >> 31) & q)
}
