package mldsa

// Decomposition and hint arithmetic (FIPS 204 Algorithms 35-40). Everything
// operates coefficient-wise on standard-form inputs in [0, q); the only
// branches are on gamma2, which is a public parameter.

// power2Round splits r in [0, q) into (r1, r0) with r = r1 * 2^d + r0 and
// r0 centered in (-2^(d-1), 2^(d-1)]. Implements FIPS 204 Algorithm 35.
func power2Round(r int32) (r1, r0 int32) {
	r1 = (r + (1 << (d - 1)) - 1) >> d
	r0 = r - (r1 << d)
	return r1, r0
}

// power2RoundPoly applies power2Round to every coefficient of t.
func power2RoundPoly(t, t1, t0 *poly) {
	for i := range t {
		t1[i], t0[i] = power2Round(t[i])
	}
}

// decompose splits r in [0, q) into (r1, r0) with r = r1 * 2*gamma2 + r0
// mod q and r0 centered in (-gamma2, gamma2]. The wraparound at
// r1 = (q-1)/(2*gamma2) folds to r1 = 0 with r0 reduced by one, selected by
// mask. Implements FIPS 204 Algorithms 36-38.
func decompose(r, gamma2 int32) (r1, r0 int32) {
	r1 = (r + 127) >> 7
	if gamma2 == gamma2QMinus1Div32 {
		// m = 16
		r1 = (r1*1025 + (1 << 21)) >> 22
		r1 &= 15
	} else {
		// m = 44
		r1 = (r1*11275 + (1 << 23)) >> 24
		r1 ^= ((43 - r1) >> 31) & r1
	}
	r0 = r - r1*2*gamma2
	r0 -= ((qMinus1Div2 - r0) >> 31) & q
	return r1, r0
}

// highBits returns the r1 component of decompose.
func highBits(r, gamma2 int32) int32 {
	r1, _ := decompose(r, gamma2)
	return r1
}

// highBitsPoly writes the high bits of every coefficient of r into w1.
func highBitsPoly(w1, r *poly, gamma2 int32) {
	for i := range r {
		w1[i] = highBits(r[i], gamma2)
	}
}

// lowBitsPoly writes the centered low bits of every coefficient of r into r0.
func lowBitsPoly(r0, r *poly, gamma2 int32) {
	for i := range r {
		_, r0[i] = decompose(r[i], gamma2)
	}
}

// makeHint returns 1 iff the high bits of a and b differ. Callers pass
// a = r + z0 and b = r so that the hint records whether adding the carry
// term moved the high bits. Branchless: the comparison collapses to the sign
// bit of the XOR. Implements FIPS 204 Algorithm 39.
func makeHint(a, b, gamma2 int32) int32 {
	v := highBits(a, gamma2) ^ highBits(b, gamma2)
	return int32((uint32(v) | uint32(-v)) >> 31)
}

// makeHintPoly fills h with hint bits for the coefficient pairs of a and b
// and returns the number of non-zero hints.
func makeHintPoly(h, a, b *poly, gamma2 int32) int {
	var weight int32
	for i := range h {
		h[i] = makeHint(a[i], b[i], gamma2)
		weight += h[i]
	}
	return int(weight)
}

// useHint recovers the high bits of r, adjusted by the hint bit h in {0, 1}.
// The +-1 step and its wraparound mod m are selected by masks. Implements
// FIPS 204 Algorithm 40.
func useHint(h, r, gamma2 int32) int32 {
	r1, r0 := decompose(r, gamma2)

	var m, pos, neg int32
	if gamma2 == gamma2QMinus1Div32 {
		m = 16
		pos = (r1 + 1) & 15
		neg = (r1 - 1) & 15
	} else {
		m = 44
		pos = r1 + 1
		pos -= ((m - 1 - pos) >> 31) & m
		neg = r1 + m - 1
		neg -= ((m - 1 - neg) >> 31) & m
	}

	// select pos when r0 > 0, neg otherwise, then apply only when h = 1
	gt := -(((-r0) >> 31) & 1)
	adj := neg ^ ((neg ^ pos) & gt)
	return r1 ^ ((r1 ^ adj) & -h)
}

// useHintPoly applies useHint coefficient-wise.
func useHintPoly(w1, h, r *poly, gamma2 int32) {
	for i := range r {
		w1[i] = useHint(h[i], r[i], gamma2)
	}
}
