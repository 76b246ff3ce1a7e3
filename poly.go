package mldsa

import "runtime"

// poly is a polynomial of degree n-1 with int32 coefficients. At rest,
// coefficients are kept in standard form [0, q); inside the NTT pipeline
// they pass through the unreduced ranges documented in field.go and ntt.go.
type poly [n]int32

// add sets p = a + b coefficient-wise in standard form.
func (p *poly) add(a, b *poly) {
	for i := range p {
		p[i] = fieldAdd(a[i], b[i])
	}
}

// sub sets p = a - b coefficient-wise in standard form.
func (p *poly) sub(a, b *poly) {
	for i := range p {
		p[i] = fieldSub(a[i], b[i])
	}
}

// reduce applies reduce32 to every coefficient.
func (p *poly) reduce() {
	for i := range p {
		p[i] = reduce32(p[i])
	}
}

// freeze maps every coefficient from (-2q, 2q) to standard form [0, q).
func (p *poly) freeze() {
	for i := range p {
		p[i] = freeze(p[i])
	}
}

// infinityNorm returns the maximum absolute value of the centered
// representatives of p's standard-form coefficients. It examines all n
// coefficients with no early exit and a branchless running maximum.
func (p *poly) infinityNorm() int32 {
	var max int32
	for i := range p {
		c := center(p[i])
		t := c >> 31
		c = (c ^ t) - t
		max ^= (max ^ c) & ((max - c) >> 31)
	}
	return max
}

// checkNorm reports whether the centered representative of every
// standard-form coefficient has absolute value at most bound. All n
// coefficients are examined regardless of the outcome.
func (p *poly) checkNorm(bound int32) bool {
	var acc int32
	for i := range p {
		c := center(p[i])
		t := c >> 31
		c = (c ^ t) - t
		acc |= (bound - c) >> 31
	}
	return acc == 0
}

// checkNormSigned is checkNorm for polynomials already holding centered
// (signed) coefficients, such as decomposition low bits.
func (p *poly) checkNormSigned(bound int32) bool {
	var acc int32
	for i := range p {
		c := p[i]
		t := c >> 31
		c = (c ^ t) - t
		acc |= (bound - c) >> 31
	}
	return acc == 0
}

// zeroize clears all coefficients. The KeepAlive fence prevents the compiler
// from eliding the stores when the polynomial is about to go out of scope.
func (p *poly) zeroize() {
	for i := range p {
		p[i] = 0
	}
	runtime.KeepAlive(p)
}

// polyVec is a fixed-length vector of polynomials; the length is k or l per
// the parameter set. A vector is exclusively owned by its holder and copies
// are deep.
type polyVec []poly

func newPolyVec(dim int) polyVec {
	return make(polyVec, dim)
}

// copyFrom deep-copies a into v. The dimensions must match.
func (v polyVec) copyFrom(a polyVec) {
	for i := range v {
		v[i] = a[i]
	}
}

// ntt transforms every polynomial of v in place.
func (v polyVec) ntt() {
	for i := range v {
		nttForward(&v[i])
	}
}

// freeze maps every polynomial of v to standard form.
func (v polyVec) freeze() {
	for i := range v {
		v[i].freeze()
	}
}

// infinityNorm returns the maximum infinity norm across the vector,
// examining every coefficient of every polynomial.
func (v polyVec) infinityNorm() int32 {
	var max int32
	for i := range v {
		c := v[i].infinityNorm()
		max ^= (max ^ c) & ((max - c) >> 31)
	}
	return max
}

// checkNorm reports whether every polynomial satisfies checkNorm(bound).
// The accumulation runs over the whole vector with no early exit.
func (v polyVec) checkNorm(bound int32) bool {
	ok := true
	for i := range v {
		ok = v[i].checkNorm(bound) && ok
	}
	return ok
}

// checkNormSigned is checkNorm for vectors of centered coefficients.
func (v polyVec) checkNormSigned(bound int32) bool {
	ok := true
	for i := range v {
		ok = v[i].checkNormSigned(bound) && ok
	}
	return ok
}

// zeroize clears every polynomial in the vector.
func (v polyVec) zeroize() {
	for i := range v {
		v[i].zeroize()
	}
}

// zeroizeBytes clears a byte buffer holding secret material, with the same
// elision fence as poly.zeroize.
func zeroizeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
