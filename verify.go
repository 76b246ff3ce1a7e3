package mldsa

import "crypto/subtle"

// Verify reports whether sig is a valid signature over the already-prepared
// message buffer under the encoded public key.
// Implements FIPS 204 Algorithm 3 (ML-DSA.Verify_internal).
//
// Any decoding failure, whether of the public key or the signature, results
// in false; non-canonical signature encodings are rejected outright.
func Verify(p Parameters, pk, msg, sig []byte) bool {
	if !p.valid() {
		return false
	}
	rho, t1, err := pkDecode(p, pk)
	if err != nil {
		return false
	}
	cTilde, z, hint, err := sigDecode(p, sig)
	if err != nil {
		return false
	}
	if !z.checkNorm(p.Gamma1 - p.beta() - 1) {
		return false
	}

	mat := expandA(p, rho[:])

	tr := shake256Sum(64, pk)
	mu := shake256Sum(64, tr, msg)

	c := sampleChallenge(cTilde, p.Tau)
	cHat := c
	nttForward(&cHat)

	z.ntt()

	// t1Hat = NTT(t1 * 2^d)
	t1Hat := newPolyVec(p.K)
	for i := range t1Hat {
		for j := 0; j < n; j++ {
			t1Hat[i][j] = t1[i][j] << d
		}
		nttForward(&t1Hat[i])
	}

	// w' = NTT^-1(A*z - c * t1*2^d), w1' = UseHint(h, w')
	h := newShake256()
	h.Write(mu)
	w1Buf := make([]byte, p.polyW1Size())
	var acc, ct1, w1 poly
	for i := 0; i < p.K; i++ {
		acc = poly{}
		for j := 0; j < p.L; j++ {
			nttMulAcc(&acc, &mat[i*p.L+j], &z[j])
		}
		nttMul(&ct1, &cHat, &t1Hat[i])
		for j := 0; j < n; j++ {
			acc[j] -= ct1[j]
		}
		acc.reduce()
		nttInverse(&acc)
		acc.freeze()

		useHintPoly(&w1, &hint[i], &acc, p.Gamma2)
		packW1(w1Buf, &w1, p.w1Bits())
		h.Write(w1Buf)
	}

	cTildeCheck := make([]byte, p.cTildeSize())
	h.Read(cTildeCheck)

	return subtle.ConstantTimeCompare(cTilde, cTildeCheck) == 1
}
