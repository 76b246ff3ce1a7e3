package mldsa

import "fmt"

// maxSignAttempts bounds the rejection loop. FIPS 204 expects a handful of
// iterations (typically 4-8); reaching the cap means the implementation is
// broken, not the input.
const maxSignAttempts = 1000

// Sign produces a signature over an already-prepared message buffer.
// Implements FIPS 204 Algorithm 2 (ML-DSA.Sign_internal).
//
// msg is opaque to the engine: for plain ML-DSA the caller passes
// 0x00 || len(ctx) || ctx || M. rnd is the 32-byte signer randomness; pass
// zeros for deterministic signing. The same (sk, msg, rnd) triple always
// yields a byte-identical signature.
//
// All secret-carrying intermediates are zeroized between rejection attempts
// and on every exit path.
func Sign(p Parameters, sk, msg, rnd []byte) ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: unknown parameter set", ErrInvalidParameter)
	}
	if len(rnd) != RndSize {
		return nil, fmt.Errorf("%w: rnd must be %d bytes", ErrInvalidParameter, RndSize)
	}

	rho, key, tr, s1, s2, t0, err := skDecode(p, sk)
	if err != nil {
		return nil, err
	}
	defer zeroizeBytes(key[:])
	defer s1.zeroize()
	defer s2.zeroize()
	defer t0.zeroize()

	mat := expandA(p, rho[:])

	s1Hat := newPolyVec(p.L)
	s1Hat.copyFrom(s1)
	s1Hat.ntt()
	s2Hat := newPolyVec(p.K)
	s2Hat.copyFrom(s2)
	s2Hat.ntt()
	t0Hat := newPolyVec(p.K)
	t0Hat.copyFrom(t0)
	t0Hat.ntt()
	defer s1Hat.zeroize()
	defer s2Hat.zeroize()
	defer t0Hat.zeroize()

	// mu = H(tr || M'), rho' = H(K || rnd || mu)
	mu := shake256Sum(64, tr[:], msg)
	rhoPrime := shake256Sum(64, key[:], rnd, mu)
	defer zeroizeBytes(rhoPrime)

	var seedBuf [66]byte
	copy(seedBuf[:64], rhoPrime)
	defer zeroizeBytes(seedBuf[:])

	y := newPolyVec(p.L)
	yHat := newPolyVec(p.L)
	z := newPolyVec(p.L)
	w := newPolyVec(p.K)
	w1 := newPolyVec(p.K)
	wcs2 := newPolyVec(p.K)
	whint := newPolyVec(p.K)
	cs2 := newPolyVec(p.K)
	ct0 := newPolyVec(p.K)
	r0 := newPolyVec(p.K)
	hint := newPolyVec(p.K)
	var cHat, cs1 poly

	scrub := func() {
		y.zeroize()
		yHat.zeroize()
		z.zeroize()
		w.zeroize()
		wcs2.zeroize()
		whint.zeroize()
		cs2.zeroize()
		ct0.zeroize()
		r0.zeroize()
		cHat.zeroize()
		cs1.zeroize()
	}
	defer scrub()

	w1Buf := make([]byte, p.polyW1Size())
	cTilde := make([]byte, p.cTildeSize())

	zBound := p.Gamma1 - p.beta() - 1
	r0Bound := p.Gamma2 - p.beta() - 1
	ct0Bound := p.Gamma2 - 1

	for attempt, kappa := 0, 0; attempt < maxSignAttempts; attempt, kappa = attempt+1, kappa+p.L {
		// y = ExpandMask(rho', kappa)
		for i := 0; i < p.L; i++ {
			nonce := kappa + i
			seedBuf[64] = byte(nonce)
			seedBuf[65] = byte(nonce >> 8)
			y[i] = expandMask(seedBuf[:], p.Gamma1)
		}

		// w = NTT^-1(A * NTT(y)), w1 = HighBits(w)
		yHat.copyFrom(y)
		yHat.ntt()
		for i := 0; i < p.K; i++ {
			w[i] = poly{}
			for j := 0; j < p.L; j++ {
				nttMulAcc(&w[i], &mat[i*p.L+j], &yHat[j])
			}
			w[i].reduce()
			nttInverse(&w[i])
			w[i].freeze()
			highBitsPoly(&w1[i], &w[i], p.Gamma2)
		}

		// cTilde = H(mu || w1Encode(w1))
		h := newShake256()
		h.Write(mu)
		for i := 0; i < p.K; i++ {
			packW1(w1Buf, &w1[i], p.w1Bits())
			h.Write(w1Buf)
		}
		h.Read(cTilde)

		c := sampleChallenge(cTilde, p.Tau)
		cHat = c
		nttForward(&cHat)

		// z = y + NTT^-1(c * s1)
		for i := 0; i < p.L; i++ {
			nttMul(&cs1, &cHat, &s1Hat[i])
			nttInverse(&cs1)
			cs1.freeze()
			z[i].add(&y[i], &cs1)
		}
		if !z.checkNorm(zBound) {
			scrub()
			continue
		}

		// r0 = LowBits(w - c*s2)
		for i := 0; i < p.K; i++ {
			nttMul(&cs2[i], &cHat, &s2Hat[i])
			nttInverse(&cs2[i])
			cs2[i].freeze()
			wcs2[i].sub(&w[i], &cs2[i])
			lowBitsPoly(&r0[i], &wcs2[i], p.Gamma2)
		}
		if !r0.checkNormSigned(r0Bound) {
			scrub()
			continue
		}

		// hints record how c*t0 moves the high bits of w - c*s2
		for i := 0; i < p.K; i++ {
			nttMul(&ct0[i], &cHat, &t0Hat[i])
			nttInverse(&ct0[i])
			ct0[i].freeze()
			whint[i].add(&wcs2[i], &ct0[i])
		}
		weight := 0
		for i := 0; i < p.K; i++ {
			weight += makeHintPoly(&hint[i], &whint[i], &wcs2[i], p.Gamma2)
		}
		if weight > p.Omega {
			scrub()
			continue
		}
		if !ct0.checkNorm(ct0Bound) {
			scrub()
			continue
		}

		return sigEncode(p, cTilde, z, hint), nil
	}

	return nil, ErrInternalFault
}
