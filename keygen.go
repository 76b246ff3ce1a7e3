package mldsa

import "fmt"

// KeyGen derives an encoded key pair from a 32-byte seed.
// Implements FIPS 204 Algorithm 1 (ML-DSA.KeyGen_internal).
//
// The one-byte k and l values absorbed after the seed provide the FIPS 204
// domain separation against different parameter sets sharing a seed.
func KeyGen(p Parameters, seed []byte) (pk, sk []byte, err error) {
	if !p.valid() {
		return nil, nil, fmt.Errorf("%w: unknown parameter set", ErrInvalidParameter)
	}
	if len(seed) != SeedSize {
		return nil, nil, fmt.Errorf("%w: seed must be %d bytes", ErrInvalidParameter, SeedSize)
	}

	// (rho, rho', K) = SHAKE256(seed || k || l, 128)
	h := newShake256()
	h.Write(seed)
	h.Write([]byte{byte(p.K), byte(p.L)})
	var expanded [128]byte
	h.Read(expanded[:])
	defer zeroizeBytes(expanded[32:])

	rho := expanded[:32]
	rhoPrime := expanded[32:96]
	key := expanded[96:128]

	mat := expandA(p, rho)

	s1 := expandS(rhoPrime, p.Eta, 0, p.L)
	s2 := expandS(rhoPrime, p.Eta, p.L, p.K)
	defer s1.zeroize()
	defer s2.zeroize()

	// t = NTT^-1(A * NTT(s1)) + s2
	s1Hat := newPolyVec(p.L)
	s1Hat.copyFrom(s1)
	s1Hat.ntt()
	defer s1Hat.zeroize()

	t1 := newPolyVec(p.K)
	t0 := newPolyVec(p.K)
	defer t0.zeroize()

	var t poly
	defer t.zeroize()
	for i := 0; i < p.K; i++ {
		t.zeroize()
		for j := 0; j < p.L; j++ {
			nttMulAcc(&t, &mat[i*p.L+j], &s1Hat[j])
		}
		t.reduce()
		nttInverse(&t)
		t.freeze()
		t.add(&t, &s2[i])

		power2RoundPoly(&t, &t1[i], &t0[i])
	}

	pk = pkEncode(p, rho, t1)
	tr := shake256Sum(64, pk)
	sk = skEncode(p, rho, key, tr, s1, s2, t0)
	return pk, sk, nil
}
