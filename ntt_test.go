package mldsa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultik/mldsa/sampling"
)

// randomPoly draws a polynomial with uniform coefficients in [0, q) from a
// deterministic stream.
func randomPoly(t *testing.T, prng *sampling.KeyedPRNG) poly {
	t.Helper()
	var f poly
	buf := make([]byte, 4)
	for i := 0; i < n; {
		_, err := prng.Read(buf)
		require.NoError(t, err)
		v := int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2]&0x7f)<<16
		if v < q {
			f[i] = v
			i++
		}
	}
	return f
}

func testPRNG(t *testing.T) *sampling.KeyedPRNG {
	t.Helper()
	prng, err := sampling.NewKeyedPRNG([]byte("mldsa ring test vectors"))
	require.NoError(t, err)
	return prng
}

func TestNTTRoundtrip(t *testing.T) {
	prng := testPRNG(t)

	for iter := 0; iter < 16; iter++ {
		a := randomPoly(t, prng)

		b := a
		nttForward(&b)
		b.reduce()
		nttInverse(&b)
		for i := range b {
			b[i] = fromMont(b[i])
		}

		require.Equal(t, a, b, "roundtrip mismatch at iteration %d", iter)
	}
}

// schoolbookMul computes the negacyclic product of a and b in
// Z_q[X]/(X^n+1) directly.
func schoolbookMul(a, b *poly) poly {
	var c [2 * n]int64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c[i+j] = (c[i+j] + int64(a[i])*int64(b[j])) % q
		}
	}
	var out poly
	for i := 0; i < n; i++ {
		v := (c[i] - c[i+n]) % q
		if v < 0 {
			v += q
		}
		out[i] = int32(v)
	}
	return out
}

func TestNTTMulMatchesSchoolbook(t *testing.T) {
	prng := testPRNG(t)

	for iter := 0; iter < 4; iter++ {
		a := randomPoly(t, prng)
		b := randomPoly(t, prng)
		want := schoolbookMul(&a, &b)

		aHat, bHat := a, b
		nttForward(&aHat)
		nttForward(&bHat)
		var c poly
		nttMul(&c, &aHat, &bHat)
		nttInverse(&c)
		c.freeze()

		require.Equal(t, want, c, "product mismatch at iteration %d", iter)
	}
}

func TestNTTInverseOfAccumulatedSum(t *testing.T) {
	prng := testPRNG(t)

	// an accumulated matrix-row product must reduce before the inverse
	// transform; the result has to match summing the individual products
	const dim = 7
	var as, bs [dim]poly
	for i := range as {
		as[i] = randomPoly(t, prng)
		bs[i] = randomPoly(t, prng)
	}

	var want poly
	for i := range as {
		p := schoolbookMul(&as[i], &bs[i])
		want.add(&want, &p)
	}

	var acc poly
	for i := range as {
		aHat, bHat := as[i], bs[i]
		nttForward(&aHat)
		nttForward(&bHat)
		nttMulAcc(&acc, &aHat, &bHat)
	}
	acc.reduce()
	nttInverse(&acc)
	acc.freeze()

	require.Equal(t, want, acc)
}
