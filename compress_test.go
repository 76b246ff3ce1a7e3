package mldsa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPower2RoundReconstruction(t *testing.T) {
	for r := int32(0); r < q; r++ {
		r1, r0 := power2Round(r)
		if r1<<d+r0 != r {
			t.Fatalf("reconstruction failed at r=%d: r1=%d r0=%d", r, r1, r0)
		}
		if r0 <= -(1<<(d-1)) || r0 > 1<<(d-1) {
			t.Fatalf("r0=%d out of range at r=%d", r0, r)
		}
	}
}

func TestDecomposeReconstruction(t *testing.T) {
	for _, gamma2 := range []int32{gamma2QMinus1Div88, gamma2QMinus1Div32} {
		m := (q - 1) / (2 * gamma2)
		for r := int32(0); r < q; r++ {
			r1, r0 := decompose(r, gamma2)
			got := (int64(r1)*2*int64(gamma2) + int64(r0) + q) % q
			if got != int64(r) {
				t.Fatalf("gamma2=%d: reconstruction failed at r=%d: r1=%d r0=%d", gamma2, r, r1, r0)
			}
			if r1 < 0 || r1 >= m {
				t.Fatalf("gamma2=%d: r1=%d out of [0, %d) at r=%d", gamma2, r1, m, r)
			}
		}
	}
}

func TestDecomposeWraparound(t *testing.T) {
	for _, gamma2 := range []int32{gamma2QMinus1Div88, gamma2QMinus1Div32} {
		r1, r0 := decompose(q-1, gamma2)
		require.Equal(t, int32(0), r1, "gamma2=%d", gamma2)
		require.Equal(t, int32(-1), r0, "gamma2=%d", gamma2)
	}
}

func TestHintRecoversHighBits(t *testing.T) {
	prng := testPRNG(t)
	buf := make([]byte, 8)

	for _, gamma2 := range []int32{gamma2QMinus1Div88, gamma2QMinus1Div32} {
		for iter := 0; iter < 4096; iter++ {
			_, err := prng.Read(buf)
			require.NoError(t, err)
			r := (int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2]&0x7f)<<16) % q
			z0 := (int32(buf[4]) | int32(buf[5])<<8 | int32(buf[6])<<16) % (2*gamma2 - 1)
			z0 -= gamma2 - 1 // centered, |z0| <= gamma2-1

			rz := fieldAdd(r, z0+((z0>>31)&q))
			h := makeHint(rz, r, gamma2)
			require.Equal(t, highBits(r, gamma2), useHint(h, rz, gamma2),
				"gamma2=%d r=%d z0=%d", gamma2, r, z0)
		}
	}
}

func TestUseHintWithoutHint(t *testing.T) {
	prng := testPRNG(t)
	buf := make([]byte, 4)
	for _, gamma2 := range []int32{gamma2QMinus1Div88, gamma2QMinus1Div32} {
		for iter := 0; iter < 1024; iter++ {
			_, err := prng.Read(buf)
			require.NoError(t, err)
			r := (int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2]&0x7f)<<16) % q
			require.Equal(t, highBits(r, gamma2), useHint(0, r, gamma2))
		}
	}
}

func TestCheckNormBoundary(t *testing.T) {
	var f poly
	f[17] = 100
	f[200] = q - 100 // centered -100

	require.True(t, f.checkNorm(100))
	require.False(t, f.checkNorm(99))

	require.Equal(t, int32(100), f.infinityNorm())

	var g poly
	g[0] = -100
	g[255] = 100
	require.True(t, g.checkNormSigned(100))
	require.False(t, g.checkNormSigned(99))
}
