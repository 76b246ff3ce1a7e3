package mldsa

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

func TestSampleNTTPolyDeterministic(t *testing.T) {
	rho := make([]byte, 32)
	for i := range rho {
		rho[i] = byte(i * 7)
	}

	a := sampleNTTPoly(rho, 1, 2)
	b := sampleNTTPoly(rho, 1, 2)
	require.Equal(t, a, b)

	// swapping the row and column bytes must give a different polynomial
	c := sampleNTTPoly(rho, 2, 1)
	require.NotEqual(t, a, c)

	for i := range a {
		require.GreaterOrEqual(t, a[i], int32(0))
		require.Less(t, a[i], int32(q))
	}
}

func TestSampleBoundedPolyRange(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}

	for _, eta := range []int32{2, 4} {
		f := sampleBoundedPoly(seed, eta, 3)
		g := sampleBoundedPoly(seed, eta, 3)
		require.Equal(t, f, g, "eta=%d", eta)

		for i := range f {
			c := center(f[i])
			require.LessOrEqual(t, c, eta, "eta=%d index %d", eta, i)
			require.GreaterOrEqual(t, c, -eta, "eta=%d index %d", eta, i)
		}
	}
}

func TestSampleBoundedPolyDistribution(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i * 3)
	}

	// the rejection mapping must hit every value in [-eta, eta] and stay
	// balanced; the stream is deterministic so the tolerances cannot flake
	for _, eta := range []int32{2, 4} {
		counts := make(map[int32]int)
		var values []float64
		for nonce := uint16(0); nonce < 100; nonce++ {
			f := sampleBoundedPoly(seed, eta, nonce)
			for i := range f {
				c := center(f[i])
				counts[c]++
				values = append(values, float64(c))
			}
		}

		require.Len(t, counts, int(2*eta+1), "eta=%d", eta)

		mean, err := stats.Mean(values)
		require.NoError(t, err)
		require.InDelta(t, 0.0, mean, 0.1, "eta=%d", eta)

		stddev, err := stats.StandardDeviation(values)
		require.NoError(t, err)
		require.Greater(t, stddev, 0.5, "eta=%d", eta)
	}
}

func TestExpandMaskRange(t *testing.T) {
	var seed [66]byte
	for i := range seed {
		seed[i] = byte(255 - i)
	}

	for _, gamma1 := range []int32{1 << 17, 1 << 19} {
		f := expandMask(seed[:], gamma1)
		g := expandMask(seed[:], gamma1)
		require.Equal(t, f, g, "gamma1=%d", gamma1)

		for i := range f {
			c := center(f[i])
			require.LessOrEqual(t, c, gamma1, "gamma1=%d index %d", gamma1, i)
			require.GreaterOrEqual(t, c, -(gamma1 - 1), "gamma1=%d index %d", gamma1, i)
		}
	}
}

func TestSampleChallengeWeight(t *testing.T) {
	for _, p := range []Parameters{MLDSA44, MLDSA65, MLDSA87} {
		cTilde := make([]byte, p.cTildeSize())
		for i := range cTilde {
			cTilde[i] = byte(i ^ 0x5a)
		}

		c := sampleChallenge(cTilde, p.Tau)
		d := sampleChallenge(cTilde, p.Tau)
		require.Equal(t, c, d, "%s", p.Name)

		nonzero := 0
		for i := range c {
			switch c[i] {
			case 0:
			case 1, q - 1:
				nonzero++
			default:
				t.Fatalf("%s: coefficient %d is %d, want 0 or +-1", p.Name, i, c[i])
			}
		}
		require.Equal(t, p.Tau, nonzero, "%s", p.Name)
	}
}

func TestExpandADimensions(t *testing.T) {
	rho := make([]byte, 32)
	mat := expandA(MLDSA65, rho)
	require.Len(t, mat, MLDSA65.K*MLDSA65.L)

	// entry (i, j) is seeded with rho || j || i
	require.Equal(t, sampleNTTPoly(rho, 1, 0), mat[1])
	require.Equal(t, sampleNTTPoly(rho, 0, 1), mat[MLDSA65.L])
}
