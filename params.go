package mldsa

import "fmt"

// Security level specific constants.
const (
	// gamma2 values for the two decomposition radii
	gamma2QMinus1Div88 = (q - 1) / 88 // ML-DSA-44
	gamma2QMinus1Div32 = (q - 1) / 32 // ML-DSA-65, ML-DSA-87
)

// Encoding size constants (bytes per polynomial).
const (
	polyEta2Size = n * 3 / 8  // eta=2 packed
	polyEta4Size = n * 4 / 8  // eta=4 packed
	polyW1Size4  = n * 4 / 8  // 4-bit w1 for ML-DSA-65/87
	polyW1Size6  = n * 6 / 8  // 6-bit w1 for ML-DSA-44
	polyT1Size   = n * 10 / 8 // t1 packed
	polyT0Size   = n * 13 / 8 // t0 packed
	polyZSize18  = n * 18 / 8 // z for gamma1=2^17
	polyZSize20  = n * 20 / 8 // z for gamma1=2^19
)

// Parameters describes one of the three ML-DSA parameter sets. The values are
// frozen by FIPS 204; the three instances below are the only ones this package
// accepts. Parameters is a plain value record: dimensions k and l determine
// vector sizes allocated at call time, there is no per-set code.
type Parameters struct {
	// Name is the FIPS 204 parameter set name, e.g. "ML-DSA-65".
	Name string

	// K and L are the dimensions of the matrix A (k x l).
	K int
	L int

	// Eta bounds the coefficients of the secret vectors s1 and s2.
	Eta int32

	// Tau is the number of non-zero coefficients in the challenge polynomial.
	Tau int

	// Gamma1 is the coefficient range of the masking vector y.
	Gamma1 int32

	// Gamma2 is the low-order rounding range.
	Gamma2 int32

	// Omega is the maximum number of 1s in the hint vector.
	Omega int

	// Lambda is the collision strength of cTilde, in bits.
	Lambda int
}

// The three ML-DSA parameter sets defined by FIPS 204.
var (
	MLDSA44 = Parameters{Name: "ML-DSA-44", K: 4, L: 4, Eta: 2, Tau: 39, Gamma1: 1 << 17, Gamma2: gamma2QMinus1Div88, Omega: 80, Lambda: 128}
	MLDSA65 = Parameters{Name: "ML-DSA-65", K: 6, L: 5, Eta: 4, Tau: 49, Gamma1: 1 << 19, Gamma2: gamma2QMinus1Div32, Omega: 55, Lambda: 192}
	MLDSA87 = Parameters{Name: "ML-DSA-87", K: 8, L: 7, Eta: 2, Tau: 60, Gamma1: 1 << 19, Gamma2: gamma2QMinus1Div32, Omega: 75, Lambda: 256}
)

// ParametersByName returns the parameter set with the given FIPS 204 name.
func ParametersByName(name string) (Parameters, error) {
	switch name {
	case MLDSA44.Name:
		return MLDSA44, nil
	case MLDSA65.Name:
		return MLDSA65, nil
	case MLDSA87.Name:
		return MLDSA87, nil
	}
	return Parameters{}, fmt.Errorf("%w: unknown parameter set %q", ErrInvalidParameter, name)
}

// beta is the derived rejection bound tau * eta.
func (p Parameters) beta() int32 {
	return int32(p.Tau) * p.Eta
}

// etaBits is the packed width of an s1/s2 coefficient.
func (p Parameters) etaBits() int {
	if p.Eta == 2 {
		return 3
	}
	return 4
}

// gamma1Bits is the packed width of a z coefficient.
func (p Parameters) gamma1Bits() int {
	if p.Gamma1 == 1<<17 {
		return 18
	}
	return 20
}

// w1Bits is the packed width of a w1 coefficient.
func (p Parameters) w1Bits() int {
	if p.Gamma2 == gamma2QMinus1Div88 {
		return 6
	}
	return 4
}

// polyEtaSize is the packed size of one s1/s2 polynomial.
func (p Parameters) polyEtaSize() int {
	return n * p.etaBits() / 8
}

// polyZSize is the packed size of one z polynomial.
func (p Parameters) polyZSize() int {
	return n * p.gamma1Bits() / 8
}

// polyW1Size is the packed size of one w1 polynomial.
func (p Parameters) polyW1Size() int {
	return n * p.w1Bits() / 8
}

// cTildeSize is the size of the challenge digest in bytes.
func (p Parameters) cTildeSize() int {
	return p.Lambda / 4
}

// PublicKeySize returns the size of an encoded public key in bytes.
func (p Parameters) PublicKeySize() int {
	return 32 + p.K*polyT1Size
}

// PrivateKeySize returns the size of an encoded private key in bytes.
func (p Parameters) PrivateKeySize() int {
	return 32 + 32 + 64 + (p.K+p.L)*p.polyEtaSize() + p.K*polyT0Size
}

// SignatureSize returns the size of a signature in bytes.
func (p Parameters) SignatureSize() int {
	return p.cTildeSize() + p.L*p.polyZSize() + p.Omega + p.K
}

// valid reports whether p is one of the three FIPS 204 parameter sets.
func (p Parameters) valid() bool {
	return p == MLDSA44 || p == MLDSA65 || p == MLDSA87
}
