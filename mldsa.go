// Package mldsa implements ML-DSA (Module-Lattice Digital Signature Algorithm)
// as specified in FIPS 204.
//
// ML-DSA is a post-quantum digital signature scheme standardized by NIST.
// This package supports all three security levels through runtime parameter
// sets:
//   - ML-DSA-44: NIST security level 2 (comparable to AES-128)
//   - ML-DSA-65: NIST security level 3 (comparable to AES-192)
//   - ML-DSA-87: NIST security level 5 (comparable to AES-256)
//
// Basic usage:
//
//	key, err := mldsa.GenerateKey(rand.Reader, mldsa.MLDSA65)
//	if err != nil {
//	    // handle error
//	}
//	sig, err := key.Sign(rand.Reader, message, nil)
//	if err != nil {
//	    // handle error
//	}
//	pk, err := key.PublicKey()
//	if err != nil {
//	    // handle error
//	}
//	valid := pk.Verify(sig, message, nil)
//
// The low-level KeyGen, Sign and Verify functions operate on encoded key
// material and an already-prepared message buffer, and are deterministic in
// their inputs. They reproduce the FIPS 204 internal algorithms byte-exactly.
package mldsa

import "crypto"

// Global ML-DSA constants from FIPS 204.
const (
	// n is the number of coefficients in polynomials.
	n = 256

	// q is the modulus: q = 2^23 - 2^13 + 1 = 8380417
	q = 8380417

	// d is the number of dropped bits from t.
	d = 13

	// SeedSize is the size of the random seed used for key generation.
	SeedSize = 32

	// RndSize is the size of the per-signature randomness for hedged signing.
	RndSize = 32
)

// Derived constants.
const (
	qMinus1Div2 = (q - 1) / 2
)

// SignerOpts implements crypto.SignerOpts for ML-DSA signing operations.
// It allows specifying an optional context string for domain separation.
type SignerOpts struct {
	// Context is an optional context string for domain separation (max 255 bytes).
	// If nil, no context is used.
	Context []byte
}

// HashFunc returns 0 to indicate that ML-DSA does not use pre-hashing.
// ML-DSA signs messages directly rather than message digests.
func (opts *SignerOpts) HashFunc() crypto.Hash {
	return 0
}

// Compile-time interface assertion for crypto.Signer.
var _ crypto.Signer = (*PrivateKey)(nil)
