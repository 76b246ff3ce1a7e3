package mldsa

import "errors"

// Error kinds returned by this package. Call sites wrap these with context
// using fmt.Errorf and %w, so errors.Is matching works across the package
// boundary.
var (
	// ErrInvalidEncoding reports a malformed public key, private key or
	// signature. Verify converts this kind to a false result; key generation
	// and signing never produce it on valid inputs.
	ErrInvalidEncoding = errors.New("mldsa: invalid encoding")

	// ErrInvalidParameter reports a seed or randomness length mismatch, or a
	// parameter set this package does not know.
	ErrInvalidParameter = errors.New("mldsa: invalid parameter")

	// ErrInternalFault reports that the signing loop exhausted its attempt
	// budget. This indicates an implementation bug, not an input error. The
	// message is deliberately generic: rejection counts depend on secrets.
	ErrInternalFault = errors.New("mldsa: signing failed")
)
