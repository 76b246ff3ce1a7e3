package mldsa

import (
	"bytes"
	"crypto"
	"crypto/subtle"
	"fmt"
	"io"
)

// domainPure is the domain-separation prefix for plain ML-DSA message
// preparation. Pre-hashed signing (0x01 prefix with OID binding) is the
// caller's business and is not offered here.
const domainPure = 0x00

// prepareMessage builds M' = domain || len(ctx) || ctx || msg. The context
// must be at most 255 bytes.
func prepareMessage(domain byte, context, message []byte) []byte {
	prepared := make([]byte, 2+len(context)+len(message))
	prepared[0] = domain
	prepared[1] = byte(len(context))
	copy(prepared[2:], context)
	copy(prepared[2+len(context):], message)
	return prepared
}

// PublicKey is an ML-DSA public key. It is immutable once constructed and
// safe for concurrent use.
type PublicKey struct {
	params Parameters
	raw    []byte
}

// PrivateKey is an ML-DSA private key. The derived public key is cached
// inside the private key after first use and wiped by Destroy. A PrivateKey
// must not be shared between goroutines that may call Destroy.
type PrivateKey struct {
	params Parameters
	raw    []byte
	pk     []byte // cached encoded public key, nil until derived
}

// GenerateKey generates a new key pair for the given parameter set, reading
// the 32-byte seed from rand.
func GenerateKey(rand io.Reader, p Parameters) (*PrivateKey, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, err
	}
	defer zeroizeBytes(seed[:])
	return NewKeyFromSeed(p, seed[:])
}

// NewKeyFromSeed deterministically derives a key pair from a 32-byte seed.
func NewKeyFromSeed(p Parameters, seed []byte) (*PrivateKey, error) {
	pk, sk, err := KeyGen(p, seed)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{params: p, raw: sk, pk: pk}, nil
}

// NewPrivateKey parses an encoded private key, validating the coefficient
// ranges of the packed secret vectors.
func NewPrivateKey(p Parameters, b []byte) (*PrivateKey, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: unknown parameter set", ErrInvalidParameter)
	}
	_, key, _, s1, s2, t0, err := skDecode(p, b)
	if err != nil {
		return nil, err
	}
	zeroizeBytes(key[:])
	s1.zeroize()
	s2.zeroize()
	t0.zeroize()

	sk := &PrivateKey{params: p, raw: make([]byte, len(b))}
	copy(sk.raw, b)
	return sk, nil
}

// NewPublicKey parses an encoded public key.
func NewPublicKey(p Parameters, b []byte) (*PublicKey, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: unknown parameter set", ErrInvalidParameter)
	}
	if _, _, err := pkDecode(p, b); err != nil {
		return nil, err
	}
	pk := &PublicKey{params: p, raw: make([]byte, len(b))}
	copy(pk.raw, b)
	return pk, nil
}

// Parameters returns the key's parameter set.
func (pk *PublicKey) Parameters() Parameters { return pk.params }

// Bytes returns the encoded public key.
func (pk *PublicKey) Bytes() []byte {
	b := make([]byte, len(pk.raw))
	copy(b, pk.raw)
	return b
}

// Equal reports whether pk and other are the same public key.
func (pk *PublicKey) Equal(other crypto.PublicKey) bool {
	o, ok := other.(*PublicKey)
	if !ok {
		return false
	}
	return pk.params == o.params && bytes.Equal(pk.raw, o.raw)
}

// Verify checks the signature on message with an optional context string.
func (pk *PublicKey) Verify(sig, message, context []byte) bool {
	if len(context) > 255 {
		return false
	}
	prepared := prepareMessage(domainPure, context, message)
	return Verify(pk.params, pk.raw, prepared, sig)
}

// Parameters returns the key's parameter set.
func (sk *PrivateKey) Parameters() Parameters { return sk.params }

// Bytes returns the encoded private key.
func (sk *PrivateKey) Bytes() []byte {
	b := make([]byte, len(sk.raw))
	copy(b, sk.raw)
	return b
}

// Equal reports whether sk and other hold the same private key. The
// comparison runs in constant time.
func (sk *PrivateKey) Equal(other crypto.PrivateKey) bool {
	o, ok := other.(*PrivateKey)
	if !ok {
		return false
	}
	return sk.params == o.params &&
		len(sk.raw) == len(o.raw) &&
		subtle.ConstantTimeCompare(sk.raw, o.raw) == 1
}

// Destroy zeroizes the private key material and the cached public key. The
// key must not be used afterwards.
func (sk *PrivateKey) Destroy() {
	zeroizeBytes(sk.raw)
	if sk.pk != nil {
		zeroizeBytes(sk.pk)
		sk.pk = nil
	}
}

// PublicKey derives the public key, verifying that the tr binding stored in
// the private key matches the derived encoding. The result is cached.
func (sk *PrivateKey) PublicKey() (*PublicKey, error) {
	if sk.pk == nil {
		pkBytes, err := sk.derivePublicKey()
		if err != nil {
			return nil, err
		}
		sk.pk = pkBytes
	}
	pk := &PublicKey{params: sk.params, raw: make([]byte, len(sk.pk))}
	copy(pk.raw, sk.pk)
	return pk, nil
}

// derivePublicKey recomputes t1 from the secret vectors and checks the
// tr = H(pk) binding, catching keys whose halves do not belong together.
func (sk *PrivateKey) derivePublicKey() ([]byte, error) {
	p := sk.params
	rho, key, tr, s1, s2, _, err := skDecode(p, sk.raw)
	if err != nil {
		return nil, err
	}
	defer zeroizeBytes(key[:])
	defer s1.zeroize()
	defer s2.zeroize()

	mat := expandA(p, rho[:])

	s1Hat := newPolyVec(p.L)
	s1Hat.copyFrom(s1)
	s1Hat.ntt()
	defer s1Hat.zeroize()

	t1 := newPolyVec(p.K)
	var t, t0 poly
	defer t.zeroize()
	defer t0.zeroize()
	for i := 0; i < p.K; i++ {
		t = poly{}
		for j := 0; j < p.L; j++ {
			nttMulAcc(&t, &mat[i*p.L+j], &s1Hat[j])
		}
		t.reduce()
		nttInverse(&t)
		t.freeze()
		t.add(&t, &s2[i])
		power2RoundPoly(&t, &t1[i], &t0)
	}

	pkBytes := pkEncode(p, rho[:], t1)
	if subtle.ConstantTimeCompare(tr[:], shake256Sum(64, pkBytes)) != 1 {
		return nil, fmt.Errorf("%w: private key does not match its public key binding", ErrInvalidEncoding)
	}
	return pkBytes, nil
}

// Public returns the public key corresponding to this private key.
// This implements the crypto.Signer interface. It returns nil if the key
// material fails the internal consistency check.
func (sk *PrivateKey) Public() crypto.PublicKey {
	pk, err := sk.PublicKey()
	if err != nil {
		return nil
	}
	return pk
}

// Sign signs digest with the private key.
// This implements the crypto.Signer interface.
//
// For ML-DSA, the digest is the message to be signed (not a hash).
// If opts is *SignerOpts, its Context field is used for domain separation.
func (sk *PrivateKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return sk.SignMessage(rand, digest, opts)
}

// SignMessage signs msg with the private key.
// This implements the crypto.MessageSigner interface (Go 1.25+).
//
// Returns an error if opts specifies a hash function, as ML-DSA signs
// messages directly.
func (sk *PrivateKey) SignMessage(rand io.Reader, msg []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts != nil && opts.HashFunc() != 0 {
		return nil, fmt.Errorf("%w: cannot sign pre-hashed messages", ErrInvalidParameter)
	}
	var context []byte
	if o, ok := opts.(*SignerOpts); ok && o != nil {
		context = o.Context
	}
	return sk.SignWithContext(rand, msg, context)
}

// SignWithContext signs a message with an optional context string of at most
// 255 bytes, drawing the 32-byte signer randomness from rand (hedged
// signing).
func (sk *PrivateKey) SignWithContext(rand io.Reader, message, context []byte) ([]byte, error) {
	if len(context) > 255 {
		return nil, fmt.Errorf("%w: context longer than 255 bytes", ErrInvalidParameter)
	}
	var rnd [RndSize]byte
	if _, err := io.ReadFull(rand, rnd[:]); err != nil {
		return nil, err
	}
	defer zeroizeBytes(rnd[:])

	prepared := prepareMessage(domainPure, context, message)
	return Sign(sk.params, sk.raw, prepared, rnd[:])
}

// SignDeterministic signs a message using the all-zero signer randomness,
// producing the FIPS 204 deterministic variant.
func (sk *PrivateKey) SignDeterministic(message, context []byte) ([]byte, error) {
	if len(context) > 255 {
		return nil, fmt.Errorf("%w: context longer than 255 bytes", ErrInvalidParameter)
	}
	var rnd [RndSize]byte
	prepared := prepareMessage(domainPure, context, message)
	return Sign(sk.params, sk.raw, prepared, rnd[:])
}
