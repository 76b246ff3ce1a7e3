package mldsa

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Known-answer seeds and the first 32 bytes (rho) of the resulting ML-DSA-44
// public keys.
var selfTestVectors = []struct {
	seed string
	rho  string
}{
	{
		seed: "D71361C000F9A7BC99DFB425BCB6BB27C32C36AB444FF3708B2D93B4E66D5B5B",
		rho:  "B845FA2881407A59183071629B08223128116014FB58FF6BB4C8C9FE19CF5B0B",
	},
	{
		seed: "AB611F971C44D1B755D289E0FCFEE70F0EB5D9FDFB1BC31CA894A75794235AF8",
		rho:  "D712599A161ECD99EF5B7A04313D5507D612565F03AA9695ED7C2DF1CFA18056",
	},
}

// SelfTest runs a known-answer check of key generation against fixed seeds
// and a deterministic sign/verify roundtrip for every parameter set. It is
// intended as a power-on sanity check for callers that want one; it returns
// nil when every check passes.
func SelfTest() error {
	for _, v := range selfTestVectors {
		seed, err := hex.DecodeString(v.seed)
		if err != nil {
			return err
		}
		want, err := hex.DecodeString(v.rho)
		if err != nil {
			return err
		}
		pk, _, err := KeyGen(MLDSA44, seed)
		if err != nil {
			return err
		}
		if !bytes.Equal(pk[:32], want) {
			return fmt.Errorf("mldsa: self-test key generation mismatch")
		}
	}

	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	msg := []byte("self-test message")
	rnd := make([]byte, RndSize)
	prepared := prepareMessage(domainPure, nil, msg)

	for _, p := range []Parameters{MLDSA44, MLDSA65, MLDSA87} {
		pk, sk, err := KeyGen(p, seed)
		if err != nil {
			return err
		}
		sig, err := Sign(p, sk, prepared, rnd)
		if err != nil {
			return err
		}
		if !Verify(p, pk, prepared, sig) {
			return fmt.Errorf("mldsa: self-test signature did not verify for %s", p.Name)
		}
		zeroizeBytes(sk)
	}
	return nil
}
