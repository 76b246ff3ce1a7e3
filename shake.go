package mldsa

import "golang.org/x/crypto/sha3"

// SHAKE rates in bytes. The rejection samplers squeeze in rate-sized blocks
// so that no output byte is ever discarded at a block boundary.
const (
	shake128Rate = 168
	shake256Rate = 136
)

// xof is the extendable-output interface the samplers consume: incremental
// absorb via Write, incremental squeeze via Read, and Reset back to the
// absorb phase. golang.org/x/crypto/sha3 satisfies it for SHAKE128/256.
type xof = sha3.ShakeHash

func newShake128() xof {
	return sha3.NewShake128()
}

func newShake256() xof {
	return sha3.NewShake256()
}

// shake256Sum writes size bytes of SHAKE256 over the concatenation of the
// given chunks. Absorbing the chunks one by one is identical to absorbing
// their concatenation.
func shake256Sum(size int, chunks ...[]byte) []byte {
	h := sha3.NewShake256()
	for _, c := range chunks {
		h.Write(c)
	}
	out := make([]byte, size)
	h.Read(out)
	return out
}
