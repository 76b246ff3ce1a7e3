// Package sampling provides the random byte sources consumed by key
// generation and hedged signing: a thread-safe system PRNG for production
// use and a keyed deterministic PRNG for reproducing key material and test
// vectors.
package sampling

import (
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for secure generation of random bytes.
type PRNG interface {
	io.Reader
}

// ThreadSafePRNG reads from the operating system entropy source and may be
// shared freely between goroutines.
type ThreadSafePRNG struct {
}

// NewPRNG returns a new PRNG that is thread-safe.
func NewPRNG() (*ThreadSafePRNG, error) {
	return &ThreadSafePRNG{}, nil
}

// Read fills sum from the system entropy source.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG deterministically expands a key into an unbounded byte stream
// using the blake2b XOF. Two instances created with the same key produce the
// same stream, which is what makes seeded key generation and signing KATs
// reproducible.
// WARNING: a KeyedPRNG created with key=nil is predictable and only suitable
// for tests. The stream is only deterministic when a single goroutine reads
// from it.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG. A nil key is treated as
// an empty key.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	prng := &KeyedPRNG{key: append([]byte(nil), key...)}
	var err error
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// Key returns a copy of the key used to seed the PRNG. The copy can be
// passed to NewKeyedPRNG to reproduce the same stream from the start.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read fills sum with the next bytes of the deterministic stream.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset rewinds the stream to its beginning.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
