package mldsa

import "fmt"

// Bit-packed polynomial encodings. Packers write the low b bits of each
// coefficient LSB-first; centered variants encode bound - c mod q so that
// the packed value is non-negative. All polynomials are in standard form
// [0, q) on both sides.

// packT1 packs a polynomial with 10-bit coefficients (public key t1).
func packT1(b []byte, f *poly) {
	for i := 0; i < n; i += 4 {
		x := uint64(f[i]) | uint64(f[i+1])<<10 | uint64(f[i+2])<<20 | uint64(f[i+3])<<30
		b[i/4*5] = byte(x)
		b[i/4*5+1] = byte(x >> 8)
		b[i/4*5+2] = byte(x >> 16)
		b[i/4*5+3] = byte(x >> 24)
		b[i/4*5+4] = byte(x >> 32)
	}
}

// unpackT1 unpacks a polynomial with 10-bit coefficients. Every 10-bit
// pattern is a valid t1 coefficient, so no range check is needed.
func unpackT1(b []byte) poly {
	var f poly
	for i := 0; i < n; i += 4 {
		x := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 | uint64(b[4])<<32
		f[i] = int32(x & 0x3FF)
		f[i+1] = int32((x >> 10) & 0x3FF)
		f[i+2] = int32((x >> 20) & 0x3FF)
		f[i+3] = int32((x >> 30) & 0x3FF)
		b = b[5:]
	}
	return f
}

// packT0 packs a polynomial with 13-bit centered coefficients (private key
// t0), encoding 2^(d-1) - c.
func packT0(b []byte, f *poly) {
	const half = 1 << (d - 1)
	idx := 0
	for i := 0; i < n; i += 8 {
		var x1, x2 uint64
		x1 = uint64(fieldSub(half, f[i]))
		x1 |= uint64(fieldSub(half, f[i+1])) << 13
		x1 |= uint64(fieldSub(half, f[i+2])) << 26
		x1 |= uint64(fieldSub(half, f[i+3])) << 39
		a := uint64(fieldSub(half, f[i+4]))
		x1 |= a << 52
		x2 = a >> 12
		x2 |= uint64(fieldSub(half, f[i+5])) << 1
		x2 |= uint64(fieldSub(half, f[i+6])) << 14
		x2 |= uint64(fieldSub(half, f[i+7])) << 27

		b[idx] = byte(x1)
		b[idx+1] = byte(x1 >> 8)
		b[idx+2] = byte(x1 >> 16)
		b[idx+3] = byte(x1 >> 24)
		b[idx+4] = byte(x1 >> 32)
		b[idx+5] = byte(x1 >> 40)
		b[idx+6] = byte(x1 >> 48)
		b[idx+7] = byte(x1 >> 56)
		b[idx+8] = byte(x2)
		b[idx+9] = byte(x2 >> 8)
		b[idx+10] = byte(x2 >> 16)
		b[idx+11] = byte(x2 >> 24)
		b[idx+12] = byte(x2 >> 32)
		idx += 13
	}
}

// unpackT0 unpacks a polynomial with 13-bit centered coefficients. Every
// 13-bit pattern maps into the valid t0 range [-(2^(d-1)-1), 2^(d-1)].
func unpackT0(b []byte) poly {
	var f poly
	const half = 1 << (d - 1)
	const mask = (1 << d) - 1
	for i := 0; i < n; i += 8 {
		x1 := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
		x2 := uint64(b[8]) | uint64(b[9])<<8 | uint64(b[10])<<16 | uint64(b[11])<<24 | uint64(b[12])<<32
		b = b[13:]

		f[i] = fieldSub(half, int32(x1&mask))
		f[i+1] = fieldSub(half, int32((x1>>13)&mask))
		f[i+2] = fieldSub(half, int32((x1>>26)&mask))
		f[i+3] = fieldSub(half, int32((x1>>39)&mask))
		f[i+4] = fieldSub(half, int32(((x1>>52)|(x2<<12))&mask))
		f[i+5] = fieldSub(half, int32((x2>>1)&mask))
		f[i+6] = fieldSub(half, int32((x2>>14)&mask))
		f[i+7] = fieldSub(half, int32((x2>>27)&mask))
	}
	return f
}

// packEta2 packs a polynomial with coefficients in [-2, 2] using 3 bits each.
func packEta2(b []byte, f *poly) {
	for i := 0; i < n; i += 8 {
		var x uint32
		for j := 0; j < 8; j++ {
			x |= uint32(fieldSub(2, f[i+j])) << (3 * j)
		}
		b[i/8*3] = byte(x)
		b[i/8*3+1] = byte(x >> 8)
		b[i/8*3+2] = byte(x >> 16)
	}
}

// unpackEta2 unpacks a polynomial with coefficients in [-2, 2], rejecting
// the three encodings per group that fall outside [0, 4].
func unpackEta2(b []byte) (poly, error) {
	var f poly
	for i := 0; i < n; i += 8 {
		x := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		// select the MSB of each 3-bit group; values 5-7 have it set together
		// with bit 0 or 1
		msbs := x & 0o44444444
		mask := (msbs >> 1) | (msbs >> 2)
		if mask&x != 0 {
			return poly{}, fmt.Errorf("%w: secret coefficient out of range", ErrInvalidEncoding)
		}
		b = b[3:]
		for j := 0; j < 8; j++ {
			f[i+j] = fieldSub(2, int32((x>>(3*j))&0x7))
		}
	}
	return f, nil
}

// packEta4 packs a polynomial with coefficients in [-4, 4] using 4 bits each.
func packEta4(b []byte, f *poly) {
	for i := 0; i < n; i += 2 {
		b[i/2] = byte(fieldSub(4, f[i])) | byte(fieldSub(4, f[i+1]))<<4
	}
}

// unpackEta4 unpacks a polynomial with coefficients in [-4, 4], rejecting
// nibbles greater than 8.
func unpackEta4(b []byte) (poly, error) {
	var f poly
	for i := 0; i < n; i += 8 {
		x := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		msbs := x & 0x88888888
		mask := (msbs >> 1) | (msbs >> 2) | (msbs >> 3)
		if mask&x != 0 {
			return poly{}, fmt.Errorf("%w: secret coefficient out of range", ErrInvalidEncoding)
		}
		b = b[4:]
		for j := 0; j < 8; j++ {
			f[i+j] = fieldSub(4, int32((x>>(4*j))&0xF))
		}
	}
	return f, nil
}

// packEta dispatches on the parameter set's eta.
func packEta(b []byte, f *poly, eta int32) {
	if eta == 2 {
		packEta2(b, f)
	} else {
		packEta4(b, f)
	}
}

// unpackEta dispatches on the parameter set's eta.
func unpackEta(b []byte, eta int32) (poly, error) {
	if eta == 2 {
		return unpackEta2(b)
	}
	return unpackEta4(b)
}

// packZ18 packs a response polynomial with gamma1 = 2^17, 18 bits per
// coefficient, encoding gamma1 - c.
func packZ18(b []byte, f *poly) {
	const gamma1 = 1 << 17
	idx := 0
	for i := 0; i < n; i += 4 {
		var x1, x2 uint64
		x1 = uint64(fieldSub(gamma1, f[i]))
		x1 |= uint64(fieldSub(gamma1, f[i+1])) << 18
		x1 |= uint64(fieldSub(gamma1, f[i+2])) << 36
		x2 = uint64(fieldSub(gamma1, f[i+3]))
		x1 |= x2 << 54
		x2 >>= 10

		b[idx] = byte(x1)
		b[idx+1] = byte(x1 >> 8)
		b[idx+2] = byte(x1 >> 16)
		b[idx+3] = byte(x1 >> 24)
		b[idx+4] = byte(x1 >> 32)
		b[idx+5] = byte(x1 >> 40)
		b[idx+6] = byte(x1 >> 48)
		b[idx+7] = byte(x1 >> 56)
		b[idx+8] = byte(x2)
		idx += 9
	}
}

// packZ20 packs a response polynomial with gamma1 = 2^19, 20 bits per
// coefficient.
func packZ20(b []byte, f *poly) {
	const gamma1 = 1 << 19
	idx := 0
	for i := 0; i < n; i += 4 {
		var x1, x2 uint64
		x1 = uint64(fieldSub(gamma1, f[i]))
		x1 |= uint64(fieldSub(gamma1, f[i+1])) << 20
		x1 |= uint64(fieldSub(gamma1, f[i+2])) << 40
		x2 = uint64(fieldSub(gamma1, f[i+3]))
		x1 |= x2 << 60
		x2 >>= 4

		b[idx] = byte(x1)
		b[idx+1] = byte(x1 >> 8)
		b[idx+2] = byte(x1 >> 16)
		b[idx+3] = byte(x1 >> 24)
		b[idx+4] = byte(x1 >> 32)
		b[idx+5] = byte(x1 >> 40)
		b[idx+6] = byte(x1 >> 48)
		b[idx+7] = byte(x1 >> 56)
		b[idx+8] = byte(x2)
		b[idx+9] = byte(x2 >> 8)
		idx += 10
	}
}

// packZ dispatches on gamma1.
func packZ(b []byte, f *poly, gamma1 int32) {
	if gamma1 == 1<<17 {
		packZ18(b, f)
	} else {
		packZ20(b, f)
	}
}

// unpackZ reverses packZ. Because the packed width is exactly log2(2*gamma1),
// every bit pattern maps into the canonical coefficient set
// [0, gamma1] u [q-gamma1+1, q-1]; non-canonical encodings cannot exist.
func unpackZ(b []byte, gamma1 int32) poly {
	var f poly
	if gamma1 == 1<<17 {
		unpackMask18(b, &f)
	} else {
		unpackMask20(b, &f)
	}
	return f
}

// packW1 packs a commitment polynomial with w1Bits bits per coefficient.
func packW1(b []byte, f *poly, w1Bits int) {
	if w1Bits == 4 {
		for i := 0; i < n; i += 2 {
			b[i/2] = byte(f[i]) | byte(f[i+1])<<4
		}
		return
	}
	// 6-bit coefficients for gamma2 = (q-1)/88
	for i := 0; i < n; i += 4 {
		x := uint32(f[i]) | uint32(f[i+1])<<6 | uint32(f[i+2])<<12 | uint32(f[i+3])<<18
		b[i/4*3] = byte(x)
		b[i/4*3+1] = byte(x >> 8)
		b[i/4*3+2] = byte(x >> 16)
	}
}

// packHint writes the sparse hint encoding: the indices of non-zero
// coefficients in ascending order per polynomial into the first omega bytes,
// followed by one running count byte per polynomial.
func packHint(b []byte, hints polyVec, omega int) {
	idx := 0
	for i := range hints {
		for j := 0; j < n; j++ {
			if hints[i][j] != 0 {
				b[idx] = byte(j)
				idx++
			}
		}
		b[omega+i] = byte(idx)
	}
}

// parseHint decodes the sparse hint encoding into hints, enforcing the
// canonical form: count bytes non-decreasing and at most omega, indices
// strictly ascending within each polynomial, and all unused index slots
// zero.
func parseHint(b []byte, hints polyVec, omega int) error {
	idx := 0
	for i := range hints {
		limit := int(b[omega+i])
		if limit < idx || limit > omega {
			return fmt.Errorf("%w: hint counts not monotone", ErrInvalidEncoding)
		}
		first := idx
		for ; idx < limit; idx++ {
			pos := b[idx]
			if idx > first && b[idx-1] >= pos {
				return fmt.Errorf("%w: hint indices not ascending", ErrInvalidEncoding)
			}
			hints[i][pos] = 1
		}
	}
	for ; idx < omega; idx++ {
		if b[idx] != 0 {
			return fmt.Errorf("%w: unused hint slot not zero", ErrInvalidEncoding)
		}
	}
	return nil
}

// pkEncode encodes a public key as rho || pack(t1, 10).
func pkEncode(p Parameters, rho []byte, t1 polyVec) []byte {
	pk := make([]byte, p.PublicKeySize())
	copy(pk[:32], rho)
	offset := 32
	for i := range t1 {
		packT1(pk[offset:], &t1[i])
		offset += polyT1Size
	}
	return pk
}

// pkDecode splits and unpacks an encoded public key.
func pkDecode(p Parameters, pk []byte) (rho [32]byte, t1 polyVec, err error) {
	if len(pk) != p.PublicKeySize() {
		return rho, nil, fmt.Errorf("%w: public key must be %d bytes", ErrInvalidEncoding, p.PublicKeySize())
	}
	copy(rho[:], pk[:32])
	t1 = newPolyVec(p.K)
	offset := 32
	for i := range t1 {
		t1[i] = unpackT1(pk[offset : offset+polyT1Size])
		offset += polyT1Size
	}
	return rho, t1, nil
}

// skEncode encodes a private key as
// rho || K || tr || pack(s1) || pack(s2) || pack(t0).
func skEncode(p Parameters, rho, key, tr []byte, s1, s2, t0 polyVec) []byte {
	sk := make([]byte, p.PrivateKeySize())
	copy(sk[:32], rho)
	copy(sk[32:64], key)
	copy(sk[64:128], tr)

	offset := 128
	etaSize := p.polyEtaSize()
	for i := range s1 {
		packEta(sk[offset:], &s1[i], p.Eta)
		offset += etaSize
	}
	for i := range s2 {
		packEta(sk[offset:], &s2[i], p.Eta)
		offset += etaSize
	}
	for i := range t0 {
		packT0(sk[offset:], &t0[i])
		offset += polyT0Size
	}
	return sk
}

// skDecode splits and unpacks an encoded private key, validating the s1/s2
// coefficient ranges.
func skDecode(p Parameters, sk []byte) (rho, key [32]byte, tr [64]byte, s1, s2, t0 polyVec, err error) {
	if len(sk) != p.PrivateKeySize() {
		err = fmt.Errorf("%w: private key must be %d bytes", ErrInvalidEncoding, p.PrivateKeySize())
		return
	}
	copy(rho[:], sk[:32])
	copy(key[:], sk[32:64])
	copy(tr[:], sk[64:128])

	offset := 128
	etaSize := p.polyEtaSize()
	s1 = newPolyVec(p.L)
	for i := range s1 {
		if s1[i], err = unpackEta(sk[offset:offset+etaSize], p.Eta); err != nil {
			return
		}
		offset += etaSize
	}
	s2 = newPolyVec(p.K)
	for i := range s2 {
		if s2[i], err = unpackEta(sk[offset:offset+etaSize], p.Eta); err != nil {
			return
		}
		offset += etaSize
	}
	t0 = newPolyVec(p.K)
	for i := range t0 {
		t0[i] = unpackT0(sk[offset : offset+polyT0Size])
		offset += polyT0Size
	}
	return
}

// sigEncode encodes a signature as cTilde || pack(z) || hint encoding.
func sigEncode(p Parameters, cTilde []byte, z, h polyVec) []byte {
	sig := make([]byte, p.SignatureSize())
	copy(sig, cTilde)
	offset := p.cTildeSize()
	zSize := p.polyZSize()
	for i := range z {
		packZ(sig[offset:], &z[i], p.Gamma1)
		offset += zSize
	}
	packHint(sig[offset:], h, p.Omega)
	return sig
}

// sigDecode splits and unpacks a signature with the strict canonical checks:
// exact size, canonical z coefficients (guaranteed by the packed width) and
// a well-formed hint encoding.
func sigDecode(p Parameters, sig []byte) (cTilde []byte, z, h polyVec, err error) {
	if len(sig) != p.SignatureSize() {
		return nil, nil, nil, fmt.Errorf("%w: signature must be %d bytes", ErrInvalidEncoding, p.SignatureSize())
	}
	cTilde = sig[:p.cTildeSize()]
	offset := p.cTildeSize()
	zSize := p.polyZSize()
	z = newPolyVec(p.L)
	for i := range z {
		z[i] = unpackZ(sig[offset:offset+zSize], p.Gamma1)
		offset += zSize
	}
	h = newPolyVec(p.K)
	if err = parseHint(sig[offset:], h, p.Omega); err != nil {
		return nil, nil, nil, err
	}
	return cTilde, z, h, nil
}
