package mldsa

// The samplers are deterministic in their seed and nonce inputs. The
// rejection samplers draw from a SHAKE stream squeezed in rate-sized blocks,
// so rejection never forces a buffer to grow or a partial block to be thrown
// away; expandMask squeezes its fixed output length in one read.

// sampleNTTPoly generates a uniformly random polynomial in the NTT domain by
// rejection sampling 23-bit candidates from SHAKE128 output. The coefficients
// are uniform in [0, q) and are already NTT-domain values by construction; no
// forward transform is applied. Implements FIPS 204 Algorithm 30 (RejNTTPoly).
func sampleNTTPoly(rho []byte, s, r byte) poly {
	h := newShake128()
	h.Write(rho)
	h.Write([]byte{s, r})

	var buf [shake128Rate]byte
	var a poly
	j := 0

	for {
		h.Read(buf[:])
		for i := 0; i < len(buf) && j < n; i += 3 {
			// 3 bytes little-endian, masked to 23 bits
			t := int32(buf[i]) | int32(buf[i+1])<<8 | int32(buf[i+2]&0x7f)<<16
			if t < q {
				a[j] = t
				j++
			}
		}
		if j >= n {
			return a
		}
	}
}

// expandA expands rho into the k x l matrix A with every entry sampled
// directly in the NTT domain. Row i, column j is seeded with rho || j || i.
func expandA(p Parameters, rho []byte) []poly {
	mat := make([]poly, p.K*p.L)
	for i := 0; i < p.K; i++ {
		for j := 0; j < p.L; j++ {
			mat[i*p.L+j] = sampleNTTPoly(rho, byte(j), byte(i))
		}
	}
	return mat
}

// sampleBoundedPoly generates a polynomial with coefficients in [-eta, eta],
// stored in standard form, by rejection sampling nibbles from SHAKE256
// output (low nibble first). Implements FIPS 204 Algorithm 31
// (RejBoundedPoly).
func sampleBoundedPoly(seed []byte, eta int32, nonce uint16) poly {
	h := newShake256()
	h.Write(seed)
	h.Write([]byte{byte(nonce), byte(nonce >> 8)})

	var buf [shake256Rate]byte
	var a poly
	j := 0
	offset := len(buf)

	for j < n {
		if offset >= len(buf) {
			h.Read(buf[:])
			offset = 0
		}

		z0 := int32(buf[offset] & 0x0f)
		z1 := int32(buf[offset] >> 4)
		offset++

		if eta == 2 {
			// valid nibbles are 0-14, mapped mod 5 to {2,1,0,-1,-2}
			if z0 < 15 {
				a[j] = fieldSub(2, z0-(z0/5)*5)
				j++
			}
			if j < n && z1 < 15 {
				a[j] = fieldSub(2, z1-(z1/5)*5)
				j++
			}
		} else { // eta == 4
			// valid nibbles are 0-8, mapped to {4,...,-4}
			if z0 <= 8 {
				a[j] = fieldSub(4, z0)
				j++
			}
			if j < n && z1 <= 8 {
				a[j] = fieldSub(4, z1)
				j++
			}
		}
	}
	return a
}

// expandS emits a dim-vector of polynomials with coefficients in [-eta, eta],
// consuming nonces nonce, nonce+1, ... per polynomial.
func expandS(seed []byte, eta int32, nonce, dim int) polyVec {
	v := newPolyVec(dim)
	for i := range v {
		v[i] = sampleBoundedPoly(seed, eta, uint16(nonce+i))
	}
	return v
}

// expandMask generates a masking polynomial with coefficients in
// [-(gamma1-1), gamma1], stored in standard form. The seed already carries
// the two nonce bytes. Implements FIPS 204 Algorithm 34 (ExpandMask).
func expandMask(seed []byte, gamma1 int32) poly {
	h := newShake256()
	h.Write(seed)

	var f poly
	if gamma1 == 1<<17 {
		// 18 bits per coefficient, 256 coefficients = 576 bytes
		var buf [576]byte
		h.Read(buf[:])
		unpackMask18(buf[:], &f)
	} else {
		// 20 bits per coefficient, 256 coefficients = 640 bytes
		var buf [640]byte
		h.Read(buf[:])
		unpackMask20(buf[:], &f)
	}
	return f
}

// unpackMask18 unpacks 4 coefficients from every 9 bytes as gamma1 - v for
// 18-bit little-endian v.
func unpackMask18(b []byte, f *poly) {
	const gamma1 = 1 << 17
	const mask = (1 << 18) - 1
	for i := 0; i < n; i += 4 {
		x := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
		x2 := uint64(b[8])
		f[i] = maskCoeff(gamma1, int32(x&mask))
		f[i+1] = maskCoeff(gamma1, int32((x>>18)&mask))
		f[i+2] = maskCoeff(gamma1, int32((x>>36)&mask))
		f[i+3] = maskCoeff(gamma1, int32(((x>>54)|(x2<<10))&mask))
		b = b[9:]
	}
}

// unpackMask20 unpacks 4 coefficients from every 10 bytes as gamma1 - v for
// 20-bit little-endian v.
func unpackMask20(b []byte, f *poly) {
	const gamma1 = 1 << 19
	const mask = (1 << 20) - 1
	for i := 0; i < n; i += 4 {
		x := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
		x2 := uint64(b[8]) | uint64(b[9])<<8
		f[i] = maskCoeff(gamma1, int32(x&mask))
		f[i+1] = maskCoeff(gamma1, int32((x>>20)&mask))
		f[i+2] = maskCoeff(gamma1, int32((x>>40)&mask))
		f[i+3] = maskCoeff(gamma1, int32(((x>>60)|(x2<<4))&mask))
		b = b[10:]
	}
}

// maskCoeff maps an unpacked value v in [0, 2*gamma1) to gamma1 - v mod q.
func maskCoeff(gamma1, v int32) int32 {
	t := gamma1 - v
	return t + ((t >> 31) & q)
}

// sampleChallenge generates the challenge polynomial with exactly tau
// non-zero coefficients in {+1, -1} (stored as 1 and q-1), using the
// Fisher-Yates shuffle driven by SHAKE256(cTilde). The single 64-bit sign
// register limits tau to 64, which covers every standardized parameter set.
// Implements FIPS 204 Algorithm 29 (SampleInBall).
func sampleChallenge(cTilde []byte, tau int) poly {
	if tau > 64 {
		panic("mldsa: challenge weight exceeds sign register")
	}

	h := newShake256()
	h.Write(cTilde)

	var buf [shake256Rate]byte
	h.Read(buf[:])

	// first 8 bytes form the little-endian sign register
	var signs uint64
	for i := 0; i < 8; i++ {
		signs |= uint64(buf[i]) << (8 * i)
	}
	offset := 8

	var c poly
	for i := n - tau; i < n; i++ {
		var j byte
		for {
			if offset >= len(buf) {
				h.Read(buf[:])
				offset = 0
			}
			j = buf[offset]
			offset++
			if int(j) <= i {
				break
			}
		}

		c[i] = c[j]
		if signs&1 == 0 {
			c[j] = 1
		} else {
			c[j] = q - 1
		}
		signs >>= 1
	}
	return c
}
