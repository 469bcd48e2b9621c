// Package pack serializes hash bit-vectors into caller-owned byte buffers.
//
// Bits are written most-significant-bit first in the order the hash produced
// them. A hash of size n occupies exactly AllocSize(n) bytes; padding bits in
// the last byte are zero and carry no meaning.
package pack

import (
	"math/bits"

	"github.com/ironsheep/imagehash-capi/internal/imghash"
)

// AllocSize returns the number of bytes needed to hold a hash of the given
// size: ceil(size*size / 8). It is computed in 64 bits and never overflows.
func AllocSize(size uint32) uint64 {
	sq := uint64(size) * uint64(size)
	n := sq / 8
	if sq%8 != 0 {
		n++
	}
	return n
}

// Pack writes b into dst and returns the number of bytes copied from the
// bit-vector. Only min(len(dst), byte length of b) bytes are copied; any
// remaining bytes of dst are zeroed so the caller never sees stale memory.
func Pack(b imghash.Bits, dst []byte) int {
	n := copy(dst, b.Bytes())
	clear(dst[n:])
	return n
}

// Distance returns the number of differing bits among the first n bits of
// two packed hashes. Bits past the end of either slice are not compared.
func Distance(a, b []byte, n int) int {
	if n <= 0 {
		return 0
	}
	full := n / 8
	if full > len(a) {
		full = len(a)
	}
	if full > len(b) {
		full = len(b)
	}

	d := 0
	for i := 0; i < full; i++ {
		d += bits.OnesCount8(a[i] ^ b[i])
	}

	rem := n - full*8
	if rem > 0 && full < len(a) && full < len(b) {
		if rem > 8 {
			rem = 8
		}
		mask := byte(0xff) << uint(8-rem)
		d += bits.OnesCount8((a[full] ^ b[full]) & mask)
	}
	return d
}
