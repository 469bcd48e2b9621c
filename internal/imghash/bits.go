package imghash

// Bits is a fixed-length bit-vector. Bit 0 is the first bit pushed.
type Bits struct {
	data []byte
	n    int
}

// NewBits returns a zeroed bit-vector of length n.
func NewBits(n int) Bits {
	return Bits{data: make([]byte, (n+7)/8), n: n}
}

// Len returns the number of bits.
func (b Bits) Len() int { return b.n }

// Get reports whether bit i is set. It panics if i is out of range.
func (b Bits) Get(i int) bool {
	if i < 0 || i >= b.n {
		panic("imghash: bit index out of range")
	}
	return b.data[i>>3]&(0x80>>uint(i&7)) != 0
}

// Set sets bit i to v. It panics if i is out of range.
func (b Bits) Set(i int, v bool) {
	if i < 0 || i >= b.n {
		panic("imghash: bit index out of range")
	}
	mask := byte(0x80) >> uint(i&7)
	if v {
		b.data[i>>3] |= mask
	} else {
		b.data[i>>3] &^= mask
	}
}

// Bytes returns the bits packed most-significant-bit first. Padding bits in
// the final byte are zero. The returned slice is a copy.
func (b Bits) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// String renders the bits as '0' and '1' characters.
func (b Bits) String() string {
	s := make([]byte, b.n)
	for i := range s {
		if b.Get(i) {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}
