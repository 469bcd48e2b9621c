package imghash

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidSize is returned for a hash size outside [1, MaxSize].
	ErrInvalidSize = errors.New("invalid hash size")

	// ErrImageTooSmall is returned for images with zero area.
	ErrImageTooSmall = errors.New("image too small to hash")

	// ErrUnknownAlgorithm is returned for an Algorithm outside the known set.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// MaxSize is the largest hash size Hash accepts. A DCT hash of this size
// already works on a 1024 x 1024 thumbnail.
const MaxSize = 512

// Algorithm selects a hashing strategy.
type Algorithm int

const (
	Mean Algorithm = iota
	Gradient
	DoubleGradient
	DCT
)

func (a Algorithm) String() string {
	switch a {
	case Mean:
		return "mean"
	case Gradient:
		return "gradient"
	case DoubleGradient:
		return "double-gradient"
	case DCT:
		return "dct"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Hash computes the perceptual hash of img.
//
// Parameters:
//   - img: Source image. Any image.Image works; color images are reduced to
//     BT.601 luma after resizing. Must have non-zero area.
//   - size: Side length of the hash. The result has size*size bits.
//   - alg: Hashing strategy.
//
// Returns:
//   - Bits: size*size bits in row-major order.
//   - error: ErrInvalidSize, ErrImageTooSmall or ErrUnknownAlgorithm.
//
// Hash is deterministic: equal inputs always give equal bits.
func Hash(img image.Image, size int, alg Algorithm) (Bits, error) {
	if size < 1 || size > MaxSize {
		return Bits{}, fmt.Errorf("size %d: %w", size, ErrInvalidSize)
	}
	if img == nil || img.Bounds().Empty() {
		return Bits{}, ErrImageTooSmall
	}

	switch alg {
	case Mean:
		return meanHash(img, size), nil
	case Gradient:
		return gradientHash(img, size), nil
	case DoubleGradient:
		return doubleGradientHash(img, size), nil
	case DCT:
		return dctHash(img, size), nil
	}
	return Bits{}, fmt.Errorf("%v: %w", alg, ErrUnknownAlgorithm)
}

func meanHash(img image.Image, size int) Bits {
	g := thumbnail(img, size, size)

	var sum uint64
	for _, p := range g.pix {
		sum += uint64(p)
	}
	mean := sum / uint64(len(g.pix))

	bits := NewBits(size * size)
	for i, p := range g.pix {
		bits.Set(i, uint64(p) >= mean)
	}
	return bits
}

func gradientHash(img image.Image, size int) Bits {
	// One extra column gives size comparisons per row.
	g := thumbnail(img, size+1, size)

	bits := NewBits(size * size)
	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			bits.Set(i, g.at(x, y) < g.at(x+1, y))
			i++
		}
	}
	return bits
}

func doubleGradientHash(img image.Image, size int) Bits {
	g := thumbnail(img, size+1, size+1)

	bits := NewBits(size * size)
	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				bits.Set(i, g.at(x, y) < g.at(x+1, y))
			} else {
				bits.Set(i, g.at(x, y) < g.at(x, y+1))
			}
			i++
		}
	}
	return bits
}

func dctHash(img image.Image, size int) Bits {
	n := size * 2
	g := thumbnail(img, n, n)

	in := make([]float64, n*n)
	for i, p := range g.pix {
		in[i] = float64(p)
	}
	coeffs := dct2D(in, n, size)

	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	mean := sum / float64(len(coeffs))

	bits := NewBits(size * size)
	for i, c := range coeffs {
		bits.Set(i, c > mean)
	}
	return bits
}
