package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrSizeMismatch is returned when a raw buffer is not exactly
// width*height*channels bytes long.
var ErrSizeMismatch = errors.New("pixel buffer size mismatch")

// BufferLen returns the number of bytes a raw buffer with the given
// dimensions and layout must contain. It reports false when the product
// does not fit in an int or a dimension is negative.
func BufferLen(width, height int, layout ChannelLayout) (int, bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	ch := layout.Channels()
	if ch == 0 {
		return 0, false
	}
	if width == 0 || height == 0 {
		return 0, true
	}
	const maxInt = int(^uint(0) >> 1)
	if width > maxInt/height || width*height > maxInt/ch {
		return 0, false
	}
	return width * height * ch, true
}

// Normalize converts a raw pixel buffer into a canonical grayscale image.
//
// Parameters:
//   - data: Row-major pixel bytes. Must be exactly BufferLen(width, height, layout)
//     bytes long. The slice is read but never retained or modified.
//   - width, height: Image dimensions in pixels. Zero is allowed and produces
//     a zero-area image.
//   - layout: Byte layout of each pixel, usually from ParseChannelSpec.
//
// Returns:
//   - *image.Gray: A new image with bounds Rect(0, 0, width, height).
//   - error: ErrUnsupportedFormat for an unknown layout, ErrSizeMismatch when
//     len(data) does not match the dimensions.
func Normalize(data []byte, width, height int, layout ChannelLayout) (*image.Gray, error) {
	if layout.Channels() == 0 {
		return nil, fmt.Errorf("%v: %w", layout, ErrUnsupportedFormat)
	}

	want, ok := BufferLen(width, height, layout)
	if !ok {
		return nil, fmt.Errorf("dimensions %dx%d (%v) overflow: %w", width, height, layout, ErrSizeMismatch)
	}
	if len(data) != want {
		return nil, fmt.Errorf("got %d bytes, want %d for %dx%d %v: %w",
			len(data), want, width, height, layout, ErrSizeMismatch)
	}

	switch layout {
	case Gray:
		gray := image.NewGray(image.Rect(0, 0, width, height))
		copy(gray.Pix, data)
		return gray, nil
	case RGB:
		return luma(expandRGB(data, width, height)), nil
	default:
		rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		copy(rgba.Pix, data)
		PermuteARGB(rgba.Pix)
		return luma(rgba), nil
	}
}

// PermuteARGB rewrites 4-byte ARGB pixels in place as RGBA by moving the
// first byte of every pixel to the last position. A trailing partial pixel
// is left untouched.
func PermuteARGB(pix []byte) {
	for i := 0; i+4 <= len(pix); i += 4 {
		a := pix[i]
		pix[i] = pix[i+1]
		pix[i+1] = pix[i+2]
		pix[i+2] = pix[i+3]
		pix[i+3] = a
	}
}

// expandRGB copies 3-byte pixels into an opaque NRGBA image.
func expandRGB(data []byte, width, height int) *image.NRGBA {
	rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+3 <= len(data); i, j = i+3, j+4 {
		rgba.Pix[j] = data[i]
		rgba.Pix[j+1] = data[i+1]
		rgba.Pix[j+2] = data[i+2]
		rgba.Pix[j+3] = 0xff
	}
	return rgba
}

// luma reduces a non-premultiplied image to a single channel. Grayscale
// writes the BT.601 luma into R, G and B and leaves alpha alone, so reading
// the red channel back yields luma that alpha never touched.
func luma(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bounds.Empty() {
		return gray
	}

	converted := imaging.Grayscale(src)
	for i := range gray.Pix {
		gray.Pix[i] = converted.Pix[i*4]
	}
	return gray
}

// LumaOf returns the canonical luma of a single RGB triple. It matches the
// conversion Normalize applies to every color pixel.
func LumaOf(r, g, b uint8) uint8 {
	f := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return uint8(f + 0.5)
}
