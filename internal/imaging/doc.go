// Package imaging normalizes caller-supplied raw pixel buffers into the
// canonical single-channel image every hash algorithm operates on.
//
// A raw buffer is described by its width, height and a signed channel spec.
// The absolute value of the spec is the number of bytes per pixel and its
// sign selects the byte order:
//
//	 1  grayscale, passed through unchanged
//	 3  RGB, converted to luma
//	-4  ARGB, permuted to RGBA and then converted to luma
//
// Every other spec, including a positive 4, is rejected with
// ErrUnsupportedFormat.
//
// # Coordinate System
//
// Buffers are row-major with (0,0) at the top-left corner. The canonical
// image always has bounds Rect(0, 0, width, height), so pixel (x, y) lives at
// Pix[y*width+x].
//
// # Luma Conversion
//
// Color pixels are reduced to luma using the ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), rounded to the nearest integer. Alpha is
// never part of the sum.
//
// # Ownership
//
// Normalize only reads from its input and never retains it. The returned
// *image.Gray owns a freshly allocated pixel buffer.
package imaging
