package imaging

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for channel specs other than 1, 3 and -4.
var ErrUnsupportedFormat = errors.New("unsupported channel format")

// ChannelLayout is the decoded form of a signed channel spec.
type ChannelLayout int

const (
	// Gray is one byte of luma per pixel (channel spec 1).
	Gray ChannelLayout = iota + 1

	// RGB is three bytes per pixel in R, G, B order (channel spec 3).
	RGB

	// ARGB is four bytes per pixel in A, R, G, B order (channel spec -4).
	ARGB
)

// ParseChannelSpec decodes the signed channel count used at the C boundary.
//
// The absolute value gives the number of bytes per pixel and a negative sign
// selects the alternate (alpha first) byte order.
func ParseChannelSpec(spec int32) (ChannelLayout, error) {
	switch spec {
	case 1:
		return Gray, nil
	case 3:
		return RGB, nil
	case -4:
		return ARGB, nil
	default:
		return 0, fmt.Errorf("channel spec %d: %w", spec, ErrUnsupportedFormat)
	}
}

// Channels returns the number of bytes each pixel occupies in a raw buffer.
func (l ChannelLayout) Channels() int {
	switch l {
	case Gray:
		return 1
	case RGB:
		return 3
	case ARGB:
		return 4
	}
	return 0
}

// String returns the lower-case layout name used in log fields.
func (l ChannelLayout) String() string {
	switch l {
	case Gray:
		return "gray"
	case RGB:
		return "rgb"
	case ARGB:
		return "argb"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}
