package main

import (
	"unsafe"

	"github.com/ironsheep/imagehash-capi/internal/capi"
	"github.com/ironsheep/imagehash-capi/internal/handle"
)

// The functions below carry the C contract of each export in plain Go types.
// The //export wrappers in main.go only convert to and from C types.

// createImage returns the new handle, or 0 when the image is rejected.
func createImage(b *capi.Bridge, data unsafe.Pointer, width, height uint32, channels int32) uint64 {
	h, err := b.CreateImage(data, width, height, channels)
	if err != nil {
		return uint64(handle.Sentinel)
	}
	return uint64(h)
}

// createImageLen is createImage with the buffer length checked.
func createImageLen(b *capi.Bridge, data unsafe.Pointer, length uint64, width, height uint32, channels int32) uint64 {
	h, err := b.CreateImageLen(data, length, width, height, channels)
	if err != nil {
		return uint64(handle.Sentinel)
	}
	return uint64(h)
}

// createHash returns 1 on success and 0 on failure.
func createHash(b *capi.Bridge, image uint64, hashType int32, hashSize uint32, out unsafe.Pointer) int32 {
	if err := b.CreateHash(handle.Handle(image), capi.HashType(hashType), hashSize, out); err != nil {
		return 0
	}
	return 1
}

// hammingDistance returns the number of differing bits, or -1 on failure.
func hammingDistance(b *capi.Bridge, x, y unsafe.Pointer, hashSize uint32) int64 {
	d, err := b.Distance(x, y, hashSize)
	if err != nil {
		return -1
	}
	return d
}

func versionString() string {
	return Version
}
