// Command libimagehash is built as a C shared library exposing perceptual
// image hashing to foreign callers:
//
//	go build -buildmode=c-shared -o libimagehash.so ./cmd/libimagehash
//
// The generated libimagehash.h declares the exported functions below. Every
// function returns a sentinel (0, false or -1) on failure and never lets a Go
// panic cross into C.
//
// Environment variables, read once at load time:
//
//	IMAGEHASH_LOG_LEVEL=debug      Log every call to stderr (default: error)
//	IMAGEHASH_MAX_HASH_SIZE=256    Largest accepted hash_size
//	IMAGEHASH_MAX_PIXELS=268435456 Largest accepted width*height
package main

/*
#include <stdint.h>
#include <stddef.h>

typedef enum {
	IMAGE_HASH_MEAN = 1,
	IMAGE_HASH_GRADIENT = 2,
	IMAGE_HASH_DOUBLE_GRADIENT = 3,
	IMAGE_HASH_DCT = 4,
} image_hash_type;
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/ironsheep/imagehash-capi/internal/capi"
	"github.com/ironsheep/imagehash-capi/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	bridge  *capi.Bridge
	version *C.char
)

func init() {
	cfg, cfgErr := config.Load()
	logger := config.Setup(cfg, cfgErr)
	logger.Debug("library loaded", zap.String("version", Version), zap.String("commit", GitCommit))

	bridge = capi.New(cfg, logger)
	// Allocated once and never freed; callers may hold it for the process lifetime.
	version = C.CString(versionString())
}

//export create_hash_image
func create_hash_image(data *C.uchar, width, height C.uint, channels C.int) C.uint64_t {
	return C.uint64_t(createImage(bridge, unsafe.Pointer(data), uint32(width), uint32(height), int32(channels)))
}

//export create_hash_image_len
func create_hash_image_len(data *C.uchar, length C.size_t, width, height C.uint, channels C.int) C.uint64_t {
	return C.uint64_t(createImageLen(bridge, unsafe.Pointer(data), uint64(length), uint32(width), uint32(height), int32(channels)))
}

//export create_hash
func create_hash(image C.uint64_t, hashType C.image_hash_type, hashSize C.uint, out *C.uchar) C.int {
	return C.int(createHash(bridge, uint64(image), int32(hashType), uint32(hashSize), unsafe.Pointer(out)))
}

//export get_hash_data_alloc_size
func get_hash_data_alloc_size(hashSize C.uint) C.size_t {
	return C.size_t(bridge.AllocSize(uint32(hashSize)))
}

//export hash_hamming_distance
func hash_hamming_distance(a, b *C.uchar, hashSize C.uint) C.longlong {
	return C.longlong(hammingDistance(bridge, unsafe.Pointer(a), unsafe.Pointer(b), uint32(hashSize)))
}

//export image_hash_version
func image_hash_version() *C.char {
	return version
}

func main() {}
