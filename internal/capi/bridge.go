package capi

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/imagehash-capi/internal/config"
	"github.com/ironsheep/imagehash-capi/internal/handle"
	"github.com/ironsheep/imagehash-capi/internal/imaging"
	"github.com/ironsheep/imagehash-capi/internal/imghash"
	"github.com/ironsheep/imagehash-capi/internal/pack"
)

var (
	// ErrNullPointer is returned when a required pointer is nil.
	ErrNullPointer = errors.New("null pointer")

	// ErrBufferTooLarge is returned when an image exceeds the configured
	// pixel limit.
	ErrBufferTooLarge = errors.New("pixel buffer too large")

	// ErrPanic is returned when a call recovered from a panic.
	ErrPanic = errors.New("internal panic")
)

// Bridge carries the state shared by every boundary call.
type Bridge struct {
	cfg      config.Config
	log      *zap.Logger
	registry *handle.Registry
}

// New creates a Bridge with its own handle registry. A nil logger disables
// logging.
func New(cfg config.Config, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{
		cfg:      cfg,
		log:      log,
		registry: handle.NewRegistry(),
	}
}

// LiveHandles returns the number of images created but not yet hashed.
func (b *Bridge) LiveHandles() int {
	return b.registry.Len()
}

// CreateImage normalizes width*height*|channels| bytes at data into a
// canonical image and returns a handle for it.
//
// The buffer length is derived from the arguments, so data must point to at
// least that many readable bytes. On rejection the returned handle is
// handle.Sentinel and the error says why.
func (b *Bridge) CreateImage(data unsafe.Pointer, width, height uint32, channels int32) (h handle.Handle, err error) {
	defer b.recoverInto("create_hash_image", &err)

	layout, size, err := b.describe(width, height, channels)
	if err != nil {
		return handle.Sentinel, b.reject("create_hash_image", err, zap.Int32("channels", channels))
	}
	return b.createImage(data, size, width, height, layout)
}

// CreateImageLen is CreateImage with an explicit buffer length. The call is
// rejected with imaging.ErrSizeMismatch unless length equals the length
// derived from the dimensions, so nothing outside [data, data+length) is
// ever read.
func (b *Bridge) CreateImageLen(data unsafe.Pointer, length uint64, width, height uint32, channels int32) (h handle.Handle, err error) {
	defer b.recoverInto("create_hash_image_len", &err)

	layout, size, err := b.describe(width, height, channels)
	if err != nil {
		return handle.Sentinel, b.reject("create_hash_image_len", err, zap.Int32("channels", channels))
	}
	if length != size {
		err = fmt.Errorf("buffer is %d bytes, dimensions need %d: %w", length, size, imaging.ErrSizeMismatch)
		return handle.Sentinel, b.reject("create_hash_image_len", err, zap.Uint64("length", length))
	}
	return b.createImage(data, size, width, height, layout)
}

// describe decodes the channel spec and computes the buffer length in 64-bit
// arithmetic so large dimensions cannot wrap.
func (b *Bridge) describe(width, height uint32, channels int32) (imaging.ChannelLayout, uint64, error) {
	layout, err := imaging.ParseChannelSpec(channels)
	if err != nil {
		return 0, 0, err
	}
	pixels := uint64(width) * uint64(height)
	if b.cfg.MaxPixels > 0 && pixels > uint64(b.cfg.MaxPixels) {
		return 0, 0, fmt.Errorf("%dx%d exceeds %d pixels: %w", width, height, b.cfg.MaxPixels, ErrBufferTooLarge)
	}
	size := pixels * uint64(layout.Channels())
	if size > uint64(^uint(0)>>1) {
		return 0, 0, fmt.Errorf("%dx%d: %w", width, height, ErrBufferTooLarge)
	}
	return layout, size, nil
}

func (b *Bridge) createImage(data unsafe.Pointer, size uint64, width, height uint32, layout imaging.ChannelLayout) (handle.Handle, error) {
	var buf []byte
	if size > 0 {
		if data == nil {
			return handle.Sentinel, b.reject("create_hash_image", fmt.Errorf("pixel data: %w", ErrNullPointer))
		}
		buf = unsafe.Slice((*byte)(data), int(size))
	}

	if ce := b.log.Check(zapcore.DebugLevel, "normalizing pixels"); ce != nil {
		ce.Write(
			zap.Uint32("width", width),
			zap.Uint32("height", height),
			zap.Stringer("layout", layout),
			zap.Uint64("pixels_xxh64", xxhash.Sum64(buf)),
		)
	}

	img, err := imaging.Normalize(buf, int(width), int(height), layout)
	if err != nil {
		return handle.Sentinel, b.reject("create_hash_image", err)
	}

	h, err := b.registry.Wrap(img)
	if err != nil {
		return handle.Sentinel, b.reject("create_hash_image", err)
	}
	b.log.Debug("image created", zap.Stringer("handle", h), zap.Int("live", b.registry.Len()))
	return h, nil
}

// CreateHash consumes h, hashes its image and packs the result into out.
//
// out must point to at least AllocSize(hashSize) writable bytes; exactly
// that many bytes are written on success. Any live handle is consumed, even
// when the hash type or size is rejected, so the caller must never reuse h.
func (b *Bridge) CreateHash(h handle.Handle, hashType HashType, hashSize uint32, out unsafe.Pointer) (err error) {
	defer b.recoverInto("create_hash", &err)

	if h == handle.Sentinel {
		return b.reject("create_hash", handle.ErrInvalidHandle)
	}
	if out == nil {
		return b.reject("create_hash", fmt.Errorf("output buffer: %w", ErrNullPointer), zap.Stringer("handle", h))
	}

	img, err := b.registry.Consume(h)
	if err != nil {
		return b.reject("create_hash", err)
	}

	alg, err := hashType.Algorithm()
	if err != nil {
		return b.reject("create_hash", err, zap.Stringer("handle", h))
	}
	if limit := b.maxHashSize(); hashSize == 0 || hashSize > limit {
		err = fmt.Errorf("hash size %d outside [1, %d]: %w", hashSize, limit, imghash.ErrInvalidSize)
		return b.reject("create_hash", err, zap.Stringer("handle", h))
	}

	bits, err := imghash.Hash(img, int(hashSize), alg)
	if err != nil {
		return b.reject("create_hash", err, zap.Stringer("handle", h), zap.Stringer("algorithm", alg))
	}

	dst := unsafe.Slice((*byte)(out), int(pack.AllocSize(hashSize)))
	pack.Pack(bits, dst)

	b.log.Debug("hash computed",
		zap.Stringer("handle", h),
		zap.Stringer("algorithm", alg),
		zap.Uint32("size", hashSize),
		zap.Binary("hash", dst),
	)
	return nil
}

// AllocSize returns the destination size CreateHash needs for hashSize.
func (b *Bridge) AllocSize(hashSize uint32) uint64 {
	return pack.AllocSize(hashSize)
}

// Distance returns the Hamming distance between two packed hashes of the
// given size, reading AllocSize(hashSize) bytes from each.
func (b *Bridge) Distance(x, y unsafe.Pointer, hashSize uint32) (d int64, err error) {
	defer b.recoverInto("hash_hamming_distance", &err)

	if x == nil || y == nil {
		return -1, b.reject("hash_hamming_distance", fmt.Errorf("hash buffer: %w", ErrNullPointer))
	}
	if hashSize > b.maxHashSize() {
		return -1, b.reject("hash_hamming_distance", fmt.Errorf("hash size %d: %w", hashSize, imghash.ErrInvalidSize))
	}
	n := int(pack.AllocSize(hashSize))
	if n == 0 {
		return 0, nil
	}
	xs := unsafe.Slice((*byte)(x), n)
	ys := unsafe.Slice((*byte)(y), n)
	return int64(pack.Distance(xs, ys, int(hashSize*hashSize))), nil
}

// maxHashSize is the configured hash size limit, never above imghash.MaxSize.
func (b *Bridge) maxHashSize() uint32 {
	if b.cfg.MaxHashSize <= 0 || b.cfg.MaxHashSize > imghash.MaxSize {
		return imghash.MaxSize
	}
	return uint32(b.cfg.MaxHashSize)
}

// reject logs a rejected call at debug level and returns err unchanged.
func (b *Bridge) reject(op string, err error, fields ...zap.Field) error {
	if ce := b.log.Check(zapcore.DebugLevel, "call rejected"); ce != nil {
		ce.Write(append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)...)
	}
	return err
}

// recoverInto turns a panic into ErrPanic so it never unwinds into C.
func (b *Bridge) recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		b.log.Error("recovered panic", zap.String("op", op), zap.Any("panic", r), zap.Stack("stack"))
		*err = fmt.Errorf("%s: %v: %w", op, r, ErrPanic)
	}
}
