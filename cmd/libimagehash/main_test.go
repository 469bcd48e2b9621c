package main

import (
	"testing"
	"unsafe"

	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/imagehash-capi/internal/capi"
	"github.com/ironsheep/imagehash-capi/internal/config"
)

func newTestBridge(t *testing.T) *capi.Bridge {
	t.Helper()
	return capi.New(config.Default(), zaptest.NewLogger(t))
}

func ptr(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func TestCreateImageAndHash(t *testing.T) {
	b := newTestBridge(t)
	data := []byte{0, 255, 0, 255}

	h := createImage(b, ptr(data), 2, 2, 1)
	if h == 0 {
		t.Fatal("createImage returned 0 for a valid image")
	}

	out := make([]byte, b.AllocSize(2))
	if got := createHash(b, h, int32(capi.HashMean), 2, ptr(out)); got != 1 {
		t.Fatalf("createHash: got %d, want 1", got)
	}
	if out[0] != 0x50 {
		t.Errorf("hash: got %08b, want 01010000", out[0])
	}

	// The handle was consumed by the first call.
	if got := createHash(b, h, int32(capi.HashMean), 2, ptr(out)); got != 0 {
		t.Errorf("reused handle: got %d, want 0", got)
	}
}

func TestCreateImage_RejectedIsZero(t *testing.T) {
	b := newTestBridge(t)
	data := make([]byte, 12)

	tests := []struct {
		name     string
		data     unsafe.Pointer
		channels int32
	}{
		{"null data", nil, 1},
		{"two channels", ptr(data), 2},
		{"positive four", ptr(data), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := createImage(b, tt.data, 2, 2, tt.channels); h != 0 {
				t.Errorf("got handle %#x, want 0", h)
			}
		})
	}
	if n := b.LiveHandles(); n != 0 {
		t.Errorf("LiveHandles: got %d, want 0", n)
	}
}

func TestCreateImageLen(t *testing.T) {
	b := newTestBridge(t)
	data := make([]byte, 2*2*3)

	if h := createImageLen(b, ptr(data), uint64(len(data))-1, 2, 2, 3); h != 0 {
		t.Errorf("short buffer: got handle %#x, want 0", h)
	}

	h := createImageLen(b, ptr(data), uint64(len(data)), 2, 2, 3)
	if h == 0 {
		t.Fatal("createImageLen returned 0 for an exact buffer")
	}
	out := make([]byte, b.AllocSize(2))
	if got := createHash(b, h, int32(capi.HashGradient), 2, ptr(out)); got != 1 {
		t.Errorf("createHash: got %d, want 1", got)
	}
}

func TestCreateHash_FailureIsZero(t *testing.T) {
	b := newTestBridge(t)
	data := []byte{0, 255, 0, 255}
	out := make([]byte, 8)

	tests := []struct {
		name     string
		hashType int32
		size     uint32
		out      unsafe.Pointer
	}{
		{"unknown type", 9, 2, ptr(out)},
		{"zero size", int32(capi.HashMean), 0, ptr(out)},
		{"null destination", int32(capi.HashMean), 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createImage(b, ptr(data), 2, 2, 1)
			if h == 0 {
				t.Fatal("createImage returned 0")
			}
			if got := createHash(b, h, tt.hashType, tt.size, tt.out); got != 0 {
				t.Errorf("got %d, want 0", got)
			}
		})
	}

	if got := createHash(b, 0, int32(capi.HashMean), 2, ptr(out)); got != 0 {
		t.Errorf("zero handle: got %d, want 0", got)
	}
}

func TestHammingDistance(t *testing.T) {
	b := newTestBridge(t)
	x := []byte{0xff, 0x00}
	y := []byte{0x0f, 0x00}

	if d := hammingDistance(b, ptr(x), ptr(y), 3); d != 4 {
		t.Errorf("got %d, want 4", d)
	}
	if d := hammingDistance(b, nil, ptr(y), 3); d != -1 {
		t.Errorf("null operand: got %d, want -1", d)
	}
}

func TestExports(t *testing.T) {
	if bridge == nil {
		t.Fatal("bridge not initialised at load")
	}

	if got := get_hash_data_alloc_size(9); got != 11 {
		t.Errorf("get_hash_data_alloc_size(9): got %d, want 11", got)
	}
	if got := create_hash_image(nil, 2, 2, 1); got != 0 {
		t.Errorf("create_hash_image(nil): got %#x, want 0", got)
	}
	if got := create_hash(0, 1, 2, nil); got != 0 {
		t.Errorf("create_hash(0): got %d, want 0", got)
	}
	if got := hash_hamming_distance(nil, nil, 8); got != -1 {
		t.Errorf("hash_hamming_distance(nil): got %d, want -1", got)
	}
}

func TestImageHashVersion(t *testing.T) {
	if got := versionString(); got != Version {
		t.Errorf("versionString: got %q, want %q", got, Version)
	}

	p := image_hash_version()
	if p == nil {
		t.Fatal("image_hash_version returned null")
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(p)), len(Version)+1)
	if string(raw[:len(Version)]) != Version || raw[len(Version)] != 0 {
		t.Errorf("got %q, want %q followed by NUL", raw, Version)
	}
	if image_hash_version() != p {
		t.Error("image_hash_version should return the same pointer on every call")
	}
}
