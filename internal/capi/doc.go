// Package capi implements the operations exported across the C boundary
// using Go types.
//
// The cgo layer in cmd/libimagehash only converts C scalars and pointers and
// forwards to a Bridge. Everything else happens here: raw memory is turned
// into bounds-checked slices exactly once, images are wrapped in handles,
// hash selectors are mapped to algorithms, and every failure is an error
// that the cgo layer reduces to the C sentinel (0 or false).
//
// # Caller Protocol
//
//  1. AllocSize(hashSize) to size the destination buffer.
//  2. CreateImage to obtain a handle. A zero handle means rejection.
//  3. CreateHash with the handle and the sized buffer.
//  4. The handle is dead after step 3, whether or not hashing succeeded.
//
// # Preconditions
//
// The destination passed to CreateHash must hold at least AllocSize(hashSize)
// bytes. There is no length parameter to check it against; use
// CreateImageLen when the pixel buffer length is known so it can be
// validated.
//
// # Concurrency
//
// Every Bridge method is synchronous and safe for concurrent use. Resizing
// and luma conversion go through github.com/disintegration/imaging, which
// may split a single image across goroutines. A call returns only after that
// work finishes, and the result does not depend on how it was split.
//
// # Panics
//
// No Bridge method lets a panic escape. A recovered panic is logged and
// reported as a failure.
package capi
