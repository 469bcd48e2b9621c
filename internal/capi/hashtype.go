package capi

import (
	"errors"
	"fmt"

	"github.com/ironsheep/imagehash-capi/internal/imghash"
)

// ErrUnknownHashType is returned for selector values outside 1..4.
var ErrUnknownHashType = errors.New("unknown hash type")

// HashType is the public algorithm selector. Its values are part of the C
// ABI and must never change.
type HashType int32

const (
	HashMean           HashType = 1
	HashGradient       HashType = 2
	HashDoubleGradient HashType = 3
	HashDCT            HashType = 4
)

// Algorithm maps the public selector onto the hashing strategy.
func (t HashType) Algorithm() (imghash.Algorithm, error) {
	switch t {
	case HashMean:
		return imghash.Mean, nil
	case HashGradient:
		return imghash.Gradient, nil
	case HashDoubleGradient:
		return imghash.DoubleGradient, nil
	case HashDCT:
		return imghash.DCT, nil
	}
	return 0, fmt.Errorf("hash type %d: %w", int32(t), ErrUnknownHashType)
}
