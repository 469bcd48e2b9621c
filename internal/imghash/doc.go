// Package imghash computes perceptual hashes of grayscale images.
//
// Four algorithms are available, each producing exactly size*size bits in
// row-major order:
//
//   - Mean: each pixel of a size x size thumbnail compared to the mean.
//   - Gradient: horizontal neighbour comparisons on a (size+1) x size thumbnail.
//   - DoubleGradient: alternating horizontal and vertical comparisons on a
//     (size+1) x (size+1) thumbnail.
//   - DCT: low-frequency DCT-II coefficients of a 2size x 2size thumbnail
//     compared to their mean.
//
// Thumbnails are produced with nearest-neighbour resampling, which keeps the
// hashes fast and fully deterministic.
package imghash
