package imghash

import (
	"image"

	"github.com/disintegration/imaging"
)

// grid is a row-major luma thumbnail.
type grid struct {
	w, h int
	pix  []uint8
}

func (g grid) at(x, y int) uint8 { return g.pix[y*g.w+x] }

// thumbnail resizes img to w x h with nearest-neighbour sampling and reads
// the BT.601 luma back. Grayscale leaves R, G and B equal, so the red
// channel is the luma.
func thumbnail(img image.Image, w, h int) grid {
	resized := imaging.Grayscale(imaging.Resize(img, w, h, imaging.NearestNeighbor))

	g := grid{w: w, h: h, pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < w; x++ {
			g.pix[y*w+x] = row[x*4]
		}
	}
	return g
}
