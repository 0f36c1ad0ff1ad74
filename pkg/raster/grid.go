package raster

import(
	"fmt"
	"image"
)

// A Grid describes the pixel layout of a raster: its dimensions, how
// many bands each pixel carries, and the bit depth of each sample.
// Two rasters can only be composited together if their grids match.
type Grid struct {
	Width   int
	Height  int
	Bands   int  // spectral bands, not counting any alpha plane
	Depth   int  // bits per sample; 8 or 16
}

func (g Grid)Bounds() image.Rectangle   { return image.Rect(0, 0, g.Width, g.Height) }
func (g Grid)NumPixels() int            { return g.Width * g.Height }
func (g Grid)MaxValue() uint16          { return uint16((1 << g.Depth) - 1) }

func (g Grid)String() string {
	return fmt.Sprintf("%dx%d, %d band(s) @%dbit", g.Width, g.Height, g.Bands, g.Depth)
}

// SameShape is true if the two grids cover the same pixel positions,
// regardless of band layout.
func (g Grid)SameShape(o Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

func (g Grid)Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("grid %s: empty", g)
	} else if g.Bands <= 0 {
		return fmt.Errorf("grid %s: no bands", g)
	} else if g.Depth != 8 && g.Depth != 16 {
		return fmt.Errorf("grid %s: unsupported depth", g)
	}
	return nil
}
