package composite

import(
	"fmt"
	"image"
	"sync/atomic"

	"github.com/abworrall/compositor/pkg/raster"
)

// newRGB builds a 16bit, three band raster with bands filled in by f.
func newRGB(w, h int, f func(x, y int) []uint16) *raster.Image {
	im := raster.NewImage(raster.Grid{Width:w, Height:h, Bands:3, Depth:16}, false)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			im.SetPixel(x, y, f(x, y))
		}
	}
	return im
}

func solidRGB(w, h int, r, g, b uint16) *raster.Image {
	return newRGB(w, h, func(x, y int) []uint16 { return []uint16{r, g, b} })
}

// newMask builds a single band mask raster of the given depth.
func newMask(w, h, depth int, f func(x, y int) uint16) *raster.Image {
	im := raster.NewImage(raster.Grid{Width:w, Height:h, Bands:1, Depth:depth}, false)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			im.Pix[y*w + x] = f(x, y)
		}
	}
	return im
}

func newScene(idx int, r raster.Reader) Scene {
	return Scene{
		Index:    idx,
		Filename: fmt.Sprintf("/data/scene%02d.tif", idx),
		Raster:   r,
		Measures: map[string]float64{},
	}
}

func withMask(s Scene, m raster.Reader) Scene {
	s.Mask = m
	s.MaskFilename = fmt.Sprintf("/data/scene%02d_cld.tif", s.Index)
	return s
}

// background is the seed used by most tests; no scene produces it.
func background(w, h int) *raster.Image {
	return solidRGB(w, h, 7, 7, 7)
}

func configWith(kv ...string) Config {
	c := NewConfig()
	for i:=0; i+1<len(kv); i+=2 {
		if err := c.Set(kv[i], kv[i+1]); err != nil {
			panic(err)
		}
	}
	return c
}

// countingReader wraps a Reader, counting tile reads and optionally failing them.
type countingReader struct {
	raster.Reader
	reads atomic.Int32
	err   error
}

func (cr *countingReader)ReadTile(r image.Rectangle) (*raster.Tile, error) {
	cr.reads.Add(1)
	if cr.err != nil {
		return nil, cr.err
	}
	return cr.Reader.ReadTile(r)
}
