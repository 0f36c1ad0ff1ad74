package composite

import(
	"fmt"
	"image"

	"github.com/abworrall/compositor/pkg/raster"
)

// A BandWriter copies winning pixels into the output raster. Each
// writer owns one tile region and never writes outside it, so writers
// for disjoint tiles can run side by side without locking.
type BandWriter struct {
	out      *raster.Image
	region   image.Rectangle
}

func NewBandWriter(out *raster.Image, region image.Rectangle) BandWriter {
	return BandWriter{out: out, region: region.Intersect(out.Bounds())}
}

// Write stores every band of the winning scene's pixel at (x,y). If the
// output has an alpha plane, alpha goes there too.
func (bw BandWriter)Write(x, y int, bands []uint16, alpha uint16) {
	if !(image.Point{x, y}).In(bw.region) {
		panic(fmt.Sprintf("BandWriter for %s asked to write (%d,%d)", bw.region, x, y))
	}
	bw.out.SetPixel(x, y, bands)
	bw.out.SetAlpha(x, y, alpha)
}
