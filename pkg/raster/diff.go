package raster

import(
	"fmt"
	"image"

	"github.com/abworrall/compositor/pkg/emath"
)

// A DiffReport says how two rasters of the same grid differ.
type DiffReport struct {
	Pixels       int              // pixels compared
	Differ       int              // pixels where any band or alpha differs
	First        image.Point      // first differing pixel, in row order
	MaxDelta     uint16           // largest absolute sample difference
	Delta        emath.FloatGrid  // per pixel sum of absolute band differences
}

func (dr DiffReport)Same() bool { return dr.Differ == 0 }

func (dr DiffReport)String() string {
	if dr.Same() {
		return fmt.Sprintf("identical (%d pixels)", dr.Pixels)
	}
	return fmt.Sprintf("%d/%d pixels differ, first at %s, max delta %d", dr.Differ, dr.Pixels, dr.First, dr.MaxDelta)
}

// Diff compares two rasters sample by sample. Rasters on different
// grids can't be compared.
func Diff(a, b *Image) (DiffReport, error) {
	if a.Grid() != b.Grid() {
		return DiffReport{}, fmt.Errorf("diff: %s vs %s", a.Grid(), b.Grid())
	}

	g := a.Grid()
	dr := DiffReport{Pixels: g.NumPixels(), Delta: emath.NewFloatGrid(g.Width, g.Height)}

	absDelta := func(u, v uint16) uint16 {
		if u > v {
			return u - v
		}
		return v - u
	}

	for y:=0; y<g.Height; y++ {
		for x:=0; x<g.Width; x++ {
			pa, pb := a.Pixel(x, y), b.Pixel(x, y)
			sum := 0.0
			differ := false
			for i := range pa {
				d := absDelta(pa[i], pb[i])
				if d > dr.MaxDelta {
					dr.MaxDelta = d
				}
				sum += float64(d)
				differ = differ || d != 0
			}
			if a.AlphaAt(x, y) != b.AlphaAt(x, y) {
				differ = true
			}

			dr.Delta.Set(x, y, sum)
			if differ {
				if dr.Differ == 0 {
					dr.First = image.Pt(x, y)
				}
				dr.Differ++
			}
		}
	}

	return dr, nil
}
