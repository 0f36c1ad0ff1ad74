package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats. Cells that were never given a value
// hold NaN, and are skipped by the range and rendering functions.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	g := FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
	for i := range g.values {
		g.values[i] = math.NaN()
	}
	return g
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)IsSet(x, y int) bool     { return !math.IsNaN(fg.Get(x, y)) }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int                 { return len(fg.values) / fg.stride }

// Range returns the min and max of the set cells; ok is false if none are set.
func (fg *FloatGrid)Range() (min, max float64, ok bool) {
	min, max = math.MaxFloat64, -math.MaxFloat64
	for _, v := range fg.values {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v > max { max = v }
		if v < min { min = v }
	}
	return
}

func (fg *FloatGrid)Stats() string {
	min, max, _ := fg.Range()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg renders a simple grayscale, based on the range of values in
// the grid, gamma scaling the gray to look normal for human vision.
// Unset cells are black. The title is drawn in the top left corner.
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max, _ := fg.Range()
	span := max - min
	if span <= 0 {
		span = 1
	}

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			if !fg.IsSet(x, y) {
				img.Set(x, y, color.RGBA64{0, 0, 0, 0xFFFF})
				continue
			}
			gray := uint16(GammaExpand_F64((fg.Get(x,y) - min) / span) * 65535.0)
			img.Set(x, y, color.RGBA64{gray, gray, gray, 0xFFFF})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 4, 12)
	return dc.SavePNG(filename)
}
