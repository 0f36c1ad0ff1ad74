package composite

import(
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/compositor/pkg/emath"
	"github.com/abworrall/compositor/pkg/raster"
)

// SourceTrace records, per output pixel, which scene won and with what
// score. Tiles write disjoint cells, so it needs no locking.
type SourceTrace struct {
	Width, Height   int
	winners       []int32          // -1 where no scene was valid
	Quality         emath.FloatGrid
}

func NewSourceTrace(g raster.Grid) *SourceTrace {
	st := &SourceTrace{
		Width:   g.Width,
		Height:  g.Height,
		winners: make([]int32, g.NumPixels()),
		Quality: emath.NewFloatGrid(g.Width, g.Height),
	}
	for i := range st.winners {
		st.winners[i] = -1
	}
	return st
}

func (st *SourceTrace)Record(x, y, scene int, score float64) {
	st.winners[y*st.Width + x] = int32(scene)
	st.Quality.Set(x, y, score)
}

// SceneAt returns the index of the winning scene at (x,y), or -1.
func (st *SourceTrace)SceneAt(x, y int) int { return int(st.winners[y*st.Width + x]) }

// WriteSourceTrace writes the winners. A .png gets one colour per scene
// (black for none) for eyeballing; TIFFs get the 1-based scene index
// as 16bit gray, 0 for none.
func (st *SourceTrace)WriteSourceTrace(filename string, nScenes int) error {
	r := image.Rect(0, 0, st.Width, st.Height)

	if strings.ToLower(filepath.Ext(filename)) == ".png" {
		palette := colorful.FastHappyPalette(nScenes)
		img := image.NewRGBA(r)
		for y:=0; y<st.Height; y++ {
			for x:=0; x<st.Width; x++ {
				col := color.RGBA{0, 0, 0, 0xff}
				if s := st.SceneAt(x, y); s >= 0 {
					cr, cg, cb := palette[s].RGB255()
					col = color.RGBA{cr, cg, cb, 0xff}
				}
				img.SetRGBA(x, y, col)
			}
		}
		return raster.WriteImage(img, filename)
	}

	img := image.NewGray16(r)
	for y:=0; y<st.Height; y++ {
		for x:=0; x<st.Width; x++ {
			img.SetGray16(x, y, color.Gray16{uint16(st.SceneAt(x, y) + 1)})
		}
	}
	return raster.WriteImage(img, filename)
}

// WriteQuality writes the winning scores: .hdr keeps the floats (RGBE
// can't hold negatives, they clip to zero), .png is a normalized preview.
func (st *SourceTrace)WriteQuality(filename, title string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return st.Quality.ToImg(title, filename)

	case ".hdr":
		writer, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("open+w '%s': %v", filename, err)
		}
		if err := rgbe.Encode(writer, qualityImage{st}); err != nil {
			writer.Close()
			return fmt.Errorf("encoding RGBE '%s': %v", filename, err)
		}
		return writer.Close()
	}

	return fmt.Errorf("quality output '%s': wanted .hdr or .png", filename)
}

// qualityImage presents the quality grid as an hdr.Image, gray per pixel.
type qualityImage struct {
	st *SourceTrace
}

// Implement image.Image
func (qi qualityImage)ColorModel() color.Model { return hdrcolor.RGBModel }
func (qi qualityImage)Bounds() image.Rectangle { return image.Rect(0, 0, qi.st.Width, qi.st.Height) }
func (qi qualityImage)At(x, y int) color.Color { return qi.HDRAt(x, y) }

// Implement hdr.Image
func (qi qualityImage)Size() int               { return qi.st.Width * qi.st.Height }
func (qi qualityImage)HDRAt(x, y int) hdrcolor.Color {
	if !qi.st.Quality.IsSet(x, y) {
		return hdrcolor.RGB{}
	}
	v := qi.st.Quality.Get(x, y)
	return hdrcolor.RGB{R: v, G: v, B: v}
}
