package raster

import(
	"fmt"
	"image"
)

// A Reader is a raster that can hand out rectangles of its samples.
// Implementations must be safe for concurrent ReadTile calls.
type Reader interface {
	Grid() Grid
	ReadTile(r image.Rectangle) (*Tile, error)

	// IsPremultiplied is true if band samples are scaled by alpha.
	IsPremultiplied() bool
}

// Image is an in-memory multi-band raster. Samples are stored at their
// native depth (an 8bit raster holds values [0,255]), interleaved by
// band, in row-major order.
type Image struct {
	grid          Grid
	Pix         []uint16  // len == Width*Height*Bands
	Alpha       []uint16  // nil if the raster has no alpha plane; else len == Width*Height
	Premultiplied bool    // alpha plane came from (and goes back to) a premultiplied model
	GeoTags     []Tag     // georeferencing from the TIFF this was loaded from, written back on Save
}

func NewImage(g Grid, withAlpha bool) *Image {
	im := &Image{
		grid: g,
		Pix:  make([]uint16, g.NumPixels() * g.Bands),
	}
	if withAlpha {
		im.Alpha = make([]uint16, g.NumPixels())
		for i := range im.Alpha {
			im.Alpha[i] = g.MaxValue()
		}
	}
	return im
}

func (im *Image)Grid() Grid              { return im.grid }
func (im *Image)Bounds() image.Rectangle { return im.grid.Bounds() }
func (im *Image)HasAlpha() bool          { return im.Alpha != nil }
func (im *Image)IsPremultiplied() bool   { return im.Alpha != nil && im.Premultiplied }
func (im *Image)offset(x, y int) int     { return y*im.grid.Width + x }

// Pixel returns the band samples at (x,y). The slice aliases the image.
func (im *Image)Pixel(x, y int) []uint16 {
	i := im.offset(x, y) * im.grid.Bands
	return im.Pix[i : i+im.grid.Bands]
}

func (im *Image)SetPixel(x, y int, bands []uint16) {
	copy(im.Pixel(x, y), bands)
}

func (im *Image)AlphaAt(x, y int) uint16 {
	if im.Alpha == nil {
		return im.grid.MaxValue()
	}
	return im.Alpha[im.offset(x, y)]
}

func (im *Image)SetAlpha(x, y int, a uint16) {
	if im.Alpha != nil {
		im.Alpha[im.offset(x, y)] = a
	}
}

func (im *Image)Clone() *Image {
	c := &Image{grid: im.grid, Premultiplied: im.Premultiplied, GeoTags: im.GeoTags}
	c.Pix = append([]uint16(nil), im.Pix...)
	if im.Alpha != nil {
		c.Alpha = append([]uint16(nil), im.Alpha...)
	}
	return c
}

// ReadTile copies out the samples inside r, which must lie within the image.
func (im *Image)ReadTile(r image.Rectangle) (*Tile, error) {
	if r.Empty() || !r.In(im.Bounds()) {
		return nil, fmt.Errorf("tile %s outside raster %s", r, im.Bounds())
	}

	t := &Tile{
		Rect:  r,
		Bands: im.grid.Bands,
		Depth: im.grid.Depth,
		Pix:   make([]uint16, r.Dx() * r.Dy() * im.grid.Bands),
	}
	if im.Alpha != nil {
		t.Alpha = make([]uint16, r.Dx() * r.Dy())
	}

	rowLen := r.Dx() * im.grid.Bands
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		src := im.offset(r.Min.X, y) * im.grid.Bands
		dst := (y - r.Min.Y) * rowLen
		copy(t.Pix[dst:dst+rowLen], im.Pix[src:src+rowLen])

		if im.Alpha != nil {
			copy(t.Alpha[(y-r.Min.Y)*r.Dx():], im.Alpha[im.offset(r.Min.X, y):im.offset(r.Max.X, y)])
		}
	}

	return t, nil
}

// A Tile is a rectangle of samples read from a Reader. Pixel coords
// passed to its methods are in the coords of the whole raster.
type Tile struct {
	Rect    image.Rectangle
	Bands   int
	Depth   int
	Pix   []uint16
	Alpha []uint16 // nil if the source raster had no alpha plane
}

func (t *Tile)offset(x, y int) int {
	return (y-t.Rect.Min.Y)*t.Rect.Dx() + (x - t.Rect.Min.X)
}

func (t *Tile)Pixel(x, y int) []uint16 {
	i := t.offset(x, y) * t.Bands
	return t.Pix[i : i+t.Bands]
}

// AlphaAt returns the alpha sample at (x,y), and false if the tile has no alpha.
func (t *Tile)AlphaAt(x, y int) (uint16, bool) {
	if t.Alpha == nil {
		return 0, false
	}
	return t.Alpha[t.offset(x, y)], true
}
