package raster

import(
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Load reads a raster from a TIFF or PNG file. A TIFF's georeferencing
// tags are kept in GeoTags, so that Save can write them back.
func Load(filename string) (*Image, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	reader := bytes.NewReader(contents)

	var img image.Image
	var tags []Tag
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		if img, err = tiff.Decode(reader); err == nil {
			tags, err = ReadGeoTags(reader)
		}
	case ".png":
		img, err = png.Decode(reader)
	default:
		return nil, fmt.Errorf("load '%s': unrecognized raster extension", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %v", filename, err)
	}

	im := FromImage(img)
	im.GeoTags = tags
	return im, nil
}

// Save writes the raster, picking the codec from the file extension.
// TIFFs keep the raster's band count and GeoTags; PNGs have neither.
func Save(im *Image, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		var buf bytes.Buffer
		if err := encodeTIFF(&buf, im); err != nil {
			return fmt.Errorf("save '%s': %v", filename, err)
		}
		if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("open+w '%s': %v", filename, err)
		}
		return nil
	}

	img, err := im.ToImage()
	if err != nil {
		return fmt.Errorf("save '%s': %v", filename, err)
	}
	return WriteImage(img, filename)
}

// WriteImage encodes any image.Image as TIFF or PNG. It is for
// derived images (previews, traces); rasters go through Save.
func WriteImage(img image.Image, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".tif" && ext != ".tiff" && ext != ".png" {
		return fmt.Errorf("write '%s': unrecognized raster extension", filename)
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}

	if ext == ".png" {
		err = png.Encode(writer, img)
	} else {
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		writer.Close()
		return fmt.Errorf("encoding '%s': %v", filename, err)
	}

	return writer.Close()
}

// FromImage converts a decoded image into band samples. Gray images
// become single band rasters; everything else is three bands, plus an
// alpha plane unless every pixel is opaque. Models we don't recognize
// are converted to 16bit RGBA.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		im := NewImage(Grid{Width:w, Height:h, Bands:1, Depth:8}, false)
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				im.Pix[im.offset(x,y)] = uint16(src.GrayAt(x+b.Min.X, y+b.Min.Y).Y)
			}
		}
		return im

	case *image.Gray16:
		im := NewImage(Grid{Width:w, Height:h, Bands:1, Depth:16}, false)
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				im.Pix[im.offset(x,y)] = src.Gray16At(x+b.Min.X, y+b.Min.Y).Y
			}
		}
		return im

	case *image.RGBA:
		return fromRGBA(b, 8, true, func(x, y int) (uint16, uint16, uint16, uint16) {
			c := src.RGBAAt(x, y)
			return uint16(c.R), uint16(c.G), uint16(c.B), uint16(c.A)
		})

	case *image.NRGBA:
		return fromRGBA(b, 8, false, func(x, y int) (uint16, uint16, uint16, uint16) {
			c := src.NRGBAAt(x, y)
			return uint16(c.R), uint16(c.G), uint16(c.B), uint16(c.A)
		})

	case *image.RGBA64:
		return fromRGBA(b, 16, true, func(x, y int) (uint16, uint16, uint16, uint16) {
			c := src.RGBA64At(x, y)
			return c.R, c.G, c.B, c.A
		})

	case *image.NRGBA64:
		return fromRGBA(b, 16, false, func(x, y int) (uint16, uint16, uint16, uint16) {
			c := src.NRGBA64At(x, y)
			return c.R, c.G, c.B, c.A
		})
	}

	return fromRGBA(b, 16, true, func(x, y int) (uint16, uint16, uint16, uint16) {
		c := color.RGBA64Model.Convert(img.At(x, y)).(color.RGBA64)
		return c.R, c.G, c.B, c.A
	})
}

func fromRGBA(b image.Rectangle, depth int, premult bool, at func(x, y int) (uint16, uint16, uint16, uint16)) *Image {
	im := NewImage(Grid{Width:b.Dx(), Height:b.Dy(), Bands:3, Depth:depth}, true)
	im.Premultiplied = premult

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bl, a := at(x+b.Min.X, y+b.Min.Y)
			px := im.Pixel(x, y)
			px[0], px[1], px[2] = r, g, bl
			im.Alpha[im.offset(x,y)] = a
		}
	}

	opaque := im.grid.MaxValue()
	for _, a := range im.Alpha {
		if a != opaque {
			return im
		}
	}
	im.Alpha, im.Premultiplied = nil, false
	return im
}

// ToImage builds the standard library image that FromImage would have
// produced this raster from.
func (im *Image)ToImage() (image.Image, error) {
	g := im.grid
	r := g.Bounds()

	switch {
	case g.Bands == 1 && g.Depth == 8:
		out := image.NewGray(r)
		for y:=0; y<g.Height; y++ {
			for x:=0; x<g.Width; x++ {
				out.SetGray(x, y, color.Gray{uint8(im.Pix[im.offset(x,y)])})
			}
		}
		return out, nil

	case g.Bands == 1 && g.Depth == 16:
		out := image.NewGray16(r)
		for y:=0; y<g.Height; y++ {
			for x:=0; x<g.Width; x++ {
				out.SetGray16(x, y, color.Gray16{im.Pix[im.offset(x,y)]})
			}
		}
		return out, nil

	case g.Bands == 3 && g.Depth == 8:
		if im.Premultiplied || im.Alpha == nil {
			rgba := image.NewRGBA(r)
			im.each(func(x, y int, c [4]uint16) {
				rgba.SetRGBA(x, y, color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), uint8(c[3])})
			})
			return rgba, nil
		}
		nrgba := image.NewNRGBA(r)
		im.each(func(x, y int, c [4]uint16) {
			nrgba.SetNRGBA(x, y, color.NRGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), uint8(c[3])})
		})
		return nrgba, nil

	case g.Bands == 3 && g.Depth == 16:
		if im.Premultiplied || im.Alpha == nil {
			rgba := image.NewRGBA64(r)
			im.each(func(x, y int, c [4]uint16) { rgba.SetRGBA64(x, y, color.RGBA64{c[0], c[1], c[2], c[3]}) })
			return rgba, nil
		}
		nrgba := image.NewNRGBA64(r)
		im.each(func(x, y int, c [4]uint16) { nrgba.SetNRGBA64(x, y, color.NRGBA64{c[0], c[1], c[2], c[3]}) })
		return nrgba, nil
	}

	return nil, fmt.Errorf("no image model for raster %s", g)
}

func (im *Image)each(f func(x, y int, c [4]uint16)) {
	for y:=0; y<im.grid.Height; y++ {
		for x:=0; x<im.grid.Width; x++ {
			px := im.Pixel(x, y)
			f(x, y, [4]uint16{px[0], px[1], px[2], im.AlphaAt(x, y)})
		}
	}
}
