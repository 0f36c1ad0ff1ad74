package raster

import(
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampImage(w, h int) *Image {
	im := NewImage(Grid{Width:w, Height:h, Bands:3, Depth:16}, false)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			im.SetPixel(x, y, []uint16{uint16(x), uint16(y), uint16(x*y)})
		}
	}
	return im
}

func TestReadTileCopiesSubRectangle(t *testing.T) {
	im := rampImage(10, 8)

	tile, err := im.ReadTile(image.Rect(3, 2, 7, 5))
	require.NoError(t, err)
	assert.Equal(t, 4*3*3, len(tile.Pix))
	assert.Equal(t, []uint16{5, 4, 20}, tile.Pixel(5, 4))
	assert.Equal(t, []uint16{3, 2, 6}, tile.Pixel(3, 2))

	// Tiles are copies; writing to one must not leak into the raster
	tile.Pixel(5, 4)[0] = 999
	assert.Equal(t, uint16(5), im.Pixel(5, 4)[0])

	_, ok := tile.AlphaAt(5, 4)
	assert.False(t, ok)
}

func TestReadTileRejectsOutOfBounds(t *testing.T) {
	im := rampImage(4, 4)
	_, err := im.ReadTile(image.Rect(2, 2, 5, 4))
	assert.Error(t, err)
	_, err = im.ReadTile(image.Rectangle{})
	assert.Error(t, err)
}

func TestReadTileCarriesAlpha(t *testing.T) {
	im := NewImage(Grid{Width:3, Height:3, Bands:3, Depth:8}, true)
	im.SetAlpha(1, 1, 7)

	tile, err := im.ReadTile(image.Rect(1, 1, 3, 3))
	require.NoError(t, err)
	a, ok := tile.AlphaAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, uint16(7), a)
	a, _ = tile.AlphaAt(2, 2)
	assert.Equal(t, uint16(255), a)
}

func TestFromImageKeepsNativeDepth(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 0, color.Gray{200})
	im := FromImage(gray)
	assert.Equal(t, Grid{Width:2, Height:2, Bands:1, Depth:8}, im.Grid())
	assert.Equal(t, uint16(200), im.Pixel(1, 0)[0])
	assert.False(t, im.HasAlpha())

	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 40})
	im = FromImage(nrgba)
	assert.Equal(t, []uint16{10, 20, 30}, im.Pixel(0, 0))
	assert.Equal(t, uint16(40), im.AlphaAt(0, 0))
	assert.False(t, im.Premultiplied)
}

func TestSaveLoadTIFF(t *testing.T) {
	dir := t.TempDir()

	rgb := rampImage(5, 4)
	fn := filepath.Join(dir, "rgb.tif")
	require.NoError(t, Save(rgb, fn))
	back, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, rgb.Grid(), back.Grid())
	assert.Equal(t, rgb.Pix, back.Pix)

	mask := NewImage(Grid{Width:3, Height:2, Bands:1, Depth:16}, false)
	mask.Pix[4] = 0x1234
	fn = filepath.Join(dir, "mask.tif")
	require.NoError(t, Save(mask, fn))
	back, err = Load(fn)
	require.NoError(t, err)
	assert.Equal(t, mask.Pix, back.Pix)
	assert.Equal(t, 16, back.Grid().Depth)
}

func TestUnknownExtension(t *testing.T) {
	_, err := Load("scene.jp2")
	assert.Error(t, err)
	assert.Error(t, Save(rampImage(1, 1), filepath.Join(t.TempDir(), "out.jp2")))
}

func TestGridValidate(t *testing.T) {
	assert.NoError(t, Grid{Width:1, Height:1, Bands:3, Depth:8}.Validate())
	assert.Error(t, Grid{Width:0, Height:1, Bands:3, Depth:8}.Validate())
	assert.Error(t, Grid{Width:1, Height:1, Bands:3, Depth:12}.Validate())
	assert.True(t, Grid{Width:4, Height:2, Bands:1}.SameShape(Grid{Width:4, Height:2, Bands:3}))
}
