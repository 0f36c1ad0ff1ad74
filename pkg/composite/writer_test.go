package composite

import(
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abworrall/compositor/pkg/raster"
)

func TestBandWriter(t *testing.T) {
	out := raster.NewImage(raster.Grid{Width:4, Height:4, Bands:3, Depth:16}, true)
	bw := NewBandWriter(out, image.Rect(2, 2, 4, 4))

	bw.Write(3, 2, []uint16{10, 20, 30}, 1234)
	assert.Equal(t, []uint16{10, 20, 30}, out.Pixel(3, 2))
	assert.Equal(t, uint16(1234), out.AlphaAt(3, 2))
	assert.Equal(t, []uint16{0, 0, 0}, out.Pixel(2, 2))

	assert.Panics(t, func() { bw.Write(1, 2, []uint16{1, 1, 1}, 0) })
	assert.Panics(t, func() { bw.Write(4, 3, []uint16{1, 1, 1}, 0) })
}

func TestBandWriterNoAlpha(t *testing.T) {
	out := solidRGB(2, 2, 7, 7, 7)
	bw := NewBandWriter(out, out.Bounds())

	bw.Write(1, 1, []uint16{1, 2, 3}, 0)
	assert.Equal(t, []uint16{1, 2, 3}, out.Pixel(1, 1))
	assert.Equal(t, uint16(65535), out.AlphaAt(1, 1))
	assert.Equal(t, []uint16{7, 7, 7}, out.Pixel(0, 1))
}
