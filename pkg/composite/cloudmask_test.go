package composite

import(
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/compositor/pkg/raster"
)

type maskCase struct {
	name    string
	raw     uint16
	usable  bool
}

func checkMaskCases(t *testing.T, cc CloudClassifier, tests []maskCase) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			usable, err := cc.Usable(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.usable, usable)
		})
	}
}

func TestLandsat8QA(t *testing.T) {
	l8, err := NewCloudClassifier("landsat8")
	require.NoError(t, err)

	checkMaskCases(t, l8, []maskCase{
		{"clear", 0x0000, true},
		{"cloud no", 1 << 14, true},
		{"cloud maybe", 2 << 14, true},
		{"cloud yes", 0xC000, false},
		{"cirrus maybe", 2 << 12, true},
		{"cirrus yes", 0x3000, false},
		{"water yes", 3 << 4, true},
		{"vegetation and snow", 3<<8 | 3<<10, true},
		{"fill", 1 << 0, false},
		{"dropped frame", 1 << 1, false},
		{"terrain occlusion", 1 << 2, false},
		{"typical clear land", 0x5000, true},
	})

	// every bit is defined, so nothing fails to decode
	for _, raw := range []uint16{0xffff, 0x8000, 0x00f0} {
		_, err := l8.Usable(raw)
		assert.NoError(t, err, "0x%04x", raw)
	}

	assert.NoError(t, l8.Validate(raster.Grid{Width:1, Height:1, Bands:1, Depth:16}))
	assert.ErrorIs(t, l8.Validate(raster.Grid{Width:1, Height:1, Bands:1, Depth:8}), ErrConfig)
}

func TestLandsat8CollectionOneQA(t *testing.T) {
	c1, err := NewCloudClassifier("landsat8_c1")
	require.NoError(t, err)

	checkMaskCases(t, c1, []maskCase{
		{"clear", 0x0000, true},
		{"low cloud confidence", 1 << 5, true},
		{"medium shadow confidence", 2 << 7, true},
		{"high snow confidence", 3 << 9, true},
		{"low cirrus confidence", 1 << 11, true},
		{"fill", 1 << 0, false},
		{"terrain occlusion", 1 << 1, false},
		{"saturated 1-2 bands", 1 << 2, false},
		{"saturated 5+ bands", 3 << 2, false},
		{"cloud", 1 << 4, false},
		{"high shadow confidence", 3 << 7, false},
		{"high cirrus confidence", 3 << 11, false},
	})

	for _, raw := range []uint16{1 << 13, 1 << 14, 1 << 15, 0xffff} {
		_, err := c1.Usable(raw)
		assert.ErrorIs(t, err, ErrMaskDecode, "0x%04x", raw)
	}

	assert.ErrorIs(t, c1.Validate(raster.Grid{Width:1, Height:1, Bands:1, Depth:8}), ErrConfig)
}

func TestSentinel2SCL(t *testing.T) {
	scl, err := NewCloudClassifier("sentinel2_scl")
	require.NoError(t, err)

	usable := map[uint16]bool{2:true, 4:true, 5:true, 6:true, 7:true, 11:true}
	for class:=uint16(0); class<=11; class++ {
		got, err := scl.Usable(class)
		require.NoError(t, err)
		assert.Equal(t, usable[class], got, "class %d", class)
	}

	_, err = scl.Usable(12)
	assert.ErrorIs(t, err, ErrMaskDecode)
}

func TestBinaryMask(t *testing.T) {
	bin, err := NewCloudClassifier("binary")
	require.NoError(t, err)

	usable, err := bin.Usable(0)
	require.NoError(t, err)
	assert.True(t, usable)

	usable, err = bin.Usable(255)
	require.NoError(t, err)
	assert.False(t, usable)

	_, err = bin.Usable(1)
	assert.ErrorIs(t, err, ErrMaskDecode)
}

func TestUnknownClassifier(t *testing.T) {
	_, err := NewCloudClassifier("modis")
	assert.ErrorIs(t, err, ErrUnsupportedSensor)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "binary, landsat8, landsat8_c1, sentinel2_scl")
}

func TestMaskValueMultiBand(t *testing.T) {
	im := raster.NewImage(raster.Grid{Width:2, Height:1, Bands:3, Depth:8}, false)
	im.SetPixel(0, 0, []uint16{255, 255, 255})
	im.SetPixel(1, 0, []uint16{255, 0, 255})
	tile, err := im.ReadTile(image.Rect(0, 0, 2, 1))
	require.NoError(t, err)

	v, err := maskValue(tile, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(255), v)

	_, err = maskValue(tile, 1, 0)
	assert.ErrorIs(t, err, ErrMaskDecode)
}
