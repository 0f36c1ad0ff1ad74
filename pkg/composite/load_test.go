package composite

import(
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abworrall/compositor/pkg/raster"
)

func TestLoadScenes(t *testing.T) {
	dir := t.TempDir()
	a, b, mask := filepath.Join(dir, "a.tif"), filepath.Join(dir, "b.tif"), filepath.Join(dir, "b_cld.tif")
	require.NoError(t, raster.Save(solidRGB(4, 3, 1, 2, 3), a))
	require.NoError(t, raster.Save(solidRGB(4, 3, 4, 5, 6), b))
	require.NoError(t, raster.Save(newMask(4, 3, 8, func(x, y int) uint16 { return 0 }), mask))

	specs := []SceneSpec{
		{Filename: a, Measures: map[string]float64{"acquisition_date": 1377000104}},
		{Filename: b, MaskFilename: mask, Measures: map[string]float64{"acquisition_date": 1377000216}},
	}

	scenes, err := LoadScenes(specs, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, 0, scenes[0].Index)
	assert.Nil(t, scenes[0].Mask)
	assert.NotContains(t, scenes[0].Measures, ExifDateTimeMeasure, "plain TIFFs carry no EXIF")
	assert.Equal(t, 1377000104.0, scenes[0].Measures["acquisition_date"])

	assert.Equal(t, 1, scenes[1].Index)
	require.NotNil(t, scenes[1].Mask)
	assert.Equal(t, raster.Grid{Width:4, Height:3, Bands:1, Depth:8}, scenes[1].Mask.Grid())
	assert.Equal(t, []uint16{4, 5, 6}, scenes[1].Raster.(*raster.Image).Pixel(3, 2))

	// and they composite
	out := background(4, 3)
	runCompositor(t, configWith("quality", "scene_measure", "scene_measure", "acquisition_date", "cloud_quality", "binary"), scenes, out)
	assert.Equal(t, []uint16{4, 5, 6}, out.Pixel(0, 0))
}

func TestLoadScenesMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tif")
	require.NoError(t, raster.Save(solidRGB(2, 2, 1, 2, 3), a))

	_, err := LoadScenes([]SceneSpec{{Filename: filepath.Join(dir, "missing.tif")}}, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = LoadScenes([]SceneSpec{{Filename: a, MaskFilename: filepath.Join(dir, "missing.tif")}}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
