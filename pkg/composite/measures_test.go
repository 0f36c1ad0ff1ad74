package composite

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureStore(t *testing.T) {
	scenes := []Scene{newScene(0, solidRGB(1, 1, 0, 0, 0)), newScene(1, solidRGB(1, 1, 0, 0, 0))}
	scenes[0].Measures["acquisition_date"] = 1377000104
	scenes[1].Measures["acquisition_date"] = 1377000216
	scenes[1].Measures["cloud_cover"] = 12.5

	ms := NewMeasureStore(scenes)
	assert.Equal(t, 2, ms.Len())

	v, err := ms.Get(1, "cloud_cover")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	_, err = ms.Get(0, "cloud_cover")
	assert.ErrorIs(t, err, ErrMissingMeasure)
	assert.Contains(t, err.Error(), "scene00.tif")

	_, err = ms.Get(2, "acquisition_date")
	assert.Error(t, err)

	assert.NoError(t, ms.Require("acquisition_date"))
	assert.ErrorIs(t, ms.Require("cloud_cover"), ErrMissingMeasure)

	// the store holds its own copy
	scenes[0].Measures["acquisition_date"] = 0
	v, _ = ms.Get(0, "acquisition_date")
	assert.Equal(t, 1377000104.0, v)
}

func TestSceneString(t *testing.T) {
	s := withMask(newScene(3, solidRGB(2, 1, 0, 0, 0)), newMask(2, 1, 8, func(x, y int) uint16 { return 0 }))
	s.Measures["b"] = 2
	s.Measures["a"] = 1

	assert.Equal(t, "scene03.tif", s.Name())
	assert.Contains(t, s.String(), "#3 scene03.tif")
	assert.Contains(t, s.String(), "mask scene03_cld.tif")
	assert.Contains(t, s.String(), "a=1 b=2")
}

func TestMeasureStoreNegativeIsMissing(t *testing.T) {
	scenes := []Scene{newScene(0, solidRGB(1, 1, 0, 0, 0)), newScene(1, solidRGB(1, 1, 0, 0, 0))}
	scenes[0].Measures["acquisition_date"] = 1377000104
	scenes[1].Measures["acquisition_date"] = -1
	scenes[1].Measures["sun_elevation"] = 0

	ms := NewMeasureStore(scenes)
	_, err := ms.Get(1, "acquisition_date")
	assert.ErrorIs(t, err, ErrMissingMeasure)
	assert.Contains(t, err.Error(), "scene01.tif lacks quality measure acquisition_date")
	assert.ErrorIs(t, ms.Require("acquisition_date"), ErrMissingMeasure)

	v, err := ms.Get(1, "sun_elevation")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// and the compositor refuses to start
	c := NewCompositor(configWith("quality", "scene_measure", "scene_measure", "acquisition_date"),
		scenes, background(1, 1), nil)
	assert.ErrorIs(t, c.Validate(), ErrMissingMeasure)
	assert.Equal(t, StateFailed, c.State())
}
