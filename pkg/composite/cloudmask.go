package composite

import(
	"fmt"
	"sort"
	"strings"

	"github.com/abworrall/compositor/pkg/raster"
)

// A CloudClassifier decodes raw cloud mask samples for one sensor. It
// is chosen once, at configuration time, and is pure: the same raw
// value always decodes the same way.
type CloudClassifier interface {
	Name() string

	// Validate checks that a mask raster can hold this sensor's encoding.
	Validate(g raster.Grid) error

	// Usable is true if the pixel is clear (no cloud, shadow, cirrus,
	// fill or saturation). Values outside the encoding are an error.
	Usable(raw uint16) (bool, error)
}

var cloudClassifiers = map[string]CloudClassifier{
	"landsat8":      landsat8QA{},
	"landsat8_c1":   landsat8C1QA{},
	"sentinel2_scl": sentinel2SCL{},
	"binary":        binaryMask{},
}

func ListCloudClassifiers() string {
	names := []string{}
	for name := range cloudClassifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func NewCloudClassifier(name string) (CloudClassifier, error) {
	if cc, exists := cloudClassifiers[name]; exists {
		return cc, nil
	}
	return nil, fmt.Errorf("%w: '%s', wanted one of %s", ErrUnsupportedSensor, name, ListCloudClassifiers())
}

// maskValue reads the mask sample at (x,y). Multi-band masks are
// accepted only if every band holds the same value.
func maskValue(t *raster.Tile, x, y int) (uint16, error) {
	px := t.Pixel(x, y)
	for _, v := range px[1:] {
		if v != px[0] {
			return 0, fmt.Errorf("%w: mask bands disagree %v", ErrMaskDecode, px)
		}
	}
	return px[0], nil
}

// {{{ landsat8QA

// landsat8QA decodes the original (pre-Collection) Landsat 8 BQA band,
// as shipped with LGN00/LGN01 scenes:
//
//	bit  0     designated fill
//	bit  1     dropped frame
//	bit  2     terrain occlusion
//	bit  3     reserved
//	bits 4-5   water confidence
//	bits 6-7   reserved for cloud shadow
//	bits 8-9   vegetation confidence
//	bits 10-11 snow/ice confidence
//	bits 12-13 cirrus confidence
//	bits 14-15 cloud confidence
//
// Confidences are 2bit: 00 not determined, 01 no, 10 maybe, 11 yes.
// Every bit has a meaning, so no value fails to decode.
type landsat8QA struct{}

const(
	l8Fill         = 1 << 0
	l8DroppedFrame = 1 << 1
	l8Terrain      = 1 << 2
	l8ConfHigh     = 3
)

func (landsat8QA)Name() string { return "landsat8" }

func (landsat8QA)Validate(g raster.Grid) error { return validate16bit("landsat8", g) }

func (landsat8QA)Usable(v uint16) (bool, error) {
	switch {
	case v & l8Fill != 0:               return false, nil
	case v & l8DroppedFrame != 0:       return false, nil
	case v & l8Terrain != 0:            return false, nil
	case (v >> 12) & 3 == l8ConfHigh:   return false, nil  // cirrus
	case (v >> 14) & 3 == l8ConfHigh:   return false, nil  // cloud
	}
	return true, nil
}

func validate16bit(name string, g raster.Grid) error {
	if g.Depth != 16 {
		return fmt.Errorf("%w: %s QA masks must be 16bit, got %s", ErrConfig, name, g)
	}
	return nil
}

// }}}
// {{{ landsat8C1QA

// landsat8C1QA decodes the Landsat 8 Collection 1 BQA band:
//
//	bit  0     designated fill
//	bit  1     terrain occlusion
//	bits 2-3   radiometric saturation (number of saturated bands)
//	bit  4     cloud
//	bits 5-6   cloud confidence
//	bits 7-8   cloud shadow confidence
//	bits 9-10  snow/ice confidence
//	bits 11-12 cirrus confidence
//	bits 13-15 unused
//
// Confidences are 2bit: 01 low, 10 medium, 11 high.
type landsat8C1QA struct{}

const(
	c1Terrain   = 1 << 1
	c1Cloud     = 1 << 4
	c1Unused    = 0xE000
)

func (landsat8C1QA)Name() string { return "landsat8_c1" }

func (landsat8C1QA)Validate(g raster.Grid) error { return validate16bit("landsat8_c1", g) }

func (landsat8C1QA)Usable(v uint16) (bool, error) {
	if v & c1Unused != 0 {
		return false, fmt.Errorf("%w: landsat8_c1 QA value 0x%04x sets unused bits", ErrMaskDecode, v)
	}

	switch {
	case v & l8Fill != 0:               return false, nil
	case v & c1Terrain != 0:            return false, nil
	case (v >> 2) & 3 != 0:             return false, nil  // saturated
	case v & c1Cloud != 0:              return false, nil
	case (v >> 7) & 3 == l8ConfHigh:    return false, nil  // cloud shadow
	case (v >> 11) & 3 == l8ConfHigh:   return false, nil  // cirrus
	}
	return true, nil
}

// }}}
// {{{ sentinel2SCL

// sentinel2SCL decodes the Sentinel-2 L2A scene classification layer.
type sentinel2SCL struct{}

var sclUsable = []bool{
	0:  false, // no data
	1:  false, // saturated or defective
	2:  true,  // dark area
	3:  false, // cloud shadow
	4:  true,  // vegetation
	5:  true,  // not vegetated
	6:  true,  // water
	7:  true,  // unclassified
	8:  false, // cloud, medium probability
	9:  false, // cloud, high probability
	10: false, // thin cirrus
	11: true,  // snow
}

func (sentinel2SCL)Name() string                 { return "sentinel2_scl" }
func (sentinel2SCL)Validate(g raster.Grid) error { return nil }

func (sentinel2SCL)Usable(v uint16) (bool, error) {
	if int(v) >= len(sclUsable) {
		return false, fmt.Errorf("%w: sentinel2 SCL class %d", ErrMaskDecode, v)
	}
	return sclUsable[v], nil
}

// }}}
// {{{ binaryMask

// binaryMask is the simplest mask: 0 is clear, 255 is cloud.
type binaryMask struct{}

func (binaryMask)Name() string                 { return "binary" }
func (binaryMask)Validate(g raster.Grid) error { return nil }

func (binaryMask)Usable(v uint16) (bool, error) {
	switch v {
	case 0:   return true, nil
	case 255: return false, nil
	}
	return false, fmt.Errorf("%w: binary mask value %d, wanted 0 or 255", ErrMaskDecode, v)
}

// }}}
