package composite

import(
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/abworrall/compositor/pkg/raster"
)

// ExifDateTimeMeasure is attached to scenes whose files carry an EXIF
// timestamp, as unix seconds.
const ExifDateTimeMeasure = "exif_datetime"

// A SceneSpec is a scene as declared on the command line, before any
// files are opened.
type SceneSpec struct {
	Filename       string
	MaskFilename   string
	Measures       map[string]float64
}

// LoadScenes opens every scene raster (and mask), in declaration order.
func LoadScenes(specs []SceneSpec, log *zap.Logger) ([]Scene, error) {
	scenes := []Scene{}
	for i, spec := range specs {
		s, err := loadScene(i, spec, log)
		if err != nil {
			return nil, err
		}
		log.Debug("scene loaded", zap.Stringer("scene", s))
		scenes = append(scenes, s)
	}
	return scenes, nil
}

func loadScene(i int, spec SceneSpec, log *zap.Logger) (Scene, error) {
	s := Scene{
		Index:        i,
		Filename:     spec.Filename,
		MaskFilename: spec.MaskFilename,
		Measures:     map[string]float64{},
	}

	img, err := raster.Load(spec.Filename)
	if err != nil {
		return s, fmt.Errorf("scene %d: %v", i, err)
	}
	s.Raster = img

	if spec.MaskFilename != "" {
		mask, err := raster.Load(spec.MaskFilename)
		if err != nil {
			return s, fmt.Errorf("scene %d mask: %v", i, err)
		}
		s.Mask = mask
	}

	for k, v := range exifMeasures(spec.Filename, log) {
		s.Measures[k] = v
	}
	for k, v := range spec.Measures {
		s.Measures[k] = v // explicit measures win over anything from the file
	}

	return s, nil
}

// exifMeasures pulls what quality measures it can from the file's EXIF
// block. Most geospatial TIFFs have none, so failure is not an error.
func exifMeasures(filename string, log *zap.Logger) map[string]float64 {
	m := map[string]float64{}

	reader, err := os.Open(filename)
	if err != nil {
		return m
	}
	defer reader.Close()

	if ex, err := exif.Decode(reader); err != nil {
		log.Debug("no exif", zap.String("file", filename), zap.Error(err))
	} else if t, err := ex.DateTime(); err != nil {
		log.Debug("no exif datetime", zap.String("file", filename), zap.Error(err))
	} else {
		m[ExifDateTimeMeasure] = float64(t.Unix())
	}

	return m
}
