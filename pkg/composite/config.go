package composite

import(
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const(
	DefaultTileSize = 256

	scaleMinPrefix = "scale_min:"
	scaleMaxPrefix = "scale_max:"
)

/* Example config file; any -s option on the command line overrides it.

quality: scene_measure
scene_measure: acquisition_date
scene_measure_order: max
cloud_quality: landsat8
compositor: median
tile_size: 512
workers: 4
scale_min:
  acquisition_date: 1377000000
scale_max:
  acquisition_date: 1378000000

*/

// Config holds the strategy options, as named strings. It is resolved
// into a Strategy once, before compositing starts.
type Config struct {
	Verbosity          int                 `yaml:"verbosity"`

	Quality            string              `yaml:"quality"`              // greenest, darkest, scene_measure
	SceneMeasure       string              `yaml:"scene_measure"`        // measure key, for quality=scene_measure
	SceneMeasureOrder  string              `yaml:"scene_measure_order"`  // max (newest) or min
	CloudQuality       string              `yaml:"cloud_quality"`        // sensor profile for decoding cloud masks
	Compositor         string              `yaml:"compositor"`           // default, median

	TileSize           int                 `yaml:"tile_size"`
	Workers            int                 `yaml:"workers"`              // 0 means one per CPU

	ScaleMin           map[string]float64  `yaml:"scale_min"`
	ScaleMax           map[string]float64  `yaml:"scale_max"`
}

func NewConfig() Config {
	return Config{
		Quality:    "greenest",
		Compositor: "default",
		TileSize:   DefaultTileSize,
		ScaleMin:   map[string]float64{},
		ScaleMax:   map[string]float64{},
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func LoadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return c, fmt.Errorf("%w: config parse %s: %v", ErrConfig, filename, err)
	}
	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Set applies a single named option, as given by `-s key value`.
// Values are checked later, by Resolve.
func (c *Config)Set(key, value string) error {
	var err error

	switch key {
	case "quality":             c.Quality = value
	case "scene_measure":       c.SceneMeasure = value
	case "scene_measure_order": c.SceneMeasureOrder = value
	case "cloud_quality":       c.CloudQuality = value
	case "compositor":          c.Compositor = value
	case "tile_size":           c.TileSize, err = strconv.Atoi(value)
	case "workers":             c.Workers, err = strconv.Atoi(value)

	default:
		switch {
		case strings.HasPrefix(key, scaleMinPrefix):
			err = c.setScale(&c.ScaleMin, strings.TrimPrefix(key, scaleMinPrefix), value)
		case strings.HasPrefix(key, scaleMaxPrefix):
			err = c.setScale(&c.ScaleMax, strings.TrimPrefix(key, scaleMaxPrefix), value)
		default:
			return fmt.Errorf("%w: unknown strategy option %q", ErrConfig, key)
		}
	}

	if err != nil {
		return fmt.Errorf("%w: option %s=%q: %v", ErrConfig, key, value, err)
	}
	return nil
}

func (c *Config)setScale(m *map[string]float64, measure, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	if *m == nil {
		*m = map[string]float64{}
	}
	(*m)[measure] = v
	return nil
}

// Resolve checks every option and turns the names into the closed set
// of behaviours the compositor runs with.
func (c Config)Resolve() (Strategy, error) {
	s := Strategy{TileSize: c.TileSize, Workers: c.Workers}

	switch c.Quality {
	case "greenest":      s.Quality = QualityGreenest
	case "darkest":       s.Quality = QualityDarkest
	case "scene_measure": s.Quality = QualitySceneMeasure
	default:
		return s, fmt.Errorf("%w: no quality method named '%s'", ErrUnknownStrategy, c.Quality)
	}
	s.Direction = s.Quality.Direction()

	if s.Quality == QualitySceneMeasure {
		if c.SceneMeasure == "" {
			return s, fmt.Errorf("%w: quality=scene_measure needs a scene_measure key", ErrConfig)
		}
		s.MeasureKey = c.SceneMeasure

		switch c.SceneMeasureOrder {
		case "", "max": s.Direction = DirectionMax
		case "min":     s.Direction = DirectionMin
		default:
			return s, fmt.Errorf("%w: scene_measure_order '%s', wanted max or min", ErrConfig, c.SceneMeasureOrder)
		}

		s.ScaleMin, s.ScaleMax = 0.0, 1.0
		if v, exists := c.ScaleMin[c.SceneMeasure]; exists { s.ScaleMin = v }
		if v, exists := c.ScaleMax[c.SceneMeasure]; exists { s.ScaleMax = v }
		if s.ScaleMax == s.ScaleMin {
			return s, fmt.Errorf("%w: scale_min and scale_max for %s are both %g", ErrConfig, c.SceneMeasure, s.ScaleMin)
		}

	} else if c.SceneMeasureOrder != "" {
		return s, fmt.Errorf("%w: scene_measure_order only applies to quality=scene_measure", ErrConfig)
	}

	switch c.Compositor {
	case "", "default": s.Mode = ModeBest
	case "median":      s.Mode = ModeMedian
	default:
		return s, fmt.Errorf("%w: no compositor named '%s'", ErrUnknownStrategy, c.Compositor)
	}

	if c.CloudQuality != "" {
		classifier, err := NewCloudClassifier(c.CloudQuality)
		if err != nil {
			return s, err
		}
		s.Classifier = classifier
	}

	if s.TileSize < 0 || s.Workers < 0 {
		return s, fmt.Errorf("%w: tile_size and workers can't be negative", ErrConfig)
	}
	if s.TileSize == 0 { s.TileSize = DefaultTileSize }
	if s.Workers == 0  { s.Workers = runtime.NumCPU() }

	return s, nil
}
