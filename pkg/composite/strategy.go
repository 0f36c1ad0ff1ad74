package composite

import "fmt"

// QualityKind names the per-pixel quality metric.
type QualityKind int

const(
	QualityGreenest QualityKind = iota  // band ratio vegetation index; higher wins
	QualityDarkest                      // sum of band samples; lower wins
	QualitySceneMeasure                 // a scene-wide metadata value; higher wins unless configured otherwise
)

func (k QualityKind)String() string {
	switch k {
	case QualityGreenest:     return "greenest"
	case QualityDarkest:      return "darkest"
	case QualitySceneMeasure: return "scene_measure"
	}
	return fmt.Sprintf("quality(%d)", int(k))
}

// Direction is the win direction each quality metric implies by default.
func (k QualityKind)Direction() Direction {
	if k == QualityDarkest {
		return DirectionMin
	}
	return DirectionMax
}

// Direction says whether the higher or the lower quality score wins.
type Direction int

const(
	DirectionMax Direction = iota
	DirectionMin
)

func (d Direction)String() string {
	if d == DirectionMin {
		return "min"
	}
	return "max"
}

// Better is true if score a strictly beats score b.
func (d Direction)Better(a, b float64) bool {
	if d == DirectionMin {
		return a < b
	}
	return a > b
}

// CompositeMode picks how the winning scene is chosen from the valid candidates.
type CompositeMode int

const(
	ModeBest   CompositeMode = iota  // single winner with the extreme score
	ModeMedian                       // the scene at the middle rank of the scores
)

func (m CompositeMode)String() string {
	if m == ModeMedian {
		return "median"
	}
	return "default"
}

// A Strategy is a resolved, immutable Config.
type Strategy struct {
	Quality      QualityKind
	Direction    Direction
	Mode         CompositeMode
	Classifier   CloudClassifier   // nil when no cloud_quality profile is set

	MeasureKey   string            // only for QualitySceneMeasure
	ScaleMin     float64
	ScaleMax     float64

	TileSize     int
	Workers      int
}

func (s Strategy)String() string {
	str := fmt.Sprintf("quality=%s (%s wins), compositor=%s", s.Quality, s.Direction, s.Mode)
	if s.MeasureKey != "" {
		str += fmt.Sprintf(", measure=%s", s.MeasureKey)
	}
	if s.Classifier != nil {
		str += fmt.Sprintf(", cloud_quality=%s", s.Classifier.Name())
	}
	return str + fmt.Sprintf(", tiles=%d, workers=%d", s.TileSize, s.Workers)
}

// Selector returns the function that picks the winner at each pixel.
func (s Strategy)Selector() SelectFunc {
	if s.Mode == ModeMedian {
		return SelectMedian
	}
	return SelectBest
}
