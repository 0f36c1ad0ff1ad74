package composite

import(
	"fmt"
)

// A QualityFunc scores one pixel of one scene, from its band samples.
type QualityFunc func(px []uint16) float64

// QualityByGreenness is a red/green normalized difference, (G-R)/(G+R),
// taking band 0 as red and band 1 as green. Range is [-1, 1]; a black
// pixel scores 0.
func QualityByGreenness(px []uint16) float64 {
	r, g := float64(px[0]), float64(px[1])
	if r + g == 0 {
		return 0
	}
	return (g - r) / (g + r)
}

// QualityByBrightness sums the samples over all bands.
func QualityByBrightness(px []uint16) float64 {
	sum := 0.0
	for _, v := range px {
		sum += float64(v)
	}
	return sum
}

// QualityMetric scores (scene, pixel) pairs for the configured strategy.
type QualityMetric struct {
	Kind          QualityKind
	Direction     Direction

	fn            QualityFunc
	sceneValues []float64       // for QualitySceneMeasure; one per scene, already rescaled
}

// NewQualityMetric resolves everything the metric needs up front. For
// scene_measure that means fetching the measure for every scene, so a
// missing one is found before any pixel work starts.
func NewQualityMetric(s Strategy, store MeasureStore) (*QualityMetric, error) {
	qm := &QualityMetric{Kind: s.Quality, Direction: s.Direction}

	switch s.Quality {
	case QualityGreenest: qm.fn = QualityByGreenness
	case QualityDarkest:  qm.fn = QualityByBrightness

	case QualitySceneMeasure:
		if err := store.Require(s.MeasureKey); err != nil {
			return nil, err
		}
		for i:=0; i<store.Len(); i++ {
			v, _ := store.Get(i, s.MeasureKey)
			qm.sceneValues = append(qm.sceneValues, (v - s.ScaleMin) / (s.ScaleMax - s.ScaleMin))
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s.Quality)
	}

	return qm, nil
}

// Score returns the quality of a scene's pixel. A pixel already found
// unusable (cloud mask, alpha) is never valid, whatever it would score.
func (qm *QualityMetric)Score(scene int, px []uint16, usable bool) (valid bool, value float64) {
	if !usable {
		return false, 0
	}
	if qm.Kind == QualitySceneMeasure {
		return true, qm.sceneValues[scene]
	}
	return true, qm.fn(px)
}
