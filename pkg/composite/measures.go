package composite

import "fmt"

// MeasureStore answers "what is measure K for scene N". It is built
// once from the scenes, and is read-only after that.
type MeasureStore struct {
	names    []string
	measures []map[string]float64
}

func NewMeasureStore(scenes []Scene) MeasureStore {
	ms := MeasureStore{}
	for _, s := range scenes {
		m := make(map[string]float64, len(s.Measures))
		for k, v := range s.Measures {
			m[k] = v
		}
		ms.names = append(ms.names, s.Name())
		ms.measures = append(ms.measures, m)
	}
	return ms
}

func (ms MeasureStore)Len() int { return len(ms.measures) }

func (ms MeasureStore)Get(scene int, key string) (float64, error) {
	if scene < 0 || scene >= len(ms.measures) {
		return 0, fmt.Errorf("no scene #%d", scene)
	}
	// Measures are never negative; a negative value marks one as unknown.
	v, exists := ms.measures[scene][key]
	if !exists {
		return 0, fmt.Errorf("%w: scene %s lacks quality measure %s", ErrMissingMeasure, ms.names[scene], key)
	} else if v < 0 {
		return 0, fmt.Errorf("%w: scene %s lacks quality measure %s (%g is negative)", ErrMissingMeasure, ms.names[scene], key, v)
	}
	return v, nil
}

// Require checks that every scene has the measure.
func (ms MeasureStore)Require(key string) error {
	for i := range ms.measures {
		if _, err := ms.Get(i, key); err != nil {
			return err
		}
	}
	return nil
}
