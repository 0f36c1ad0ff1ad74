package composite

import(
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abworrall/compositor/pkg/raster"
)

// A Scene is one input raster in the stack, with its optional cloud
// mask and named quality measures. Index is the declaration order, and
// breaks ties between scenes that score the same.
type Scene struct {
	Index          int
	Filename       string
	Raster         raster.Reader

	MaskFilename   string
	Mask           raster.Reader        // nil if no cloud mask was attached

	Measures       map[string]float64
}

func (s Scene)Name() string {
	return filepath.Base(s.Filename)
}

func (s Scene)String() string {
	str := fmt.Sprintf("#%d %s: %s", s.Index, s.Name(), s.Raster.Grid())
	if s.Mask != nil {
		str += fmt.Sprintf(", mask %s", filepath.Base(s.MaskFilename))
	}
	if len(s.Measures) > 0 {
		keys := []string{}
		for k := range s.Measures {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kv := []string{}
		for _, k := range keys {
			kv = append(kv, fmt.Sprintf("%s=%g", k, s.Measures[k]))
		}
		str += ", " + strings.Join(kv, " ")
	}
	return str
}
