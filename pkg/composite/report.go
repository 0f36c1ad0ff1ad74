package composite

import(
	"fmt"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Scenes past this index all land in the winners histogram's last bucket.
const maxHistScenes = 256

// RunReport accumulates per-tile statistics over a compositing run.
// Tiles hand in their own counts when they finish; nothing in here is
// touched per pixel.
type RunReport struct {
	mu             sync.Mutex

	Composited     int   // pixels that got a winner
	Background     int   // pixels left as they were
	Tiles          int

	winCounts    []int
	winners        histogram.Histogram
	tileLatency   *hdrhistogram.Histogram
	tileMeans    []float64
	tileWeights  []float64
}

// tileStats is what a single tile accumulates while it runs.
type tileStats struct {
	wins        []int
	scores      []float64
	background    int
}

func newTileStats(nScenes int) *tileStats {
	return &tileStats{wins: make([]int, nScenes)}
}

func (ts *tileStats)win(scene int, score float64) {
	ts.wins[scene]++
	ts.scores = append(ts.scores, score)
}

func NewRunReport(nScenes int) *RunReport {
	return &RunReport{
		winCounts:   make([]int, nScenes),
		winners:     histogram.Histogram{NumBuckets:maxHistScenes, ValMin:0, ValMax:maxHistScenes},
		tileLatency: hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3),
	}
}

func (rr *RunReport)addTile(ts *tileStats, d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.Tiles++
	rr.Background += ts.background
	rr.Composited += len(ts.scores)
	rr.tileLatency.RecordValue(us)

	for scene, n := range ts.wins {
		rr.winCounts[scene] += n
		for i:=0; i<n; i++ {
			rr.winners.Add(histogram.ScalarVal(scene))
		}
	}

	if len(ts.scores) > 0 {
		rr.tileMeans = append(rr.tileMeans, stat.Mean(ts.scores, nil))
		rr.tileWeights = append(rr.tileWeights, float64(len(ts.scores)))
	}
}

// WinCount is the number of output pixels taken from the scene.
func (rr *RunReport)WinCount(scene int) int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.winCounts[scene]
}

// MeanScore is the average winning quality score, over all composited pixels.
func (rr *RunReport)MeanScore() float64 {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.tileMeans) == 0 {
		return 0
	}
	return stat.Mean(rr.tileMeans, rr.tileWeights)
}

func (rr *RunReport)Log(log *zap.Logger, scenes []Scene) {
	log.Info("composite complete",
		zap.Int("composited", rr.Composited),
		zap.Int("background", rr.Background),
		zap.Int("tiles", rr.Tiles),
		zap.Float64("mean_score", rr.MeanScore()),
		zap.Duration("tile_p50", time.Duration(rr.tileLatency.ValueAtQuantile(50)) * time.Microsecond),
		zap.Duration("tile_p99", time.Duration(rr.tileLatency.ValueAtQuantile(99)) * time.Microsecond))

	for _, s := range scenes {
		log.Info("scene contribution", zap.String("scene", s.Name()), zap.Int("pixels", rr.WinCount(s.Index)))
	}
	log.Debug("winners histogram", zap.String("hist", fmt.Sprintf("%v", rr.winners)))
}
