package composite

import(
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abworrall/compositor/pkg/raster"
)

// State is where a Compositor is in its lifecycle.
type State int

const(
	StateIdle State = iota
	StateValidatingConfig
	StateSweeping
	StateFinalized
	StateFailed
)

func (s State)String() string {
	switch s {
	case StateIdle:             return "idle"
	case StateValidatingConfig: return "validating"
	case StateSweeping:         return "sweeping"
	case StateFinalized:        return "finalized"
	case StateFailed:           return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Compositor builds a best-pixel composite from a stack of scenes. For
// each output pixel it scores every scene, drops the unusable ones,
// and copies the winner's bands into Output. Output is seeded by the
// caller; pixels where no scene is usable are left alone.
type Compositor struct {
	Config
	Scenes          []Scene
	Output          *raster.Image
	Trace           *SourceTrace     // optional; records winner & score per pixel
	Report          *RunReport       // filled in by Run

	log             *zap.Logger
	strategy          Strategy
	quality          *QualityMetric
	selector          SelectFunc
	alphaThreshold    uint16

	mu                sync.Mutex
	state             State
	validated         bool
}

func NewCompositor(cfg Config, scenes []Scene, out *raster.Image, log *zap.Logger) *Compositor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{
		Config: cfg,
		Scenes: scenes,
		Output: out,
		log:    log,
	}
}

func (c *Compositor)String() string {
	str := fmt.Sprintf("Compositor [%s] [\n", c.State())
	for _, s := range c.Scenes {
		str += fmt.Sprintf("  %s\n", s)
	}
	return str + "]\n"
}

func (c *Compositor)State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Compositor)setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Strategy returns the resolved strategy; only meaningful after Validate.
func (c *Compositor)Strategy() Strategy { return c.strategy }

// Validate does every configuration check, and resolves the strategy.
// Nothing reads a pixel until this has passed.
func (c *Compositor)Validate() error {
	if s := c.State(); s != StateIdle {
		return fmt.Errorf("can't validate a compositor that is %s", s)
	}
	c.setState(StateValidatingConfig)

	if err := c.validate(); err != nil {
		c.setState(StateFailed)
		return err
	}

	c.validated = true
	c.log.Debug("configuration validated", zap.Stringer("strategy", c.strategy))
	return nil
}

func (c *Compositor)validate() error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("%w: no input scenes", ErrConfig)
	} else if c.Output == nil {
		return fmt.Errorf("%w: no output raster", ErrConfig)
	}

	strategy, err := c.Config.Resolve()
	if err != nil {
		return err
	}

	grid := c.Scenes[0].Raster.Grid()
	if err := grid.Validate(); err != nil {
		return fmt.Errorf("%w: scene %s: %v", ErrConfig, c.Scenes[0].Name(), err)
	}

	for i, s := range c.Scenes {
		if s.Index != i {
			return fmt.Errorf("%w: scene %s has index %d, declared at %d", ErrConfig, s.Name(), s.Index, i)
		}
		if g := s.Raster.Grid(); g != grid {
			return fmt.Errorf("%w: scene %s is %s, scene %s is %s", ErrGridMismatch, s.Name(), g, c.Scenes[0].Name(), grid)
		}
		// Winning samples are copied as is, so they must mean the same thing in the output.
		if s.Raster.IsPremultiplied() != c.Output.IsPremultiplied() {
			return fmt.Errorf("%w: scene %s has %s samples, output has %s", ErrGridMismatch, s.Name(),
				alphaEncoding(s.Raster), alphaEncoding(c.Output))
		}

		if s.Mask == nil {
			continue
		} else if strategy.Classifier == nil {
			return fmt.Errorf("%w: scene %s has a cloud mask, but no cloud_quality is set", ErrConfig, s.Name())
		}
		if mg := s.Mask.Grid(); !mg.SameShape(grid) {
			return fmt.Errorf("%w: scene %s mask is %s, scene is %s", ErrGridMismatch, s.Name(), mg, grid)
		} else if err := strategy.Classifier.Validate(mg); err != nil {
			return fmt.Errorf("scene %s mask: %w", s.Name(), err)
		}
	}

	if g := c.Output.Grid(); g != grid {
		return fmt.Errorf("%w: output is %s, scenes are %s", ErrGridMismatch, g, grid)
	}
	if c.Trace != nil && (c.Trace.Width != grid.Width || c.Trace.Height != grid.Height) {
		return fmt.Errorf("%w: source trace is %dx%d, scenes are %s", ErrGridMismatch, c.Trace.Width, c.Trace.Height, grid)
	}

	if strategy.Quality == QualityGreenest && grid.Bands < 2 {
		return fmt.Errorf("%w: greenest needs red and green bands, scenes have %d band(s)", ErrConfig, grid.Bands)
	}

	quality, err := NewQualityMetric(strategy, NewMeasureStore(c.Scenes))
	if err != nil {
		return err
	}

	c.strategy       = strategy
	c.quality        = quality
	c.selector       = strategy.Selector()
	c.alphaThreshold = uint16((int(grid.MaxValue()) + 1) / 2)

	return nil
}

func alphaEncoding(r raster.Reader) string {
	if r.IsPremultiplied() {
		return "premultiplied"
	}
	return "straight"
}

// Tiles cuts the output grid into squares of the configured tile
// size; the last row and column may be smaller.
func (c *Compositor)Tiles() []image.Rectangle {
	bounds := c.Output.Bounds()
	size := c.strategy.TileSize

	tiles := []image.Rectangle{}
	for y:=bounds.Min.Y; y<bounds.Max.Y; y+=size {
		for x:=bounds.Min.X; x<bounds.Max.X; x+=size {
			tiles = append(tiles, image.Rect(x, y, x+size, y+size).Intersect(bounds))
		}
	}
	return tiles
}

// Run validates (if that hasn't happened yet), composites every tile,
// and finalizes. The first error from any tile cancels the rest and is
// returned; tiles that already finished have written their pixels.
func (c *Compositor)Run(ctx context.Context) error {
	switch s := c.State(); s {
	case StateFinalized:
		return ErrFinalized
	case StateFailed, StateSweeping:
		return fmt.Errorf("can't run a compositor that is %s", s)
	}

	if !c.validated {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	c.setState(StateSweeping)
	c.Report = NewRunReport(len(c.Scenes))
	tiles := c.Tiles()
	c.log.Info("compositing", zap.Int("scenes", len(c.Scenes)), zap.Int("tiles", len(tiles)),
		zap.Stringer("strategy", c.strategy))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.strategy.Workers)
	for _, r := range tiles {
		r := r
		g.Go(func() error { return c.compositeTile(gctx, r) })
	}

	if err := g.Wait(); err != nil {
		c.setState(StateFailed)
		return err
	}

	c.setState(StateFinalized)
	return nil
}

// compositeTile reads every scene's tile, then picks and writes the
// winner for each pixel inside it.
func (c *Compositor)compositeTile(ctx context.Context, r image.Rectangle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	bands := make([]*raster.Tile, len(c.Scenes))
	masks := make([]*raster.Tile, len(c.Scenes))
	for i, s := range c.Scenes {
		t, err := s.Raster.ReadTile(r)
		if err != nil {
			return fmt.Errorf("scene %s, tile %s: %w", s.Name(), r, err)
		}
		bands[i] = t

		if s.Mask != nil {
			if masks[i], err = s.Mask.ReadTile(r); err != nil {
				return fmt.Errorf("scene %s mask, tile %s: %w", s.Name(), r, err)
			}
		}
	}

	bw    := NewBandWriter(c.Output, r)
	stats := newTileStats(len(c.Scenes))
	cands := make([]PixelQuality, 0, len(c.Scenes))
	opaque := c.Output.Grid().MaxValue()

	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			// Only the valid records are kept, still in declaration order.
			cands = cands[:0]
			for i := range c.Scenes {
				usable, err := c.usable(i, bands[i], masks[i], x, y)
				if err != nil {
					return err
				}
				if valid, score := c.quality.Score(i, bands[i].Pixel(x, y), usable); valid {
					cands = append(cands, PixelQuality{Scene: i, Valid: true, Score: score})
				}
			}

			if len(cands) == 0 {
				stats.background++
				continue
			}

			w := cands[c.selector(c.strategy.Direction, cands)]
			alpha, ok := bands[w.Scene].AlphaAt(x, y)
			if !ok {
				alpha = opaque
			}
			bw.Write(x, y, bands[w.Scene].Pixel(x, y), alpha)

			if c.Trace != nil {
				c.Trace.Record(x, y, w.Scene, w.Score)
			}
			stats.win(w.Scene, w.Score)
		}
	}

	c.Report.addTile(stats, time.Since(start))
	return nil
}

// usable checks the scene's alpha and cloud mask at a pixel.
func (c *Compositor)usable(scene int, bands, mask *raster.Tile, x, y int) (bool, error) {
	if a, ok := bands.AlphaAt(x, y); ok && a < c.alphaThreshold {
		return false, nil
	}
	if mask == nil {
		return true, nil
	}

	raw, err := maskValue(mask, x, y)
	if err != nil {
		return false, fmt.Errorf("scene %s mask at (%d,%d): %w", c.Scenes[scene].Name(), x, y, err)
	}
	usable, err := c.strategy.Classifier.Usable(raw)
	if err != nil {
		return false, fmt.Errorf("scene %s mask at (%d,%d): %w", c.Scenes[scene].Name(), x, y, err)
	}
	return usable, nil
}
