package cli

import(
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abworrall/compositor/pkg/composite"
	"github.com/abworrall/compositor/pkg/logging"
	"github.com/abworrall/compositor/pkg/raster"
)

// Configure builds the config: defaults, then the -cfg file, then each
// -s option in the order given.
func Configure(opts Options) (composite.Config, error) {
	cfg := composite.NewConfig()
	if opts.ConfigFilename != "" {
		var err error
		if cfg, err = composite.LoadConfig(opts.ConfigFilename); err != nil {
			return cfg, err
		}
	}

	for _, kv := range opts.Settings {
		if err := cfg.Set(kv[0], kv[1]); err != nil {
			return cfg, err
		}
	}
	cfg.Verbosity = opts.Verbosity

	return cfg, nil
}

// Run composites the scenes over the pre-seeded output raster, and
// writes it back in place. The optional trace and quality outputs are
// written after the composite.
func Run(ctx context.Context, opts Options) error {
	log, err := logging.New(opts.Quiet, opts.Verbosity)
	if err != nil {
		return err
	}
	defer log.Sync()

	return run(ctx, opts, log)
}

func run(ctx context.Context, opts Options, log *zap.Logger) error {
	cfg, err := Configure(opts)
	if err != nil {
		return err
	}
	if cfg.Verbosity > 0 {
		log.Debug("configuration\n" + cfg.AsYaml())
	}

	scenes, err := composite.LoadScenes(opts.Scenes, log)
	if err != nil {
		return err
	}

	out, err := raster.Load(opts.OutputFilename)
	if err != nil {
		return fmt.Errorf("output seed: %v", err)
	}

	c := composite.NewCompositor(cfg, scenes, out, log)
	if opts.TraceFilename != "" || opts.QualityFilename != "" {
		c.Trace = composite.NewSourceTrace(out.Grid())
	}

	if err := c.Run(ctx); err != nil {
		return err
	}

	if err := raster.Save(c.Output, opts.OutputFilename); err != nil {
		return err
	}
	log.Info("output written", zap.String("file", opts.OutputFilename))

	if opts.TraceFilename != "" {
		if err := c.Trace.WriteSourceTrace(opts.TraceFilename, len(scenes)); err != nil {
			return err
		}
		log.Info("source trace written", zap.String("file", opts.TraceFilename))
	}
	if opts.QualityFilename != "" {
		if err := c.Trace.WriteQuality(opts.QualityFilename, c.Strategy().String()); err != nil {
			return err
		}
		log.Info("quality output written", zap.String("file", opts.QualityFilename))
	}

	c.Report.Log(log, scenes)
	return nil
}
