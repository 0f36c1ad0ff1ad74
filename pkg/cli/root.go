package cli

import(
	"errors"

	"github.com/spf13/cobra"
)

const usage = `compositor [-q] [-v] [-cfg file.yaml] [-s key value]... -o out.tif
           -i scene.tif [-c mask.tif] [-qm key value]... [-i ...]
           [-st trace.{tif,png}] [-qo quality.{hdr,png}]`

const longHelp = `Builds a best-pixel composite from a stack of co-registered scenes.

The output raster (-o) must already exist; it is the background, and
only pixels where some scene is usable get overwritten.

  -i   add a scene; -c and -qm apply to the most recent -i
  -c   cloud mask for the scene, decoded per -s cloud_quality
  -qm  a named numeric measure for the scene (e.g. acquisition_date)
  -s   strategy option: quality, scene_measure, scene_measure_order,
       cloud_quality, compositor, tile_size, workers,
       scale_min:<measure>, scale_max:<measure>
  -cfg yaml file of strategy options; -s overrides it
  -st  write which scene won each pixel
  -qo  write the winning quality score of each pixel
  -q   only log errors
  -v   debug logging`

// NewRootCmd returns the compositor command. Flag parsing is left to
// ParseArgs, since the scene options are positional.
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:                usage,
		Short:              "Best-pixel multi-scene compositor",
		Long:               longHelp,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ParseArgs(args)
			if errors.Is(err, errHelp) {
				return cmd.Help()
			} else if err != nil {
				return err
			}
			return Run(cmd.Context(), opts)
		},
	}
}

func Execute() error {
	return NewRootCmd().Execute()
}
