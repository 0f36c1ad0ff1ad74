package cli

import(
	"errors"
	"fmt"
	"strconv"

	"github.com/abworrall/compositor/pkg/composite"
)

// errHelp is returned by ParseArgs when the user asked for usage.
var errHelp = errors.New("help requested")

// Options is everything given on the command line.
type Options struct {
	Quiet              bool
	Verbosity          int
	ConfigFilename     string
	Settings         [][2]string                // -s key value, in order given
	OutputFilename     string
	Scenes           []composite.SceneSpec
	TraceFilename      string                   // -st
	QualityFilename    string                   // -qo
}

// ParseArgs scans the arguments by hand. -c and -qm attach to the most
// recent -i, and -s/-qm take two values, which flag packages can't do.
func ParseArgs(args []string) (Options, error) {
	opts := Options{}

	for i:=0; i<len(args); i++ {
		arg := args[i]

		lastScene := func() (*composite.SceneSpec, error) {
			if len(opts.Scenes) == 0 {
				return nil, fmt.Errorf("%s must follow an -i scene", arg)
			}
			return &opts.Scenes[len(opts.Scenes)-1], nil
		}

		switch arg {
		case "-h", "-help", "--help":
			return opts, errHelp
		case "-q":
			opts.Quiet = true
			continue
		case "-v":
			opts.Verbosity++
			continue
		}

		n := 1
		switch arg {
		case "-s", "-qm":
			n = 2
		case "-cfg", "-o", "-i", "-c", "-st", "-qo":
		default:
			return opts, fmt.Errorf("unknown option '%s'", arg)
		}
		if i+n >= len(args) {
			return opts, fmt.Errorf("%s wants %d value(s)", arg, n)
		}
		vals := args[i+1:i+1+n]
		i += n

		switch arg {
		case "-cfg": opts.ConfigFilename = vals[0]
		case "-o":   opts.OutputFilename = vals[0]
		case "-st":  opts.TraceFilename = vals[0]
		case "-qo":  opts.QualityFilename = vals[0]
		case "-s":   opts.Settings = append(opts.Settings, [2]string{vals[0], vals[1]})

		case "-i":
			opts.Scenes = append(opts.Scenes, composite.SceneSpec{Filename: vals[0], Measures: map[string]float64{}})

		case "-c":
			s, err := lastScene()
			if err != nil {
				return opts, err
			}
			if s.MaskFilename != "" {
				return opts, fmt.Errorf("scene %s already has mask %s", s.Filename, s.MaskFilename)
			}
			s.MaskFilename = vals[0]

		case "-qm":
			s, err := lastScene()
			if err != nil {
				return opts, err
			}
			v, err := strconv.ParseFloat(vals[1], 64)
			if err != nil {
				return opts, fmt.Errorf("-qm %s '%s' for scene %s: not a number", vals[0], vals[1], s.Filename)
			}
			s.Measures[vals[0]] = v
		}
	}

	if opts.OutputFilename == "" {
		return opts, fmt.Errorf("no output raster; use -o")
	} else if len(opts.Scenes) == 0 {
		return opts, fmt.Errorf("no input scenes; use -i")
	}

	return opts, nil
}
