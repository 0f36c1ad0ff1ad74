package composite

import(
	"errors"
	"fmt"
)

var(
	// ErrConfig is wrapped by every error found while validating the
	// configuration, before any pixel is read.
	ErrConfig = errors.New("configuration error")

	ErrUnknownStrategy   = fmt.Errorf("%w: unknown strategy", ErrConfig)
	ErrUnsupportedSensor = fmt.Errorf("%w: unsupported cloud quality sensor", ErrConfig)
	ErrMissingMeasure    = fmt.Errorf("%w: missing scene measure", ErrConfig)
	ErrGridMismatch      = fmt.Errorf("%w: raster grids do not match", ErrConfig)

	// ErrMaskDecode means a cloud mask held a value outside its sensor's encoding.
	ErrMaskDecode = errors.New("cloud mask decode error")

	ErrFinalized = errors.New("compositor already finalized")
)
