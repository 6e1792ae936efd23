package netcdf

import "github.com/rs/zerolog"

// FileOption configures file opening.
type FileOption func(*fileOptions)

type fileOptions struct {
	log zerolog.Logger
}

func defaultFileOptions() fileOptions {
	return fileOptions{log: zerolog.Nop()}
}

// WithLogger sets the logger used for advisory diagnostics, such as the
// record-layout warning. The default discards them.
func WithLogger(log zerolog.Logger) FileOption {
	return func(o *fileOptions) {
		o.log = log
	}
}
