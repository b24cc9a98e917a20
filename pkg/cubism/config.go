package cubism

import "github.com/cubism-go/cubism-core-go/pkg/cubism/logging"

// Config controls how Open reaches the native core.
type Config struct {
	// LibraryPath points at the core shared library. When empty the loader
	// tries $CUBISM_CORE_LIBRARY and then the platform's default file name.
	// Builds with -tags cubism_cgo link the core statically and ignore it.
	LibraryPath string

	// Logger receives lifecycle records. Nil discards them.
	Logger logging.Logger

	// ForwardCoreLog installs a core log handler that forwards native
	// messages to Logger at Warn level.
	ForwardCoreLog bool
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}
