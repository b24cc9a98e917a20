//go:build !(cubism_cgo && cgo) && !darwin && !linux && !windows

package backend

// LibraryEnv names the environment variable consulted when Load is given an
// empty path.
const LibraryEnv = "CUBISM_CORE_LIBRARY"

// ResolvePath returns path unchanged; there is no loader on this platform.
func ResolvePath(path string) string { return path }

// Load always fails: this platform has neither a purego loader nor a cgo
// build of the core.
func Load(string) (Core, error) {
	return nil, ErrNotBuilt
}
