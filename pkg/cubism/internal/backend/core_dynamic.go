//go:build !(cubism_cgo && cgo) && (darwin || linux || windows)

package backend

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
)

// LibraryEnv names the environment variable consulted when Load is given an
// empty path.
const LibraryEnv = "CUBISM_CORE_LIBRARY"

type binding struct {
	name string
	fn   any
}

// rawLog holds the two log entry points whose native signatures involve a
// function pointer; they are wrapped before landing in entryPoints.
type rawLog struct {
	get func() uintptr
	set func(handler uintptr)
}

func bindings(ep *entryPoints, lg *rawLog) []binding {
	return []binding{
		{"csmGetVersion", &ep.getVersion},
		{"csmGetLatestMocVersion", &ep.getLatestMocVersion},
		{"csmGetMocVersion", &ep.getMocVersion},
		{"csmGetLogFunction", &lg.get},
		{"csmSetLogFunction", &lg.set},
		{"csmReviveMocInPlace", &ep.reviveMocInPlace},
		{"csmGetSizeofModel", &ep.getSizeofModel},
		{"csmInitializeModelInPlace", &ep.initializeModelInPlace},
		{"csmUpdateModel", &ep.updateModel},
		{"csmReadCanvasInfo", &ep.readCanvasInfo},
		{"csmGetParameterCount", &ep.getParameterCount},
		{"csmGetParameterIds", &ep.getParameterIds},
		{"csmGetParameterMinimumValues", &ep.getParameterMinimumValues},
		{"csmGetParameterMaximumValues", &ep.getParameterMaximumValues},
		{"csmGetParameterDefaultValues", &ep.getParameterDefaultValues},
		{"csmGetParameterValues", &ep.getParameterValues},
		{"csmGetParameterKeyCounts", &ep.getParameterKeyCounts},
		{"csmGetParameterKeyValues", &ep.getParameterKeyValues},
		{"csmGetPartCount", &ep.getPartCount},
		{"csmGetPartIds", &ep.getPartIds},
		{"csmGetPartOpacities", &ep.getPartOpacities},
		{"csmGetPartParentPartIndices", &ep.getPartParentPartIndices},
		{"csmGetDrawableCount", &ep.getDrawableCount},
		{"csmGetDrawableIds", &ep.getDrawableIds},
		{"csmGetDrawableConstantFlags", &ep.getDrawableConstantFlags},
		{"csmGetDrawableDynamicFlags", &ep.getDrawableDynamicFlags},
		{"csmGetDrawableTextureIndices", &ep.getDrawableTextureIndices},
		{"csmGetDrawableDrawOrders", &ep.getDrawableDrawOrders},
		{"csmGetDrawableRenderOrders", &ep.getDrawableRenderOrders},
		{"csmGetDrawableOpacities", &ep.getDrawableOpacities},
		{"csmGetDrawableMaskCounts", &ep.getDrawableMaskCounts},
		{"csmGetDrawableMasks", &ep.getDrawableMasks},
		{"csmGetDrawableVertexCounts", &ep.getDrawableVertexCounts},
		{"csmGetDrawableVertexPositions", &ep.getDrawableVertexPositions},
		{"csmGetDrawableVertexUvs", &ep.getDrawableVertexUvs},
		{"csmGetDrawableIndexCounts", &ep.getDrawableIndexCounts},
		{"csmGetDrawableIndices", &ep.getDrawableIndices},
		{"csmResetDrawableDynamicFlags", &ep.resetDrawableDynamicFlags},
	}
}

var (
	logCallbackOnce sync.Once
	logCallback     uintptr
)

// nativeLogCallback returns the C-callable trampoline for csmSetLogFunction.
// purego callbacks are a finite resource, so it is created once per process.
func nativeLogCallback() uintptr {
	logCallbackOnce.Do(func() {
		logCallback = purego.NewCallback(func(message *byte) uintptr {
			dispatchLog(goString(message))
			return 0
		})
	})
	return logCallback
}

// ResolvePath picks the library to load: the explicit path, then the
// environment override, then the platform's default file name.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(LibraryEnv); env != "" {
		return env
	}
	return defaultLibraryName()
}

// Load opens the core shared library and binds every declared entry point.
// A library that lacks any symbol is closed again and rejected as a whole.
func Load(path string) (Core, error) {
	path = ResolvePath(path)
	handle, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, path, err)
	}

	var (
		ep      entryPoints
		lg      rawLog
		missing []string
	)
	table := bindings(&ep, &lg)
	addrs := make([]uintptr, len(table))
	for i, b := range table {
		addr, err := lookupSymbol(handle, b.name)
		if err != nil || addr == 0 {
			missing = append(missing, b.name)
			continue
		}
		addrs[i] = addr
	}
	if len(missing) > 0 {
		_ = closeLibrary(handle)
		return nil, fmt.Errorf("%w: %s: %s", ErrMissingSymbols, path, strings.Join(missing, ", "))
	}
	for i, b := range table {
		purego.RegisterFunc(b.fn, addrs[i])
	}

	ep.installLogTrampoline = func(on bool) {
		if on {
			lg.set(nativeLogCallback())
			return
		}
		lg.set(0)
	}
	ep.hasLogFunction = func() bool { return lg.get() != 0 }
	ep.release = func() error { return closeLibrary(handle) }

	return &native{ep: ep}, nil
}
