//go:build cubism_cgo && cgo

package backend

/*
#cgo CFLAGS: -I${SRCDIR}/../../../../third_party/CubismCore/include
#cgo linux,amd64 LDFLAGS: -L${SRCDIR}/../../../../third_party/CubismCore/lib/linux_amd64 -lLive2DCubismCore -lm
#cgo linux,arm64 LDFLAGS: -L${SRCDIR}/../../../../third_party/CubismCore/lib/linux_arm64 -lLive2DCubismCore -lm
#cgo darwin,amd64 LDFLAGS: -L${SRCDIR}/../../../../third_party/CubismCore/lib/darwin_amd64 -lLive2DCubismCore
#cgo darwin,arm64 LDFLAGS: -L${SRCDIR}/../../../../third_party/CubismCore/lib/darwin_arm64 -lLive2DCubismCore
#cgo windows,amd64 LDFLAGS: -L${SRCDIR}/../../../../third_party/CubismCore/lib/windows_amd64 -lLive2DCubismCore

#include <stdlib.h>
#include "Live2DCubismCore.h"

extern void cubismGoLog(char* message);

static void cubism_go_log_trampoline(const char* message) {
	cubismGoLog((char*)message);
}

static void cubism_go_install_log(int on) {
	csmSetLogFunction(on ? cubism_go_log_trampoline : NULL);
}

static int cubism_go_has_log(void) {
	return csmGetLogFunction() != NULL;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// ResolvePath returns path unchanged; the cgo build links the core statically.
func ResolvePath(path string) string { return path }

// LibraryEnv is unused by the cgo build but kept so callers compile against
// either backend.
const LibraryEnv = "CUBISM_CORE_LIBRARY"

// checkLayout compares the header's view of the ABI with the Go declarations.
func checkLayout() error {
	type check struct {
		name      string
		got, want uint64
	}
	checks := []check{
		{"sizeof(csmVector2)", uint64(C.sizeof_csmVector2), uint64(unsafe.Sizeof(Vector2{}))},
		{"csmAlignofMoc", uint64(C.csmAlignofMoc), AlignOfMoc},
		{"csmAlignofModel", uint64(C.csmAlignofModel), AlignOfModel},
		{"csmMocVersion_Unknown", uint64(C.csmMocVersion_Unknown), uint64(MocVersionUnknown)},
		{"csmMocVersion_30", uint64(C.csmMocVersion_30), uint64(MocVersion30)},
		{"csmMocVersion_33", uint64(C.csmMocVersion_33), uint64(MocVersion33)},
		{"csmMocVersion_40", uint64(C.csmMocVersion_40), uint64(MocVersion40)},
		{"csmBlendAdditive", uint64(C.csmBlendAdditive), uint64(BlendAdditive)},
		{"csmBlendMultiplicative", uint64(C.csmBlendMultiplicative), uint64(BlendMultiplicative)},
		{"csmIsDoubleSided", uint64(C.csmIsDoubleSided), uint64(IsDoubleSided)},
		{"csmIsVisible", uint64(C.csmIsVisible), uint64(IsVisible)},
		{"csmVisibilityDidChange", uint64(C.csmVisibilityDidChange), uint64(VisibilityDidChange)},
		{"csmOpacityDidChange", uint64(C.csmOpacityDidChange), uint64(OpacityDidChange)},
		{"csmDrawOrderDidChange", uint64(C.csmDrawOrderDidChange), uint64(DrawOrderDidChange)},
		{"csmRenderOrderDidChange", uint64(C.csmRenderOrderDidChange), uint64(RenderOrderDidChange)},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("%w: %s is %d in the header, %d in Go", ErrLayoutMismatch, c.name, c.got, c.want)
		}
	}
	return nil
}

// Load returns the statically linked core. path is ignored.
func Load(string) (Core, error) {
	if err := checkLayout(); err != nil {
		return nil, err
	}
	return &native{ep: cgoEntryPoints()}, nil
}

func model(p unsafe.Pointer) *C.csmModel { return (*C.csmModel)(p) }

func cgoEntryPoints() entryPoints {
	return entryPoints{
		getVersion:          func() uint32 { return uint32(C.csmGetVersion()) },
		getLatestMocVersion: func() uint32 { return uint32(C.csmGetLatestMocVersion()) },
		getMocVersion: func(addr unsafe.Pointer, size uint32) uint32 {
			return uint32(C.csmGetMocVersion(addr, C.uint(size)))
		},
		reviveMocInPlace: func(addr unsafe.Pointer, size uint32) unsafe.Pointer {
			return unsafe.Pointer(C.csmReviveMocInPlace(addr, C.uint(size)))
		},
		getSizeofModel: func(moc unsafe.Pointer) uint32 {
			return uint32(C.csmGetSizeofModel((*C.csmMoc)(moc)))
		},
		initializeModelInPlace: func(moc, addr unsafe.Pointer, size uint32) unsafe.Pointer {
			return unsafe.Pointer(C.csmInitializeModelInPlace((*C.csmMoc)(moc), addr, C.uint(size)))
		},
		updateModel: func(m unsafe.Pointer) { C.csmUpdateModel(model(m)) },
		readCanvasInfo: func(m unsafe.Pointer, size, origin *Vector2, ppu *float32) {
			C.csmReadCanvasInfo(model(m),
				(*C.csmVector2)(unsafe.Pointer(size)),
				(*C.csmVector2)(unsafe.Pointer(origin)),
				(*C.float)(unsafe.Pointer(ppu)))
		},

		getParameterCount: func(m unsafe.Pointer) int32 { return int32(C.csmGetParameterCount(model(m))) },
		getParameterIds: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterIds(model(m)))
		},
		getParameterMinimumValues: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterMinimumValues(model(m)))
		},
		getParameterMaximumValues: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterMaximumValues(model(m)))
		},
		getParameterDefaultValues: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterDefaultValues(model(m)))
		},
		getParameterValues: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterValues(model(m)))
		},
		getParameterKeyCounts: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterKeyCounts(model(m)))
		},
		getParameterKeyValues: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetParameterKeyValues(model(m)))
		},

		getPartCount: func(m unsafe.Pointer) int32 { return int32(C.csmGetPartCount(model(m))) },
		getPartIds: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetPartIds(model(m)))
		},
		getPartOpacities: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetPartOpacities(model(m)))
		},
		getPartParentPartIndices: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetPartParentPartIndices(model(m)))
		},

		getDrawableCount: func(m unsafe.Pointer) int32 { return int32(C.csmGetDrawableCount(model(m))) },
		getDrawableIds: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableIds(model(m)))
		},
		getDrawableConstantFlags: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableConstantFlags(model(m)))
		},
		getDrawableDynamicFlags: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableDynamicFlags(model(m)))
		},
		getDrawableTextureIndices: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableTextureIndices(model(m)))
		},
		getDrawableDrawOrders: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableDrawOrders(model(m)))
		},
		getDrawableRenderOrders: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableRenderOrders(model(m)))
		},
		getDrawableOpacities: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableOpacities(model(m)))
		},
		getDrawableMaskCounts: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableMaskCounts(model(m)))
		},
		getDrawableMasks: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableMasks(model(m)))
		},
		getDrawableVertexCounts: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableVertexCounts(model(m)))
		},
		getDrawableVertexPositions: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableVertexPositions(model(m)))
		},
		getDrawableVertexUvs: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableVertexUvs(model(m)))
		},
		getDrawableIndexCounts: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableIndexCounts(model(m)))
		},
		getDrawableIndices: func(m unsafe.Pointer) unsafe.Pointer {
			return unsafe.Pointer(C.csmGetDrawableIndices(model(m)))
		},
		resetDrawableDynamicFlags: func(m unsafe.Pointer) { C.csmResetDrawableDynamicFlags(model(m)) },

		installLogTrampoline: func(on bool) {
			if on {
				C.cubism_go_install_log(1)
				return
			}
			C.cubism_go_install_log(0)
		},
		hasLogFunction: func() bool { return C.cubism_go_has_log() != 0 },
	}
}
