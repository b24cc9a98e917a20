package backend

import (
	"errors"
	"unsafe"
)

// Memory alignment the core requires for moc and model buffers.
const (
	AlignOfMoc   = 64
	AlignOfModel = 16
)

// csmMocVersion codes. The header declares csmMocVersion as an unsigned int.
const (
	MocVersionUnknown uint32 = 0
	MocVersion30      uint32 = 1
	MocVersion33      uint32 = 2
	MocVersion40      uint32 = 3
)

// Constant drawable flag bits. csmFlags is an unsigned char, so flag tables are
// byte arrays and every flag set is combinable with bitwise operators.
const (
	BlendAdditive       uint8 = 1 << 0
	BlendMultiplicative uint8 = 1 << 1
	IsDoubleSided       uint8 = 1 << 2
)

// Dynamic drawable flag bits.
const (
	IsVisible            uint8 = 1 << 0
	VisibilityDidChange  uint8 = 1 << 1
	OpacityDidChange     uint8 = 1 << 2
	DrawOrderDidChange   uint8 = 1 << 3
	RenderOrderDidChange uint8 = 1 << 4
)

// Vector2 has the same memory layout as csmVector2.
type Vector2 struct {
	X float32
	Y float32
}

// CanvasInfo is the result of csmReadCanvasInfo.
type CanvasInfo struct {
	Size          Vector2
	Origin        Vector2
	PixelsPerUnit float32
}

var (
	// ErrNotBuilt reports that no native core backend exists for this
	// platform/build tag combination.
	ErrNotBuilt = errors.New("cubism/internal/backend: native core not built")

	// ErrLibraryNotFound reports that the core shared library could not be
	// opened.
	ErrLibraryNotFound = errors.New("cubism/internal/backend: core library not found")

	// ErrMissingSymbols reports that the opened library does not export every
	// declared entry point.
	ErrMissingSymbols = errors.New("cubism/internal/backend: core library is missing symbols")

	// ErrLayoutMismatch reports that the vendor header disagrees with the Go
	// declarations in this package.
	ErrLayoutMismatch = errors.New("cubism/internal/backend: header does not match declarations")
)

// Core is the full native entry point set. Handles are opaque pointers produced
// by the core itself; buffers passed in must stay pinned for as long as the
// handle derived from them is in use.
//
// Table getters take the row count (or per-row counts for jagged tables) from
// the matching count getter and return slices aliasing native memory.
type Core interface {
	Version() uint32
	LatestMocVersion() uint32
	MocVersion(addr unsafe.Pointer, size uint32) uint32

	ReviveMocInPlace(addr unsafe.Pointer, size uint32) unsafe.Pointer
	SizeofModel(moc unsafe.Pointer) uint32
	InitializeModelInPlace(moc, addr unsafe.Pointer, size uint32) unsafe.Pointer

	UpdateModel(model unsafe.Pointer)
	ReadCanvasInfo(model unsafe.Pointer) CanvasInfo

	ParameterCount(model unsafe.Pointer) int32
	ParameterIDs(model unsafe.Pointer, n int) []string
	ParameterMinimumValues(model unsafe.Pointer, n int) []float32
	ParameterMaximumValues(model unsafe.Pointer, n int) []float32
	ParameterDefaultValues(model unsafe.Pointer, n int) []float32
	ParameterValues(model unsafe.Pointer, n int) []float32
	ParameterKeyCounts(model unsafe.Pointer, n int) []int32
	ParameterKeyValues(model unsafe.Pointer, counts []int32) [][]float32

	PartCount(model unsafe.Pointer) int32
	PartIDs(model unsafe.Pointer, n int) []string
	PartOpacities(model unsafe.Pointer, n int) []float32
	PartParentPartIndices(model unsafe.Pointer, n int) []int32

	DrawableCount(model unsafe.Pointer) int32
	DrawableIDs(model unsafe.Pointer, n int) []string
	DrawableConstantFlags(model unsafe.Pointer, n int) []uint8
	DrawableDynamicFlags(model unsafe.Pointer, n int) []uint8
	DrawableTextureIndices(model unsafe.Pointer, n int) []int32
	DrawableDrawOrders(model unsafe.Pointer, n int) []int32
	DrawableRenderOrders(model unsafe.Pointer, n int) []int32
	DrawableOpacities(model unsafe.Pointer, n int) []float32
	DrawableMaskCounts(model unsafe.Pointer, n int) []int32
	DrawableMasks(model unsafe.Pointer, counts []int32) [][]int32
	DrawableVertexCounts(model unsafe.Pointer, n int) []int32
	DrawableVertexPositions(model unsafe.Pointer, counts []int32) [][]Vector2
	DrawableVertexUvs(model unsafe.Pointer, counts []int32) [][]Vector2
	DrawableIndexCounts(model unsafe.Pointer, n int) []int32
	DrawableIndices(model unsafe.Pointer, counts []int32) [][]uint16
	ResetDrawableDynamicFlags(model unsafe.Pointer)

	// SetLogFunction routes core log messages to fn. A nil fn removes the
	// handler. The core keeps a single process-wide handler.
	SetLogFunction(fn func(message string))
	HasLogFunction() bool

	// Close releases the loaded library. Handles obtained from the core must
	// not be used afterwards.
	Close() error
}
