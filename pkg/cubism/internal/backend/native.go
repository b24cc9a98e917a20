package backend

import (
	"unsafe"
)

// entryPoints is the raw function table filled in by a concrete backend. Table
// getters return the untyped native pointer; native turns them into slices.
type entryPoints struct {
	getVersion             func() uint32
	getLatestMocVersion    func() uint32
	getMocVersion          func(addr unsafe.Pointer, size uint32) uint32
	reviveMocInPlace       func(addr unsafe.Pointer, size uint32) unsafe.Pointer
	getSizeofModel         func(moc unsafe.Pointer) uint32
	initializeModelInPlace func(moc, addr unsafe.Pointer, size uint32) unsafe.Pointer
	updateModel            func(model unsafe.Pointer)
	readCanvasInfo         func(model unsafe.Pointer, size, origin *Vector2, ppu *float32)

	getParameterCount         func(model unsafe.Pointer) int32
	getParameterIds           func(model unsafe.Pointer) unsafe.Pointer
	getParameterMinimumValues func(model unsafe.Pointer) unsafe.Pointer
	getParameterMaximumValues func(model unsafe.Pointer) unsafe.Pointer
	getParameterDefaultValues func(model unsafe.Pointer) unsafe.Pointer
	getParameterValues        func(model unsafe.Pointer) unsafe.Pointer
	getParameterKeyCounts     func(model unsafe.Pointer) unsafe.Pointer
	getParameterKeyValues     func(model unsafe.Pointer) unsafe.Pointer

	getPartCount               func(model unsafe.Pointer) int32
	getPartIds                 func(model unsafe.Pointer) unsafe.Pointer
	getPartOpacities           func(model unsafe.Pointer) unsafe.Pointer
	getPartParentPartIndices   func(model unsafe.Pointer) unsafe.Pointer
	getDrawableCount           func(model unsafe.Pointer) int32
	getDrawableIds             func(model unsafe.Pointer) unsafe.Pointer
	getDrawableConstantFlags   func(model unsafe.Pointer) unsafe.Pointer
	getDrawableDynamicFlags    func(model unsafe.Pointer) unsafe.Pointer
	getDrawableTextureIndices  func(model unsafe.Pointer) unsafe.Pointer
	getDrawableDrawOrders      func(model unsafe.Pointer) unsafe.Pointer
	getDrawableRenderOrders    func(model unsafe.Pointer) unsafe.Pointer
	getDrawableOpacities       func(model unsafe.Pointer) unsafe.Pointer
	getDrawableMaskCounts      func(model unsafe.Pointer) unsafe.Pointer
	getDrawableMasks           func(model unsafe.Pointer) unsafe.Pointer
	getDrawableVertexCounts    func(model unsafe.Pointer) unsafe.Pointer
	getDrawableVertexPositions func(model unsafe.Pointer) unsafe.Pointer
	getDrawableVertexUvs       func(model unsafe.Pointer) unsafe.Pointer
	getDrawableIndexCounts     func(model unsafe.Pointer) unsafe.Pointer
	getDrawableIndices         func(model unsafe.Pointer) unsafe.Pointer
	resetDrawableDynamicFlags  func(model unsafe.Pointer)

	// Log plumbing differs between cgo and purego, so each backend supplies
	// its own install/query pair around csmSetLogFunction/csmGetLogFunction.
	installLogTrampoline func(on bool)
	hasLogFunction       func() bool

	release func() error
}

// native implements Core on top of an entryPoints table.
type native struct {
	ep entryPoints
}

var _ Core = (*native)(nil)

func (n *native) Version() uint32          { return n.ep.getVersion() }
func (n *native) LatestMocVersion() uint32 { return n.ep.getLatestMocVersion() }

func (n *native) MocVersion(addr unsafe.Pointer, size uint32) uint32 {
	return n.ep.getMocVersion(addr, size)
}

func (n *native) ReviveMocInPlace(addr unsafe.Pointer, size uint32) unsafe.Pointer {
	return n.ep.reviveMocInPlace(addr, size)
}

func (n *native) SizeofModel(moc unsafe.Pointer) uint32 { return n.ep.getSizeofModel(moc) }

func (n *native) InitializeModelInPlace(moc, addr unsafe.Pointer, size uint32) unsafe.Pointer {
	return n.ep.initializeModelInPlace(moc, addr, size)
}

func (n *native) UpdateModel(model unsafe.Pointer) { n.ep.updateModel(model) }

func (n *native) ReadCanvasInfo(model unsafe.Pointer) CanvasInfo {
	var info CanvasInfo
	n.ep.readCanvasInfo(model, &info.Size, &info.Origin, &info.PixelsPerUnit)
	return info
}

func (n *native) ParameterCount(model unsafe.Pointer) int32 { return n.ep.getParameterCount(model) }

func (n *native) ParameterIDs(model unsafe.Pointer, count int) []string {
	return stringsOf(n.ep.getParameterIds(model), count)
}

func (n *native) ParameterMinimumValues(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getParameterMinimumValues(model), count)
}

func (n *native) ParameterMaximumValues(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getParameterMaximumValues(model), count)
}

func (n *native) ParameterDefaultValues(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getParameterDefaultValues(model), count)
}

func (n *native) ParameterValues(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getParameterValues(model), count)
}

func (n *native) ParameterKeyCounts(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getParameterKeyCounts(model), count)
}

func (n *native) ParameterKeyValues(model unsafe.Pointer, counts []int32) [][]float32 {
	return rowsOf[float32](n.ep.getParameterKeyValues(model), counts)
}

func (n *native) PartCount(model unsafe.Pointer) int32 { return n.ep.getPartCount(model) }

func (n *native) PartIDs(model unsafe.Pointer, count int) []string {
	return stringsOf(n.ep.getPartIds(model), count)
}

func (n *native) PartOpacities(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getPartOpacities(model), count)
}

func (n *native) PartParentPartIndices(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getPartParentPartIndices(model), count)
}

func (n *native) DrawableCount(model unsafe.Pointer) int32 { return n.ep.getDrawableCount(model) }

func (n *native) DrawableIDs(model unsafe.Pointer, count int) []string {
	return stringsOf(n.ep.getDrawableIds(model), count)
}

func (n *native) DrawableConstantFlags(model unsafe.Pointer, count int) []uint8 {
	return sliceOf[uint8](n.ep.getDrawableConstantFlags(model), count)
}

func (n *native) DrawableDynamicFlags(model unsafe.Pointer, count int) []uint8 {
	return sliceOf[uint8](n.ep.getDrawableDynamicFlags(model), count)
}

func (n *native) DrawableTextureIndices(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableTextureIndices(model), count)
}

func (n *native) DrawableDrawOrders(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableDrawOrders(model), count)
}

func (n *native) DrawableRenderOrders(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableRenderOrders(model), count)
}

func (n *native) DrawableOpacities(model unsafe.Pointer, count int) []float32 {
	return sliceOf[float32](n.ep.getDrawableOpacities(model), count)
}

func (n *native) DrawableMaskCounts(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableMaskCounts(model), count)
}

func (n *native) DrawableMasks(model unsafe.Pointer, counts []int32) [][]int32 {
	return rowsOf[int32](n.ep.getDrawableMasks(model), counts)
}

func (n *native) DrawableVertexCounts(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableVertexCounts(model), count)
}

func (n *native) DrawableVertexPositions(model unsafe.Pointer, counts []int32) [][]Vector2 {
	return rowsOf[Vector2](n.ep.getDrawableVertexPositions(model), counts)
}

func (n *native) DrawableVertexUvs(model unsafe.Pointer, counts []int32) [][]Vector2 {
	return rowsOf[Vector2](n.ep.getDrawableVertexUvs(model), counts)
}

func (n *native) DrawableIndexCounts(model unsafe.Pointer, count int) []int32 {
	return sliceOf[int32](n.ep.getDrawableIndexCounts(model), count)
}

func (n *native) DrawableIndices(model unsafe.Pointer, counts []int32) [][]uint16 {
	return rowsOf[uint16](n.ep.getDrawableIndices(model), counts)
}

func (n *native) ResetDrawableDynamicFlags(model unsafe.Pointer) {
	n.ep.resetDrawableDynamicFlags(model)
}

func (n *native) SetLogFunction(fn func(message string)) {
	setLogHandler(fn)
	n.ep.installLogTrampoline(fn != nil)
}

func (n *native) HasLogFunction() bool { return n.ep.hasLogFunction() }

func (n *native) Close() error {
	if n.ep.release == nil {
		return nil
	}
	release := n.ep.release
	n.ep.release = nil
	return release()
}

// sliceOf views count elements of type T starting at p.
func sliceOf[T any](p unsafe.Pointer, count int) []T {
	if p == nil || count <= 0 {
		return nil
	}
	return unsafe.Slice((*T)(p), count)
}

// rowsOf views a T** table where row i holds counts[i] elements.
func rowsOf[T any](p unsafe.Pointer, counts []int32) [][]T {
	if p == nil || len(counts) == 0 {
		return nil
	}
	ptrs := unsafe.Slice((*unsafe.Pointer)(p), len(counts))
	rows := make([][]T, len(counts))
	for i, c := range counts {
		rows[i] = sliceOf[T](ptrs[i], int(c))
	}
	return rows
}

// stringsOf copies a const char** table into Go strings.
func stringsOf(p unsafe.Pointer, count int) []string {
	if p == nil || count <= 0 {
		return nil
	}
	ptrs := unsafe.Slice((**byte)(p), count)
	out := make([]string, count)
	for i, s := range ptrs {
		out[i] = goString(s)
	}
	return out
}

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
