// Package backendtest provides an in-memory stand-in for the Cubism core so the
// safe-handle layer can be tested without the proprietary binary.
package backendtest

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
)

// Parameter describes one parameter of the fake model.
type Parameter struct {
	ID      string
	Min     float32
	Max     float32
	Default float32
	Keys    []float32
}

// Part describes one part of the fake model.
type Part struct {
	ID      string
	Opacity float32
	Parent  int32
}

// Drawable describes one drawable of the fake model. Part is the index of the
// part whose opacity multiplies the drawable's own, or -1.
type Drawable struct {
	ID            string
	ConstantFlags uint8
	Texture       int32
	DrawOrder     int32
	RenderOrder   int32
	Opacity       float32
	Part          int32
	Masks         []int32
	Vertices      []backend.Vector2
	UVs           []backend.Vector2
	Indices       []uint16
}

// ModelSpec is the content every model initialized from a fake moc gets.
type ModelSpec struct {
	Canvas     backend.CanvasInfo
	Parameters []Parameter
	Parts      []Part
	Drawables  []Drawable

	// Absent* make the matching count getter return the -1 sentinel.
	AbsentParameters bool
	AbsentParts      bool
	AbsentDrawables  bool

	// ExtraDynamicBits are OR'ed into every dynamic flag byte on update, to
	// imitate a newer core that defines more bits.
	ExtraDynamicBits uint8
}

// Fake implements backend.Core. Mocs are recognised by the "MOC3" magic and a
// version byte at offset 4, as in real .moc3 files.
type Fake struct {
	CoreVersion uint32
	Latest      uint32
	ModelSize   uint32
	Model       ModelSpec

	mu     sync.Mutex
	mocs   map[unsafe.Pointer]uint32
	models map[unsafe.Pointer]*model
	logFn  func(string)
	closed bool
}

var _ backend.Core = (*Fake)(nil)

// New returns a fake core reporting version 5.0.0, moc version 4.0 as the
// latest supported, and the given model content.
func New(spec ModelSpec) *Fake {
	return &Fake{
		CoreVersion: 0x05000000,
		Latest:      backend.MocVersion40,
		ModelSize:   1024,
		Model:       spec,
	}
}

// MocBytes builds a moc image the fake accepts.
func MocBytes(version uint8, size int) []byte {
	if size < 8 {
		size = 8
	}
	b := make([]byte, size)
	copy(b, "MOC3")
	b[4] = version
	return b
}

// SampleSpec returns a small model with two parts and three drawables.
func SampleSpec() ModelSpec {
	quad := []backend.Vector2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	uv := []backend.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tri := []uint16{0, 1, 2, 0, 2, 3}
	return ModelSpec{
		Canvas: backend.CanvasInfo{
			Size:          backend.Vector2{X: 1024, Y: 2048},
			Origin:        backend.Vector2{X: 512, Y: 1024},
			PixelsPerUnit: 1024,
		},
		Parameters: []Parameter{
			{ID: "ParamAngleX", Min: -30, Max: 30, Default: 0, Keys: []float32{-30, 0, 30}},
			{ID: "ParamEyeLOpen", Min: 0, Max: 1, Default: 1, Keys: []float32{0, 1}},
		},
		Parts: []Part{
			{ID: "PartFace", Opacity: 1, Parent: -1},
			{ID: "PartEye", Opacity: 1, Parent: 0},
		},
		Drawables: []Drawable{
			{ID: "ArtMeshFace", Texture: 0, DrawOrder: 500, RenderOrder: 0, Opacity: 1, Part: 0,
				Vertices: quad, UVs: uv, Indices: tri},
			{ID: "ArtMeshEyeL", ConstantFlags: backend.IsDoubleSided, Texture: 0, DrawOrder: 510, RenderOrder: 1,
				Opacity: 1, Part: 1, Masks: []int32{0}, Vertices: quad, UVs: uv, Indices: tri},
			{ID: "ArtMeshGlow", ConstantFlags: backend.BlendAdditive, Texture: 1, DrawOrder: 520, RenderOrder: 2,
				Opacity: 0.5, Part: 1, Masks: []int32{0, 1}, Vertices: quad[:3], UVs: uv[:3], Indices: tri[:3]},
		},
	}
}

type model struct {
	spec *ModelSpec

	paramIDs   []string
	paramMin   []float32
	paramMax   []float32
	paramDef   []float32
	paramVal   []float32
	keyCounts  []int32
	keyValues  [][]float32
	partIDs    []string
	partOpac   []float32
	partParent []int32

	drawIDs      []string
	constFlags   []uint8
	dynFlags     []uint8
	textures     []int32
	drawOrders   []int32
	renderOrders []int32
	opacities    []float32
	maskCounts   []int32
	masks        [][]int32
	vertexCounts []int32
	positions    [][]backend.Vector2
	uvs          [][]backend.Vector2
	indexCounts  []int32
	indices      [][]uint16

	updates int
}

func (f *Fake) log(format string, args ...any) {
	if f.logFn != nil {
		f.logFn(fmt.Sprintf(format, args...))
	}
}

func (f *Fake) Version() uint32          { return f.CoreVersion }
func (f *Fake) LatestMocVersion() uint32 { return f.Latest }

func (f *Fake) MocVersion(addr unsafe.Pointer, size uint32) uint32 {
	if addr == nil || size < 5 {
		return backend.MocVersionUnknown
	}
	b := unsafe.Slice((*byte)(addr), size)
	if string(b[:4]) != "MOC3" {
		return backend.MocVersionUnknown
	}
	return uint32(b[4])
}

func (f *Fake) ReviveMocInPlace(addr unsafe.Pointer, size uint32) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if uintptr(addr)%backend.AlignOfMoc != 0 {
		f.log("[CSM] [E]ReviveMocInPlace: address is not aligned")
		return nil
	}
	v := f.MocVersion(addr, size)
	if v == backend.MocVersionUnknown || v > f.Latest {
		f.log("[CSM] [E]ReviveMocInPlace: unsupported moc version %d", v)
		return nil
	}
	if f.mocs == nil {
		f.mocs = make(map[unsafe.Pointer]uint32)
	}
	f.mocs[addr] = size
	return addr
}

func (f *Fake) SizeofModel(moc unsafe.Pointer) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.mocs[moc]; !ok {
		return 0
	}
	return f.ModelSize
}

func (f *Fake) InitializeModelInPlace(moc, addr unsafe.Pointer, size uint32) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.mocs[moc]; !ok {
		f.log("[CSM] [E]InitializeModelInPlace: unknown moc")
		return nil
	}
	if uintptr(addr)%backend.AlignOfModel != 0 || size < f.ModelSize {
		f.log("[CSM] [E]InitializeModelInPlace: bad model buffer")
		return nil
	}
	if f.models == nil {
		f.models = make(map[unsafe.Pointer]*model)
	}
	f.models[addr] = newModel(&f.Model)
	return addr
}

func newModel(spec *ModelSpec) *model {
	m := &model{spec: spec}
	for _, p := range spec.Parameters {
		m.paramIDs = append(m.paramIDs, p.ID)
		m.paramMin = append(m.paramMin, p.Min)
		m.paramMax = append(m.paramMax, p.Max)
		m.paramDef = append(m.paramDef, p.Default)
		m.paramVal = append(m.paramVal, p.Default)
		m.keyCounts = append(m.keyCounts, int32(len(p.Keys)))
		m.keyValues = append(m.keyValues, append([]float32(nil), p.Keys...))
	}
	for _, p := range spec.Parts {
		m.partIDs = append(m.partIDs, p.ID)
		m.partOpac = append(m.partOpac, p.Opacity)
		m.partParent = append(m.partParent, p.Parent)
	}
	for _, d := range spec.Drawables {
		m.drawIDs = append(m.drawIDs, d.ID)
		m.constFlags = append(m.constFlags, d.ConstantFlags)
		m.dynFlags = append(m.dynFlags, 0)
		m.textures = append(m.textures, d.Texture)
		m.drawOrders = append(m.drawOrders, d.DrawOrder)
		m.renderOrders = append(m.renderOrders, d.RenderOrder)
		m.opacities = append(m.opacities, 0)
		m.maskCounts = append(m.maskCounts, int32(len(d.Masks)))
		m.masks = append(m.masks, append([]int32(nil), d.Masks...))
		m.vertexCounts = append(m.vertexCounts, int32(len(d.Vertices)))
		m.positions = append(m.positions, append([]backend.Vector2(nil), d.Vertices...))
		m.uvs = append(m.uvs, append([]backend.Vector2(nil), d.UVs...))
		m.indexCounts = append(m.indexCounts, int32(len(d.Indices)))
		m.indices = append(m.indices, append([]uint16(nil), d.Indices...))
	}
	return m
}

func (f *Fake) model(p unsafe.Pointer) *model {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.models[p]
	if !ok {
		panic("backendtest: unknown model handle")
	}
	return m
}

// Updates reports how many times UpdateModel ran on the model handle.
func (f *Fake) Updates(handle unsafe.Pointer) int { return f.model(handle).updates }

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// UpdateModel recomputes drawable opacity, visibility and vertex positions
// from part opacities and parameter values. Change bits accumulate until
// ResetDrawableDynamicFlags.
func (f *Fake) UpdateModel(handle unsafe.Pointer) {
	m := f.model(handle)
	m.updates++

	var offset float32
	for _, v := range m.paramVal {
		offset += v
	}

	for i, d := range m.spec.Drawables {
		opacity := d.Opacity
		if d.Part >= 0 && int(d.Part) < len(m.partOpac) {
			opacity *= m.partOpac[d.Part]
		}
		flags := m.dynFlags[i]
		wasVisible := flags&backend.IsVisible != 0
		visible := opacity > 0
		if visible != wasVisible {
			flags |= backend.VisibilityDidChange
		}
		if visible {
			flags |= backend.IsVisible
		} else {
			flags &^= backend.IsVisible
		}
		if opacity != m.opacities[i] {
			flags |= backend.OpacityDidChange
		}
		m.opacities[i] = opacity
		m.dynFlags[i] = flags | m.spec.ExtraDynamicBits

		for j, v := range d.Vertices {
			m.positions[i][j] = backend.Vector2{X: v.X + offset, Y: v.Y}
		}
	}
}

func (f *Fake) ReadCanvasInfo(unsafe.Pointer) backend.CanvasInfo { return f.Model.Canvas }

func count(absent bool, n int) int32 {
	if absent {
		return -1
	}
	return int32(n)
}

func head[T any](s []T, n int) []T {
	if n <= 0 || len(s) == 0 {
		return nil
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func rows[T any](s [][]T, counts []int32) [][]T {
	if len(counts) == 0 {
		return nil
	}
	out := make([][]T, len(counts))
	for i := range counts {
		if i < len(s) {
			out[i] = head(s[i], int(counts[i]))
		}
	}
	return out
}

func (f *Fake) ParameterCount(h unsafe.Pointer) int32 {
	return count(f.Model.AbsentParameters, len(f.model(h).paramIDs))
}

func (f *Fake) ParameterIDs(h unsafe.Pointer, n int) []string {
	return append([]string(nil), head(f.model(h).paramIDs, n)...)
}

func (f *Fake) ParameterMinimumValues(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).paramMin, n)
}

func (f *Fake) ParameterMaximumValues(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).paramMax, n)
}

func (f *Fake) ParameterDefaultValues(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).paramDef, n)
}

func (f *Fake) ParameterValues(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).paramVal, n)
}

func (f *Fake) ParameterKeyCounts(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).keyCounts, n)
}

func (f *Fake) ParameterKeyValues(h unsafe.Pointer, counts []int32) [][]float32 {
	return rows(f.model(h).keyValues, counts)
}

func (f *Fake) PartCount(h unsafe.Pointer) int32 {
	return count(f.Model.AbsentParts, len(f.model(h).partIDs))
}

func (f *Fake) PartIDs(h unsafe.Pointer, n int) []string {
	return append([]string(nil), head(f.model(h).partIDs, n)...)
}

func (f *Fake) PartOpacities(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).partOpac, n)
}

func (f *Fake) PartParentPartIndices(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).partParent, n)
}

func (f *Fake) DrawableCount(h unsafe.Pointer) int32 {
	return count(f.Model.AbsentDrawables, len(f.model(h).drawIDs))
}

func (f *Fake) DrawableIDs(h unsafe.Pointer, n int) []string {
	return append([]string(nil), head(f.model(h).drawIDs, n)...)
}

func (f *Fake) DrawableConstantFlags(h unsafe.Pointer, n int) []uint8 {
	return head(f.model(h).constFlags, n)
}

func (f *Fake) DrawableDynamicFlags(h unsafe.Pointer, n int) []uint8 {
	return head(f.model(h).dynFlags, n)
}

func (f *Fake) DrawableTextureIndices(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).textures, n)
}

func (f *Fake) DrawableDrawOrders(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).drawOrders, n)
}

func (f *Fake) DrawableRenderOrders(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).renderOrders, n)
}

func (f *Fake) DrawableOpacities(h unsafe.Pointer, n int) []float32 {
	return head(f.model(h).opacities, n)
}

func (f *Fake) DrawableMaskCounts(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).maskCounts, n)
}

func (f *Fake) DrawableMasks(h unsafe.Pointer, counts []int32) [][]int32 {
	return rows(f.model(h).masks, counts)
}

func (f *Fake) DrawableVertexCounts(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).vertexCounts, n)
}

func (f *Fake) DrawableVertexPositions(h unsafe.Pointer, counts []int32) [][]backend.Vector2 {
	return rows(f.model(h).positions, counts)
}

func (f *Fake) DrawableVertexUvs(h unsafe.Pointer, counts []int32) [][]backend.Vector2 {
	return rows(f.model(h).uvs, counts)
}

func (f *Fake) DrawableIndexCounts(h unsafe.Pointer, n int) []int32 {
	return head(f.model(h).indexCounts, n)
}

func (f *Fake) DrawableIndices(h unsafe.Pointer, counts []int32) [][]uint16 {
	return rows(f.model(h).indices, counts)
}

func (f *Fake) ResetDrawableDynamicFlags(h unsafe.Pointer) {
	m := f.model(h)
	const changed = backend.VisibilityDidChange | backend.OpacityDidChange |
		backend.DrawOrderDidChange | backend.RenderOrderDidChange
	for i := range m.dynFlags {
		m.dynFlags[i] &^= changed
	}
}

func (f *Fake) SetLogFunction(fn func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logFn = fn
}

func (f *Fake) HasLogFunction() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logFn != nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
