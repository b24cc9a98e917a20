package cubism

import (
	"context"
	"runtime"
	"unsafe"
)

// countOf reads a count. ok is false when the table does not apply.
func (m *Model) countOf(get func(unsafe.Pointer) int32) (int, bool, error) {
	if err := m.lock(); err != nil {
		return 0, false, err
	}
	defer m.mu.Unlock()
	n, ok := count(get(m.handle))
	runtime.KeepAlive(m)
	return n, ok, nil
}

func flat[T any](m *Model, n func(unsafe.Pointer) int32, get func(unsafe.Pointer, int) []T) (View[T], error) {
	if err := m.lock(); err != nil {
		return View[T]{}, err
	}
	defer m.mu.Unlock()
	v := View[T]{model: m, gen: m.gen}
	if rows, ok := count(n(m.handle)); ok && rows > 0 {
		v.data = get(m.handle, rows)
	}
	runtime.KeepAlive(m)
	return v, nil
}

func jagged[T any](m *Model, n func(unsafe.Pointer) int32, counts func(unsafe.Pointer, int) []int32, get func(unsafe.Pointer, []int32) [][]T) (Jagged[T], error) {
	if err := m.lock(); err != nil {
		return Jagged[T]{}, err
	}
	defer m.mu.Unlock()
	j := Jagged[T]{model: m, gen: m.gen}
	if rows, ok := count(n(m.handle)); ok && rows > 0 {
		j.rows = get(m.handle, counts(m.handle, rows))
	}
	runtime.KeepAlive(m)
	return j, nil
}

func idTable(m *Model, n func(unsafe.Pointer) int32, get func(unsafe.Pointer, int) []string) ([]string, error) {
	if err := m.lock(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()
	var out []string
	if rows, ok := count(n(m.handle)); ok && rows > 0 {
		out = get(m.handle, rows)
	}
	runtime.KeepAlive(m)
	return out, nil
}

// ParameterCount returns the number of parameters. ok is false when the core
// reports the table as not applicable.
func (m *Model) ParameterCount() (int, bool, error) { return m.countOf(m.core.ParameterCount) }

// PartCount returns the number of parts.
func (m *Model) PartCount() (int, bool, error) { return m.countOf(m.core.PartCount) }

// DrawableCount returns the number of drawables.
func (m *Model) DrawableCount() (int, bool, error) { return m.countOf(m.core.DrawableCount) }

// ParameterIDs returns a copy of the parameter ID table.
func (m *Model) ParameterIDs() ([]string, error) {
	return idTable(m, m.core.ParameterCount, m.core.ParameterIDs)
}

func (m *Model) ParameterMinimumValues() (View[float32], error) {
	return flat(m, m.core.ParameterCount, m.core.ParameterMinimumValues)
}

func (m *Model) ParameterMaximumValues() (View[float32], error) {
	return flat(m, m.core.ParameterCount, m.core.ParameterMaximumValues)
}

func (m *Model) ParameterDefaultValues() (View[float32], error) {
	return flat(m, m.core.ParameterCount, m.core.ParameterDefaultValues)
}

// ParameterValues returns the live parameter values. Use SetParameterValue to
// change them.
func (m *Model) ParameterValues() (View[float32], error) {
	return flat(m, m.core.ParameterCount, m.core.ParameterValues)
}

func (m *Model) ParameterKeyCounts() (View[int32], error) {
	return flat(m, m.core.ParameterCount, m.core.ParameterKeyCounts)
}

// ParameterKeyValues returns the key values of every parameter, one row per
// parameter.
func (m *Model) ParameterKeyValues() (Jagged[float32], error) {
	return jagged(m, m.core.ParameterCount, m.core.ParameterKeyCounts, m.core.ParameterKeyValues)
}

// PartIDs returns a copy of the part ID table.
func (m *Model) PartIDs() ([]string, error) {
	return idTable(m, m.core.PartCount, m.core.PartIDs)
}

func (m *Model) PartOpacities() (View[float32], error) {
	return flat(m, m.core.PartCount, m.core.PartOpacities)
}

// PartParentPartIndices returns each part's parent index, -1 for root parts.
func (m *Model) PartParentPartIndices() (View[int32], error) {
	return flat(m, m.core.PartCount, m.core.PartParentPartIndices)
}

// DrawableIDs returns a copy of the drawable ID table.
func (m *Model) DrawableIDs() ([]string, error) {
	return idTable(m, m.core.DrawableCount, m.core.DrawableIDs)
}

func (m *Model) DrawableTextureIndices() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableTextureIndices)
}

func (m *Model) DrawableDrawOrders() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableDrawOrders)
}

func (m *Model) DrawableRenderOrders() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableRenderOrders)
}

func (m *Model) DrawableOpacities() (View[float32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableOpacities)
}

func (m *Model) DrawableMaskCounts() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableMaskCounts)
}

// DrawableMasks returns the drawable indices masking each drawable.
func (m *Model) DrawableMasks() (Jagged[int32], error) {
	return jagged(m, m.core.DrawableCount, m.core.DrawableMaskCounts, m.core.DrawableMasks)
}

func (m *Model) DrawableVertexCounts() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableVertexCounts)
}

func (m *Model) DrawableVertexPositions() (Jagged[Vector2], error) {
	return jagged(m, m.core.DrawableCount, m.core.DrawableVertexCounts, m.core.DrawableVertexPositions)
}

func (m *Model) DrawableVertexUvs() (Jagged[Vector2], error) {
	return jagged(m, m.core.DrawableCount, m.core.DrawableVertexCounts, m.core.DrawableVertexUvs)
}

func (m *Model) DrawableIndexCounts() (View[int32], error) {
	return flat(m, m.core.DrawableCount, m.core.DrawableIndexCounts)
}

// DrawableIndices returns triangle indices into each drawable's vertices.
func (m *Model) DrawableIndices() (Jagged[uint16], error) {
	return jagged(m, m.core.DrawableCount, m.core.DrawableIndexCounts, m.core.DrawableIndices)
}

// DrawableConstantFlags decodes the constant flags of every drawable. Bits
// this package does not know are dropped.
func (m *Model) DrawableConstantFlags() ([]NonDynamicDrawableFlags, error) {
	raw, err := m.rawFlags(m.core.DrawableConstantFlags)
	if err != nil {
		return nil, err
	}
	out := make([]NonDynamicDrawableFlags, len(raw))
	unknown := 0
	for i, b := range raw {
		out[i] = NonDynamicDrawableFlagsFromBits(b)
		if uint8(out[i]) != b {
			unknown++
		}
	}
	m.logUnknownFlags("constant", unknown)
	return out, nil
}

// DrawableDynamicFlags decodes the dynamic flags of every drawable as of the
// last Update. Bits this package does not know are dropped.
func (m *Model) DrawableDynamicFlags() ([]DynamicDrawableFlags, error) {
	raw, err := m.rawFlags(m.core.DrawableDynamicFlags)
	if err != nil {
		return nil, err
	}
	out := make([]DynamicDrawableFlags, len(raw))
	unknown := 0
	for i, b := range raw {
		out[i] = DynamicDrawableFlagsFromBits(b)
		if uint8(out[i]) != b {
			unknown++
		}
	}
	m.logUnknownFlags("dynamic", unknown)
	return out, nil
}

func (m *Model) rawFlags(get func(unsafe.Pointer, int) []uint8) ([]uint8, error) {
	if err := m.lock(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()
	var out []uint8
	if n, ok := count(m.core.DrawableCount(m.handle)); ok && n > 0 {
		out = append(out, get(m.handle, n)...)
	}
	runtime.KeepAlive(m)
	return out, nil
}

func (m *Model) logUnknownFlags(table string, drawables int) {
	if drawables == 0 {
		return
	}
	m.logger.Debug(context.Background(), "dropped unknown drawable flag bits",
		"table", table, "drawables", drawables)
}
