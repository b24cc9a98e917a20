package cubism

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/logging"
)

// Model is an instance of a Moc with its own parameter values and derived
// drawable state. All methods are safe for concurrent use; calls on one Model
// are serialized.
//
// Views returned by table accessors are invalidated by Update and
// ResetDrawableDynamicFlags. Parameter and part opacity setters write through
// without invalidating them.
type Model struct {
	moc    *Moc
	core   backend.Core
	logger logging.Logger

	mu     sync.Mutex
	buf    *pinnedBuffer
	handle unsafe.Pointer
	gen    uint64
}

// checkView must be called with mu held.
func (m *Model) checkView(gen uint64) error {
	if m.handle == nil {
		return ErrModelClosed
	}
	if gen != m.gen {
		return ErrStaleView
	}
	return nil
}

func (m *Model) lock() error {
	m.mu.Lock()
	if m.handle == nil {
		m.mu.Unlock()
		return ErrModelClosed
	}
	return nil
}

// Update recomputes drawable state from the current parameter values and part
// opacities.
func (m *Model) Update() error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.core.UpdateModel(m.handle)
	m.gen++
	runtime.KeepAlive(m)
	return nil
}

// ResetDrawableDynamicFlags clears every "did change" bit. Visibility is kept.
func (m *Model) ResetDrawableDynamicFlags() error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.core.ResetDrawableDynamicFlags(m.handle)
	m.gen++
	runtime.KeepAlive(m)
	return nil
}

// ReadCanvasInfo returns the canvas size, origin and pixels-per-unit.
func (m *Model) ReadCanvasInfo() (CanvasInfo, error) {
	if err := m.lock(); err != nil {
		return CanvasInfo{}, err
	}
	defer m.mu.Unlock()
	info := m.core.ReadCanvasInfo(m.handle)
	runtime.KeepAlive(m)
	return CanvasInfo(info), nil
}

// SetParameterValue writes parameter i, clamped to its [min, max] range.
// NaN is rejected with ErrInvalidValue.
func (m *Model) SetParameterValue(i int, v float32) error {
	if isNaN(v) {
		return fmt.Errorf("parameter %d: %w", i, ErrInvalidValue)
	}
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	n, ok := count(m.core.ParameterCount(m.handle))
	if !ok || i < 0 || i >= n {
		return fmt.Errorf("parameter: %w", indexError(i, n))
	}
	lo := m.core.ParameterMinimumValues(m.handle, n)[i]
	hi := m.core.ParameterMaximumValues(m.handle, n)[i]
	m.core.ParameterValues(m.handle, n)[i] = clamp(v, lo, hi)
	runtime.KeepAlive(m)
	return nil
}

// SetPartOpacity writes the opacity of part i, clamped to [0, 1].
// NaN is rejected with ErrInvalidValue.
func (m *Model) SetPartOpacity(i int, v float32) error {
	if isNaN(v) {
		return fmt.Errorf("part %d: %w", i, ErrInvalidValue)
	}
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	n, ok := count(m.core.PartCount(m.handle))
	if !ok || i < 0 || i >= n {
		return fmt.Errorf("part: %w", indexError(i, n))
	}
	m.core.PartOpacities(m.handle, n)[i] = clamp(v, 0, 1)
	runtime.KeepAlive(m)
	return nil
}

// ParameterIndex looks up a parameter by ID.
func (m *Model) ParameterIndex(id string) (int, bool, error) {
	ids, err := m.ParameterIDs()
	if err != nil {
		return 0, false, err
	}
	return indexOf(ids, id)
}

// PartIndex looks up a part by ID.
func (m *Model) PartIndex(id string) (int, bool, error) {
	ids, err := m.PartIDs()
	if err != nil {
		return 0, false, err
	}
	return indexOf(ids, id)
}

// Close releases the model buffer and the model's hold on its Moc. Closing
// twice is a no-op.
func (m *Model) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil
	}
	runtime.SetFinalizer(m, nil)
	m.handle = nil
	m.buf.release()
	m.buf = nil
	m.gen++
	m.moc.modelClosed()
	m.logger.Debug(context.Background(), "model closed")
	return nil
}

func indexOf(ids []string, id string) (int, bool, error) {
	for i, s := range ids {
		if s == id {
			return i, true, nil
		}
	}
	return -1, false, nil
}

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}

// count converts a native count, where any negative value means the table
// does not apply to this model.
func count(n int32) (int, bool) {
	if n < 0 {
		return 0, false
	}
	return int(n), true
}

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }

func clamp(v, lo, hi float32) float32 {
	if lo > hi {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
