package cubism

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/logging"
)

// Moc is a revived moc image. It owns a pinned, 64-byte aligned copy of the
// image for as long as the native handle lives.
//
// Memory Management:
// Call Close when done. Models initialized from the moc must be closed first;
// a finalizer releases the moc if it becomes unreachable.
type Moc struct {
	lib    *Library
	logger logging.Logger

	mu     sync.Mutex
	buf    *pinnedBuffer
	handle unsafe.Pointer
	size   int
	models int
}

// ReviveMoc copies data into a freshly allocated, 64-byte aligned buffer and
// revives it. The caller keeps ownership of data.
func (l *Library) ReviveMoc(data []byte) (*Moc, error) {
	if err := validateMoc(data); err != nil {
		return nil, err
	}
	buf := newPinnedBuffer(len(data), AlignOfMoc)
	copy(buf.data, data)
	return l.revive(buf, false)
}

// ReviveMocInPlace revives data without copying. data must start on a
// 64-byte boundary; from this call on the Moc owns it and the caller must not
// modify it.
func (l *Library) ReviveMocInPlace(data []byte) (*Moc, error) {
	if err := validateMoc(data); err != nil {
		return nil, err
	}
	if !isAligned(data, AlignOfMoc) {
		return nil, fmt.Errorf("%w: moc buffer must be %d-byte aligned", ErrInvalidAlignment, AlignOfMoc)
	}
	return l.revive(adoptPinnedBuffer(data), true)
}

func validateMoc(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrInvalidMoc)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes exceeds the core's size limit", ErrInvalidMoc, len(data))
	}
	return nil
}

func (l *Library) revive(buf *pinnedBuffer, inPlace bool) (*Moc, error) {
	if !isAligned(buf.data, AlignOfMoc) {
		buf.release()
		return nil, fmt.Errorf("%w: moc buffer must be %d-byte aligned", ErrInvalidAlignment, AlignOfMoc)
	}
	if err := l.acquire(); err != nil {
		buf.release()
		return nil, err
	}
	fail := func(err error) (*Moc, error) {
		buf.release()
		l.release()
		return nil, err
	}

	code := l.core.MocVersion(buf.ptr(), buf.size())
	latest := l.core.LatestMocVersion()
	version, err := mocVersionFromNative(code)
	if err != nil {
		return fail(err)
	}
	if version == MocVersionUnknown || code > latest {
		return fail(fmt.Errorf("%w: moc format %s (code %d), core supports up to code %d",
			ErrUnsupportedMocVersion, version, code, latest))
	}

	handle := l.core.ReviveMocInPlace(buf.ptr(), buf.size())
	if handle == nil {
		return fail(ErrReviveFailed)
	}

	m := &Moc{
		lib:    l,
		logger: l.logger.With("moc_version", version.String()),
		buf:    buf,
		handle: handle,
		size:   len(buf.data),
	}
	runtime.SetFinalizer(m, func(m *Moc) { _ = m.Close() })
	m.logger.Debug(context.Background(), "moc revived", "bytes", m.size, "in_place", inPlace)
	return m, nil
}

// Size returns the length of the moc image in bytes.
func (m *Moc) Size() int { return m.size }

// Version reports the format version of the revived image.
func (m *Moc) Version() (MocVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return MocVersionUnknown, ErrMocClosed
	}
	v, err := mocVersionFromNative(m.lib.core.MocVersion(m.buf.ptr(), m.buf.size()))
	runtime.KeepAlive(m)
	return v, err
}

// ModelBufferSize returns how many bytes a Model derived from this moc needs.
func (m *Moc) ModelBufferSize() (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return 0, ErrMocClosed
	}
	size := m.lib.core.SizeofModel(m.handle)
	runtime.KeepAlive(m)
	return size, nil
}

// InitializeModel allocates a 16-byte aligned buffer of ModelBufferSize bytes
// and instantiates a model in it. The moc stays in use until the returned
// Model is closed.
func (m *Moc) InitializeModel() (*Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil, ErrMocClosed
	}

	core := m.lib.core
	size := core.SizeofModel(m.handle)
	if size == 0 {
		return nil, fmt.Errorf("%w: core reported a zero model size", ErrModelInitFailed)
	}
	buf := newPinnedBuffer(int(size), AlignOfModel)
	handle := core.InitializeModelInPlace(m.handle, buf.ptr(), size)
	runtime.KeepAlive(m)
	if handle == nil {
		buf.release()
		return nil, ErrModelInitFailed
	}
	m.models++

	model := &Model{
		moc:    m,
		core:   core,
		logger: m.logger,
		buf:    buf,
		handle: handle,
	}
	runtime.SetFinalizer(model, func(model *Model) { _ = model.Close() })
	m.logger.Debug(context.Background(), "model initialized", "bytes", size)
	return model, nil
}

// Close releases the moc image. It fails with ErrMocInUse while models
// derived from the moc are open. Closing twice is a no-op.
func (m *Moc) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil
	}
	if m.models > 0 {
		return fmt.Errorf("%w: %d open", ErrMocInUse, m.models)
	}
	runtime.SetFinalizer(m, nil)
	m.handle = nil
	m.buf.release()
	m.buf = nil
	m.lib.release()
	m.logger.Debug(context.Background(), "moc closed")
	return nil
}

func (m *Moc) modelClosed() {
	m.mu.Lock()
	m.models--
	m.mu.Unlock()
}
