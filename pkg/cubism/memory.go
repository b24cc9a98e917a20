package cubism

import (
	"runtime"
	"unsafe"
)

// pinnedBuffer is a byte buffer whose first byte sits on a fixed alignment
// boundary and which stays pinned until release. Native code keeps pointers
// into it, so it is allocated once and never resized.
type pinnedBuffer struct {
	data   []byte
	pinner runtime.Pinner
}

// newPinnedBuffer allocates size bytes aligned to align (a power of two).
func newPinnedBuffer(size, align int) *pinnedBuffer {
	raw := make([]byte, size+align-1)
	off := alignOffset(unsafe.Pointer(unsafe.SliceData(raw)), align)
	b := &pinnedBuffer{data: raw[off : off+size : off+size]}
	b.pinner.Pin(unsafe.SliceData(b.data))
	return b
}

// adoptPinnedBuffer pins data in place. data must already be aligned.
func adoptPinnedBuffer(data []byte) *pinnedBuffer {
	b := &pinnedBuffer{data: data[:len(data):len(data)]}
	b.pinner.Pin(unsafe.SliceData(b.data))
	return b
}

func (b *pinnedBuffer) ptr() unsafe.Pointer { return unsafe.Pointer(unsafe.SliceData(b.data)) }

func (b *pinnedBuffer) size() uint32 { return uint32(len(b.data)) }

func (b *pinnedBuffer) release() {
	if b == nil {
		return
	}
	b.pinner.Unpin()
	b.data = nil
}

// alignOffset returns how many bytes past p the next align boundary is.
func alignOffset(p unsafe.Pointer, align int) int {
	a := uintptr(align)
	return int((a - uintptr(p)%a) % a)
}

// isAligned reports whether data is non-empty and starts on an align boundary.
func isAligned(data []byte, align int) bool {
	if len(data) == 0 {
		return false
	}
	return alignOffset(unsafe.Pointer(unsafe.SliceData(data)), align) == 0
}
