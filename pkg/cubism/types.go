package cubism

import (
	"fmt"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
)

// Memory alignment the core requires for moc and model buffers.
const (
	AlignOfMoc   = backend.AlignOfMoc
	AlignOfModel = backend.AlignOfModel
)

// Vector2 is a 2D coordinate, layout-identical to the core's csmVector2.
type Vector2 = backend.Vector2

// CanvasInfo describes the model canvas in pixels.
type CanvasInfo struct {
	Size          Vector2
	Origin        Vector2
	PixelsPerUnit float32
}

// CoreVersion is the native core's version, packed as
// major<<24 | minor<<16 | patch.
type CoreVersion uint32

func (v CoreVersion) Major() uint32 { return uint32(v) >> 24 }
func (v CoreVersion) Minor() uint32 { return (uint32(v) >> 16) & 0xff }
func (v CoreVersion) Patch() uint32 { return uint32(v) & 0xffff }

func (v CoreVersion) String() string {
	return fmt.Sprintf("%02d.%02d.%04d", v.Major(), v.Minor(), v.Patch())
}
