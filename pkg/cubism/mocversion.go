package cubism

import (
	"fmt"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
)

// MocVersion identifies the file format revision of a moc.
type MocVersion uint8

const (
	MocVersionUnknown MocVersion = iota
	MocVersion30
	MocVersion33
	MocVersion40
)

func (v MocVersion) String() string {
	switch v {
	case MocVersion30:
		return "3.0"
	case MocVersion33:
		return "3.3"
	case MocVersion40:
		return "4.0"
	default:
		return "unknown"
	}
}

// mocVersionFromNative decodes a csmMocVersion. Codes outside the declared set
// are reported rather than guessed at.
func mocVersionFromNative(code uint32) (MocVersion, error) {
	switch code {
	case backend.MocVersionUnknown:
		return MocVersionUnknown, nil
	case backend.MocVersion30:
		return MocVersion30, nil
	case backend.MocVersion33:
		return MocVersion33, nil
	case backend.MocVersion40:
		return MocVersion40, nil
	default:
		return MocVersionUnknown, fmt.Errorf("%w: %d", ErrUnrecognizedMocVersion, code)
	}
}
