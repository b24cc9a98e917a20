package cubism

import (
	"errors"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
)

// Loader errors, shared with the backend so errors.Is matches either way.
var (
	// ErrNotBuilt reports that this binary has no way to reach the native
	// core on the current platform.
	ErrNotBuilt = backend.ErrNotBuilt

	// ErrLibraryNotFound reports that the core shared library could not be
	// opened.
	ErrLibraryNotFound = backend.ErrLibraryNotFound

	// ErrMissingSymbols reports that the core library lacks declared entry
	// points. The wrapped message lists every missing name.
	ErrMissingSymbols = backend.ErrMissingSymbols

	// ErrLayoutMismatch reports that the vendor header disagrees with the
	// compiled-in declarations.
	ErrLayoutMismatch = backend.ErrLayoutMismatch
)

var (
	ErrInvalidAlignment       = errors.New("cubism: buffer is not aligned as the core requires")
	ErrInvalidMoc             = errors.New("cubism: invalid moc data")
	ErrUnsupportedMocVersion  = errors.New("cubism: moc version not supported by this core")
	ErrUnrecognizedMocVersion = errors.New("cubism: core reported an unrecognized moc version")
	ErrReviveFailed           = errors.New("cubism: core failed to revive moc")
	ErrModelInitFailed        = errors.New("cubism: core failed to initialize model")
	ErrUnknownFlagBits        = errors.New("cubism: flags contain unknown bits")
	ErrStaleView              = errors.New("cubism: view invalidated by a later model mutation")
	ErrIndexOutOfRange        = errors.New("cubism: index out of range")
	ErrInvalidValue           = errors.New("cubism: value is not a number")
	ErrLibraryClosed          = errors.New("cubism: library has been closed")
	ErrLibraryInUse           = errors.New("cubism: library still has open mocs")
	ErrMocClosed              = errors.New("cubism: moc has been closed")
	ErrMocInUse               = errors.New("cubism: moc still has open models")
	ErrModelClosed            = errors.New("cubism: model has been closed")
)
