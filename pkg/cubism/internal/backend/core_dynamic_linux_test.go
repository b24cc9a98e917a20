//go:build !(cubism_cgo && cgo) && linux

package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// libc loads on every glibc system and exports none of the core's symbols.
func TestLoadReportsEveryMissingSymbol(t *testing.T) {
	core, err := Load("libc.so.6")
	if errors.Is(err, ErrLibraryNotFound) {
		t.Skipf("libc.so.6 not loadable here: %v", err)
	}
	require.ErrorIs(t, err, ErrMissingSymbols)
	assert.Nil(t, core)
	for _, name := range Symbols {
		assert.Contains(t, err.Error(), name)
	}
}
