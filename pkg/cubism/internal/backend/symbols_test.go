package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolsUnique(t *testing.T) {
	seen := make(map[string]bool, len(Symbols))
	for _, s := range Symbols {
		assert.True(t, strings.HasPrefix(s, "csm"), s)
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}
	assert.Len(t, Symbols, 38)
}
