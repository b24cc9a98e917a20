package cubism

import (
	"fmt"
	"strings"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
)

// NonDynamicDrawableFlags are the per-drawable flags fixed by the moc.
type NonDynamicDrawableFlags uint8

const (
	BlendAdditive       = NonDynamicDrawableFlags(backend.BlendAdditive)
	BlendMultiplicative = NonDynamicDrawableFlags(backend.BlendMultiplicative)
	IsDoubleSided       = NonDynamicDrawableFlags(backend.IsDoubleSided)

	knownNonDynamicFlags = BlendAdditive | BlendMultiplicative | IsDoubleSided
)

// DynamicDrawableFlags are the per-drawable flags recomputed on update.
type DynamicDrawableFlags uint8

const (
	IsVisible            = DynamicDrawableFlags(backend.IsVisible)
	VisibilityDidChange  = DynamicDrawableFlags(backend.VisibilityDidChange)
	OpacityDidChange     = DynamicDrawableFlags(backend.OpacityDidChange)
	DrawOrderDidChange   = DynamicDrawableFlags(backend.DrawOrderDidChange)
	RenderOrderDidChange = DynamicDrawableFlags(backend.RenderOrderDidChange)

	// DidChangeMask covers the bits ResetDrawableDynamicFlags clears.
	DidChangeMask = VisibilityDidChange | OpacityDidChange | DrawOrderDidChange | RenderOrderDidChange

	knownDynamicFlags = IsVisible | DidChangeMask
)

// NonDynamicDrawableFlagsFromBits keeps the known bits of b and drops the rest.
func NonDynamicDrawableFlagsFromBits(b uint8) NonDynamicDrawableFlags {
	return NonDynamicDrawableFlags(b) & knownNonDynamicFlags
}

// ParseNonDynamicDrawableFlags decodes b, failing if any unknown bit is set.
func ParseNonDynamicDrawableFlags(b uint8) (NonDynamicDrawableFlags, error) {
	f := NonDynamicDrawableFlags(b)
	if extra := f &^ knownNonDynamicFlags; extra != 0 {
		return f & knownNonDynamicFlags, fmt.Errorf("%w: %#02x", ErrUnknownFlagBits, uint8(extra))
	}
	return f, nil
}

// DynamicDrawableFlagsFromBits keeps the known bits of b and drops the rest.
func DynamicDrawableFlagsFromBits(b uint8) DynamicDrawableFlags {
	return DynamicDrawableFlags(b) & knownDynamicFlags
}

// ParseDynamicDrawableFlags decodes b, failing if any unknown bit is set.
func ParseDynamicDrawableFlags(b uint8) (DynamicDrawableFlags, error) {
	f := DynamicDrawableFlags(b)
	if extra := f &^ knownDynamicFlags; extra != 0 {
		return f & knownDynamicFlags, fmt.Errorf("%w: %#02x", ErrUnknownFlagBits, uint8(extra))
	}
	return f, nil
}

func (f NonDynamicDrawableFlags) Has(bits NonDynamicDrawableFlags) bool { return f&bits == bits }

func (f DynamicDrawableFlags) Has(bits DynamicDrawableFlags) bool { return f&bits == bits }

// Changed reports whether any "did change" bit is set.
func (f DynamicDrawableFlags) Changed() bool { return f&DidChangeMask != 0 }

var nonDynamicNames = []struct {
	bit  NonDynamicDrawableFlags
	name string
}{
	{BlendAdditive, "BlendAdditive"},
	{BlendMultiplicative, "BlendMultiplicative"},
	{IsDoubleSided, "IsDoubleSided"},
}

var dynamicNames = []struct {
	bit  DynamicDrawableFlags
	name string
}{
	{IsVisible, "IsVisible"},
	{VisibilityDidChange, "VisibilityDidChange"},
	{OpacityDidChange, "OpacityDidChange"},
	{DrawOrderDidChange, "DrawOrderDidChange"},
	{RenderOrderDidChange, "RenderOrderDidChange"},
}

func (f NonDynamicDrawableFlags) String() string {
	var names []string
	for _, n := range nonDynamicNames {
		if f&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

func (f DynamicDrawableFlags) String() string {
	var names []string
	for _, n := range dynamicNames {
		if f&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}
