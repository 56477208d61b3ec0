package bilateral

import (
	"fmt"
	"slices"
)

// Variant selects the kernel used on the filtered channels.
type Variant int

const (
	// VariantLuminance filters every listed channel on its own, with a range
	// weight computed from that channel alone.
	VariantLuminance Variant = iota
	// VariantJoint filters the listed channels together, sharing one range
	// weight per neighbor derived from the summed squared differences.
	VariantJoint
)

func (v Variant) String() string {
	switch v {
	case VariantLuminance:
		return "luminance"
	case VariantJoint:
		return "joint"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ChannelPolicy says which channels of a mode are filtered, by which
// variant, and which are copied through untouched.
type ChannelPolicy struct {
	Variant     Variant
	Filtered    []int
	Passthrough []int
}

// validate checks the policy against a channel count: indices in range,
// no index listed twice, every channel accounted for.
func (p ChannelPolicy) validate(channels int) error {
	if len(p.Filtered) == 0 {
		return fmt.Errorf("%w: no filtered channels", ErrInvalidPolicy)
	}
	if p.Variant != VariantLuminance && p.Variant != VariantJoint {
		return fmt.Errorf("%w: unknown variant %v", ErrInvalidPolicy, p.Variant)
	}
	seen := make([]bool, channels)
	for _, set := range [][]int{p.Filtered, p.Passthrough} {
		for _, c := range set {
			if c < 0 || c >= channels {
				return fmt.Errorf("%w: channel %d out of range [0,%d)", ErrInvalidPolicy, c, channels)
			}
			if seen[c] {
				return fmt.Errorf("%w: channel %d listed twice", ErrInvalidPolicy, c)
			}
			seen[c] = true
		}
	}
	for c, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: channel %d neither filtered nor passed through", ErrInvalidPolicy, c)
		}
	}
	return nil
}

func (p ChannelPolicy) clone() ChannelPolicy {
	return ChannelPolicy{
		Variant:     p.Variant,
		Filtered:    slices.Clone(p.Filtered),
		Passthrough: slices.Clone(p.Passthrough),
	}
}

// PolicyTable maps each supported mode to its channel policy.
type PolicyTable map[Mode]ChannelPolicy

// DefaultPolicies returns the historical channel selection.
//
// The RGBA entry filters channels 1, 2 and 3 and passes channel 0 (red)
// through unchanged. That is almost certainly not what was meant, but it is
// what existing outputs were produced with; use CorrectedPolicies or
// WithPolicy to select RGB with alpha passthrough.
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		ModeL:     {Variant: VariantLuminance, Filtered: []int{0}},
		ModeLA:    {Variant: VariantLuminance, Filtered: []int{0}, Passthrough: []int{1}},
		ModeYCbCr: {Variant: VariantLuminance, Filtered: []int{0}, Passthrough: []int{1, 2}},
		ModeRGB:   {Variant: VariantJoint, Filtered: []int{0, 1, 2}},
		ModeRGBA:  {Variant: VariantJoint, Filtered: []int{1, 2, 3}, Passthrough: []int{0}},
	}
}

// CorrectedPolicies is DefaultPolicies with RGBA filtering R, G, B jointly
// and passing alpha through.
func CorrectedPolicies() PolicyTable {
	t := DefaultPolicies()
	t[ModeRGBA] = ChannelPolicy{Variant: VariantJoint, Filtered: []int{0, 1, 2}, Passthrough: []int{3}}
	return t
}

// Clone returns a deep copy so callers can edit entries safely.
func (t PolicyTable) Clone() PolicyTable {
	out := make(PolicyTable, len(t))
	for m, p := range t {
		out[m] = p.clone()
	}
	return out
}

// Lookup resolves and validates the policy for mode.
func (t PolicyTable) Lookup(mode Mode) (ChannelPolicy, error) {
	if !mode.Valid() {
		return ChannelPolicy{}, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}
	p, ok := t[mode]
	if !ok {
		return ChannelPolicy{}, fmt.Errorf("%w: no policy for mode %s", ErrInvalidMode, mode)
	}
	if err := p.validate(mode.Channels()); err != nil {
		return ChannelPolicy{}, fmt.Errorf("mode %s: %w", mode, err)
	}
	return p, nil
}
