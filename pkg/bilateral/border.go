package bilateral

import (
	"fmt"
	"strings"
)

// Border decides what happens to window positions that fall outside the
// image.
type Border int

const (
	// BorderExclude drops out-of-bounds neighbors from both the weighted
	// sum and the normalizer.
	BorderExclude Border = iota
	// BorderClamp replaces an out-of-bounds coordinate with the nearest edge.
	BorderClamp
	// BorderReflect mirrors around the edge sample without repeating it
	// (-1 maps to 1, n maps to n-2).
	BorderReflect
)

func (b Border) String() string {
	switch b {
	case BorderExclude:
		return "exclude"
	case BorderClamp:
		return "clamp"
	case BorderReflect:
		return "reflect"
	default:
		return fmt.Sprintf("Border(%d)", int(b))
	}
}

// ParseBorder accepts "exclude", "clamp" or "reflect" (any case).
func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclude":
		return BorderExclude, nil
	case "clamp", "edge":
		return BorderClamp, nil
	case "reflect", "mirror":
		return BorderReflect, nil
	default:
		return 0, fmt.Errorf("%w: %q (want exclude, clamp or reflect)", ErrInvalidBorder, s)
	}
}

// resolve maps coordinate i on an axis of length n. ok is false when the
// neighbor must be skipped.
func (b Border) resolve(i, n int) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch b {
	case BorderClamp:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	case BorderReflect:
		if n == 1 {
			return 0, true
		}
		// the window can be wider than the image, so fold until in range
		period := 2 * (n - 1)
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - i
		}
		return i, true
	default:
		return 0, false
	}
}
