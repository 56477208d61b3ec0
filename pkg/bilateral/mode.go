package bilateral

import (
	"fmt"
	"strings"
)

// Mode tags the channel layout of an Image.
type Mode string

const (
	ModeL     Mode = "L"     // luminance
	ModeLA    Mode = "LA"    // luminance + alpha
	ModeYCbCr Mode = "YCbCr" // Y, Cb, Cr at full resolution
	ModeRGB   Mode = "RGB"
	ModeRGBA  Mode = "RGBA"
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeL, ModeLA, ModeYCbCr, ModeRGB, ModeRGBA}

// Channels returns the number of interleaved samples per pixel, or 0 for
// an unsupported mode.
func (m Mode) Channels() int {
	switch m {
	case ModeL:
		return 1
	case ModeLA:
		return 2
	case ModeYCbCr, ModeRGB:
		return 3
	case ModeRGBA:
		return 4
	default:
		return 0
	}
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	return m.Channels() > 0
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode resolves a mode name. Matching is case-insensitive so "rgba"
// and "ycbcr" are accepted.
func ParseMode(s string) (Mode, error) {
	t := strings.TrimSpace(s)
	for _, m := range Modes {
		if strings.EqualFold(string(m), t) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
