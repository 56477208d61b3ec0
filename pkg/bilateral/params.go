package bilateral

import "fmt"

// Params controls the filter window and the two Gaussian falloffs.
type Params struct {
	// Diameter is the side length of the square window. Must be odd and positive.
	Diameter int
	// SigmaSpace is the standard deviation of the spatial Gaussian, in pixels.
	SigmaSpace float64
	// SigmaColor is the standard deviation of the range Gaussian, in sample
	// units. +Inf turns the filter into a plain Gaussian blur.
	SigmaColor float64
}

// DefaultParams returns diameter 5, sigma_space 20, sigma_color 20.
func DefaultParams() Params {
	return Params{Diameter: 5, SigmaSpace: 20, SigmaColor: 20}
}

// MaxKernelDiameter bounds the window under BorderClamp and BorderReflect,
// where every offset lands on some pixel. BorderExclude trims the window to
// the image instead, so it accepts any odd diameter.
const MaxKernelDiameter = 4095

// Radius is the largest offset from the center pixel, (Diameter-1)/2.
func (p Params) Radius() int {
	return (p.Diameter - 1) / 2
}

// Validate checks p without touching any pixels.
func (p Params) Validate() error {
	if p.Diameter <= 0 || p.Diameter%2 == 0 {
		return fmt.Errorf("%w: %d (must be odd and > 0)", ErrInvalidDiameter, p.Diameter)
	}
	if !(p.SigmaSpace > 0) {
		return fmt.Errorf("%w: sigma_space %v (must be > 0)", ErrInvalidSigma, p.SigmaSpace)
	}
	if !(p.SigmaColor > 0) {
		return fmt.Errorf("%w: sigma_color %v (must be > 0)", ErrInvalidSigma, p.SigmaColor)
	}
	return nil
}

// kernelDiameter returns the side of the spatial table actually built for a
// w x h image. Under BorderExclude offsets of max(w,h) or more never land in
// bounds, so the radius is trimmed to max(w,h)-1 without changing the result.
func (p Params) kernelDiameter(w, h int, b Border) (int, error) {
	if b == BorderExclude {
		r := min(p.Radius(), max(w, h)-1)
		return 2*r + 1, nil
	}
	if p.Diameter > MaxKernelDiameter {
		return 0, fmt.Errorf("%w: %d (must be <= %d with %s border)", ErrInvalidDiameter, p.Diameter, MaxKernelDiameter, b)
	}
	return p.Diameter, nil
}
