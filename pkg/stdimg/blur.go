package stdimg

import (
	"fmt"
	"math"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
)

// GaussianBlur blurs every channel of src with a Gaussian of the given
// sigma. It is the bilateral filter with an infinite range sigma, so the
// result is exactly what the bilateral kernels converge to when color
// similarity stops mattering. The window covers ceil(3*sigma) pixels on
// each side.
func GaussianBlur(src *bilateral.Image, sigma float64, opts ...bilateral.Option) (*bilateral.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if sigma <= 0 {
		return src.Clone(), nil
	}
	radius := int(math.Ceil(3 * sigma))
	p := bilateral.Params{
		Diameter:   2*radius + 1,
		SigmaSpace: sigma,
		SigmaColor: math.Inf(1),
	}
	all := make([]int, src.Channels())
	for i := range all {
		all[i] = i
	}
	opts = append(opts, bilateral.WithPolicy(src.Mode, bilateral.ChannelPolicy{
		Variant:  bilateral.VariantLuminance,
		Filtered: all,
	}))
	return bilateral.Filter(src, p, opts...)
}
