package bilateral

import (
	"fmt"
	"log/slog"
)

// Filter applies the bilateral filter to src and returns a new image of the
// same mode and size.
//
// The channel policy for src.Mode decides which channels are filtered and
// by which variant; every other channel is copied byte for byte. All
// validation happens before any pixel is read, and on error no image is
// returned. src is never modified and the result never shares memory
// with it.
func Filter(src *Image, p Params, opts ...Option) (*Image, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := src.check(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	policy, err := o.policy(src.Mode)
	if err != nil {
		return nil, err
	}
	if o.border < BorderExclude || o.border > BorderReflect {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBorder, o.border)
	}
	diameter, err := p.kernelDiameter(src.Width, src.Height, o.border)
	if err != nil {
		return nil, err
	}

	rangeChannels := 1
	if policy.Variant == VariantJoint {
		rangeChannels = len(policy.Filtered)
	}
	in := kernelInput{
		src:    src,
		dst:    newComposite(src, policy),
		kernel: o.spatialKernel(diameter, p.SigmaSpace),
		rt:     newRangeTable(rangeChannels, p.SigmaColor),
		border: o.border,
	}

	Logger().Debug("bilateral: filter",
		slog.String("mode", string(src.Mode)),
		slog.Int("width", src.Width),
		slog.Int("height", src.Height),
		slog.Int("diameter", p.Diameter),
		slog.Int("window", diameter),
		slog.Float64("sigma_space", p.SigmaSpace),
		slog.Float64("sigma_color", p.SigmaColor),
		slog.String("variant", policy.Variant.String()),
		slog.Any("filtered", policy.Filtered),
		slog.String("border", o.border.String()),
		slog.Int("workers", rowWorkers(src.Height, o.workers)),
	)

	forEachRowRange(src.Height, o.workers, func(y0, y1 int) {
		switch policy.Variant {
		case VariantJoint:
			jointRows(in, policy.Filtered, y0, y1)
		default:
			for _, c := range policy.Filtered {
				luminanceRows(in, c, y0, y1)
			}
		}
	})
	return in.dst, nil
}
