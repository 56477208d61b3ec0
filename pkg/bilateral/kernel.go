package bilateral

import "math"

// maxSampleDiff2 is the largest squared difference of two 8-bit samples.
const maxSampleDiff2 = 255 * 255

// rangeTable holds the range weight exp(-d/(2*sigma_color^2)) for every
// squared sample distance d a kernel can produce. With 8-bit samples the
// distance is a small integer, so the exponential is evaluated once per
// value instead of once per neighbor.
type rangeTable []float64

func newRangeTable(channels int, sigmaColor float64) rangeTable {
	t := make(rangeTable, channels*maxSampleDiff2+1)
	twoSigmaSq := 2 * sigmaColor * sigmaColor
	t[0] = 1
	for d := 1; d < len(t); d++ {
		t[d] = math.Exp(-float64(d) / twoSigmaSq)
	}
	return t
}

// clampRound rounds half away from zero and clamps to [0,255].
func clampRound(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// kernelInput bundles the read-only state shared by every row worker.
type kernelInput struct {
	src    *Image
	dst    *Image
	kernel *SpatialKernel
	rt     rangeTable
	border Border
}

// luminanceRows filters channel ch of rows [y0, y1) on its own: the range
// weight of a neighbor depends only on its difference in that channel.
func luminanceRows(in kernelInput, ch, y0, y1 int) {
	src, dst, k := in.src, in.dst, in.kernel
	w, h, nc, r := src.Width, src.Height, src.Channels(), k.Radius
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			center := int(src.Pix[(y*w+x)*nc+ch])
			var num, den float64
			for dy := -r; dy <= r; dy++ {
				sy, ok := in.border.resolve(y+dy, h)
				if !ok {
					continue
				}
				spatial := k.Weights[(dy+r)*k.Size : (dy+r+1)*k.Size]
				rowBase := sy * w
				for dx := -r; dx <= r; dx++ {
					sx, ok := in.border.resolve(x+dx, w)
					if !ok {
						continue
					}
					v := int(src.Pix[(rowBase+sx)*nc+ch])
					d := v - center
					wt := spatial[dx+r] * in.rt[d*d]
					num += wt * float64(v)
					den += wt
				}
			}
			// den includes the center's own weight of 1
			dst.Pix[(y*w+x)*nc+ch] = clampRound(num / den)
		}
	}
}

// jointRows filters the channels in chans of rows [y0, y1) together. Each
// neighbor gets a single range weight from its summed squared distance
// over chans; every channel is normalized by the same denominator.
func jointRows(in kernelInput, chans []int, y0, y1 int) {
	src, dst, k := in.src, in.dst, in.kernel
	w, h, nc, r := src.Width, src.Height, src.Channels(), k.Radius
	center := make([]int, len(chans))
	num := make([]float64, len(chans))
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * nc
			for i, c := range chans {
				center[i] = int(src.Pix[base+c])
				num[i] = 0
			}
			var den float64
			for dy := -r; dy <= r; dy++ {
				sy, ok := in.border.resolve(y+dy, h)
				if !ok {
					continue
				}
				spatial := k.Weights[(dy+r)*k.Size : (dy+r+1)*k.Size]
				rowBase := sy * w
				for dx := -r; dx <= r; dx++ {
					sx, ok := in.border.resolve(x+dx, w)
					if !ok {
						continue
					}
					nb := (rowBase + sx) * nc
					d2 := 0
					for i, c := range chans {
						d := int(src.Pix[nb+c]) - center[i]
						d2 += d * d
					}
					wt := spatial[dx+r] * in.rt[d2]
					den += wt
					for i, c := range chans {
						num[i] += wt * float64(src.Pix[nb+c])
					}
				}
			}
			for i, c := range chans {
				dst.Pix[base+c] = clampRound(num[i] / den)
			}
		}
	}
}
