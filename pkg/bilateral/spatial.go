package bilateral

import "math"

// SpatialKernel holds the Gaussian spatial weight of every offset inside
// the filter window. It depends only on the diameter and sigma_space and is
// never modified after construction, so one kernel may be shared by any
// number of concurrent filter runs.
type SpatialKernel struct {
	Radius int
	Size   int // 2*Radius + 1
	// Weights is row-major over (dy, dx), both running from -Radius to Radius.
	Weights []float64
}

// NewSpatialKernel builds the table for an odd diameter no larger than
// MaxKernelDiameter. The center weight is exactly 1; weights are not
// normalized.
func NewSpatialKernel(diameter int, sigmaSpace float64) *SpatialKernel {
	radius := (diameter - 1) / 2
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	w := make([]float64, size*size)
	twoSigmaSq := 2 * sigmaSpace * sigmaSpace
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			v := 1.0
			if d2 := float64(dx*dx + dy*dy); d2 > 0 {
				v = math.Exp(-d2 / twoSigmaSq)
			}
			w[(dy+radius)*size+(dx+radius)] = v
		}
	}
	return &SpatialKernel{Radius: radius, Size: size, Weights: w}
}

// Weight returns the weight of offset (dx, dy). Offsets outside the window
// weigh 0.
func (k *SpatialKernel) Weight(dx, dy int) float64 {
	if dx < -k.Radius || dx > k.Radius || dy < -k.Radius || dy > k.Radius {
		return 0
	}
	return k.Weights[(dy+k.Radius)*k.Size+(dx+k.Radius)]
}
