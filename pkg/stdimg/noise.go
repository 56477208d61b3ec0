package stdimg

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
)

// AddNoise returns a copy of src with noise added to the listed channels
// (all channels when none are given). typ is GAUSSIAN (amount is the
// standard deviation), UNIFORM (amount is the maximum deviation) or
// IMPULSE (amount is the percentage of samples forced to 0 or 255).
// seed makes the output reproducible; 0 is treated as 1.
func AddNoise(src *bilateral.Image, typ string, amount float64, seed int64, channels ...int) (*bilateral.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	out := src.Clone()
	if amount <= 0 {
		return out, nil
	}
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	nc := src.Channels()
	if len(channels) == 0 {
		for c := 0; c < nc; c++ {
			channels = append(channels, c)
		}
	}
	for _, c := range channels {
		if c < 0 || c >= nc {
			return nil, fmt.Errorf("channel %d out of range for mode %s", c, src.Mode)
		}
	}

	typ = strings.ToUpper(strings.TrimSpace(typ))
	if typ == "" {
		typ = "GAUSSIAN"
	}
	var sample func(v float64) float64
	switch typ {
	case "GAUSSIAN":
		sample = func(v float64) float64 { return v + rng.NormFloat64()*amount }
	case "UNIFORM":
		sample = func(v float64) float64 { return v + (rng.Float64()*2-1)*amount }
	case "IMPULSE":
		p := amount / 100
		sample = func(v float64) float64 {
			if rng.Float64() >= p {
				return v
			}
			if rng.Intn(2) == 0 {
				return 0
			}
			return 255
		}
	default:
		return nil, fmt.Errorf("unknown noise type %q", typ)
	}

	for px := 0; px < src.Width*src.Height; px++ {
		for _, c := range channels {
			i := px*nc + c
			out.Pix[i] = clampFloatToUint8(sample(float64(src.Pix[i])))
		}
	}
	return out, nil
}
