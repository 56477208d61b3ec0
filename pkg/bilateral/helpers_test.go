package bilateral

import (
	"math/rand"
	"testing"
)

func mustImage(t *testing.T, mode Mode, w, h int) *Image {
	t.Helper()
	im, err := NewImage(mode, w, h)
	if err != nil {
		t.Fatalf("NewImage(%s, %d, %d): %v", mode, w, h, err)
	}
	return im
}

// solidImage fills every channel of every pixel with the matching entry of vals.
func solidImage(t *testing.T, mode Mode, w, h int, vals ...uint8) *Image {
	t.Helper()
	im := mustImage(t, mode, w, h)
	nc := mode.Channels()
	for i := range im.Pix {
		im.Pix[i] = vals[i%nc]
	}
	return im
}

func randomImage(t *testing.T, mode Mode, w, h int, seed int64) *Image {
	t.Helper()
	im := mustImage(t, mode, w, h)
	rng := rand.New(rand.NewSource(seed))
	for i := range im.Pix {
		im.Pix[i] = uint8(rng.Intn(256))
	}
	return im
}

// noisyFlat returns a single-channel image of value base plus gaussian noise.
func noisyFlat(t *testing.T, w, h int, base, std float64, seed int64) *Image {
	t.Helper()
	im := mustImage(t, ModeL, w, h)
	rng := rand.New(rand.NewSource(seed))
	for i := range im.Pix {
		im.Pix[i] = clampRound(base + rng.NormFloat64()*std)
	}
	return im
}

func channelValues(im *Image, c int) []float64 {
	nc := im.Channels()
	out := make([]float64, 0, im.Width*im.Height)
	for i := c; i < len(im.Pix); i += nc {
		out = append(out, float64(im.Pix[i]))
	}
	return out
}

func channelEqual(a, b *Image, c int) bool {
	nc := a.Channels()
	for i := c; i < len(a.Pix); i += nc {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
