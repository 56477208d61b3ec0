package stdimg

import (
	"bytes"
	"testing"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
	"gonum.org/v1/gonum/stat"
)

func flatImage(t *testing.T, mode bilateral.Mode, w, h int, v uint8) *bilateral.Image {
	t.Helper()
	im, err := bilateral.NewImage(mode, w, h)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	for i := range im.Pix {
		im.Pix[i] = v
	}
	return im
}

func samples(im *bilateral.Image, c int) []float64 {
	nc := im.Channels()
	out := make([]float64, 0, len(im.Pix)/nc)
	for i := c; i < len(im.Pix); i += nc {
		out = append(out, float64(im.Pix[i]))
	}
	return out
}

func TestAddNoiseDeterministic(t *testing.T) {
	src := flatImage(t, bilateral.ModeRGB, 32, 32, 128)
	a, err := AddNoise(src, "GAUSSIAN", 10, 7)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	b, err := AddNoise(src, "gaussian", 10, 7)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Errorf("same seed produced different noise")
	}
	sd := stat.StdDev(samples(a, 1), nil)
	if sd < 8 || sd > 12 {
		t.Errorf("stddev = %.2f, want about 10", sd)
	}
	for _, v := range src.Pix {
		if v != 128 {
			t.Fatalf("source modified")
		}
	}
}

func TestAddNoiseChannels(t *testing.T) {
	src := flatImage(t, bilateral.ModeRGBA, 16, 16, 200)
	out, err := AddNoise(src, "UNIFORM", 20, 3, 0, 1, 2)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	for _, v := range samples(out, 3) {
		if v != 200 {
			t.Fatalf("alpha changed to %v", v)
		}
	}
	if stat.Variance(samples(out, 0), nil) == 0 {
		t.Errorf("red channel has no noise")
	}
	if _, err := AddNoise(src, "UNIFORM", 20, 3, 4); err == nil {
		t.Errorf("out-of-range channel accepted")
	}
	if _, err := AddNoise(src, "PINK", 20, 3); err == nil {
		t.Errorf("unknown noise type accepted")
	}
}

func TestAddNoiseImpulse(t *testing.T) {
	src := flatImage(t, bilateral.ModeL, 50, 50, 100)
	out, err := AddNoise(src, "IMPULSE", 10, 5)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	hit := 0
	for _, v := range out.Pix {
		switch v {
		case 0, 255:
			hit++
		case 100:
		default:
			t.Fatalf("impulse produced intermediate value %d", v)
		}
	}
	if frac := float64(hit) / float64(len(out.Pix)); frac < 0.06 || frac > 0.14 {
		t.Errorf("impulse fraction = %.3f, want about 0.10", frac)
	}
}

func TestBilateralReducesGaussianNoise(t *testing.T) {
	src := flatImage(t, bilateral.ModeL, 48, 48, 128)
	noisy, err := AddNoise(src, "GAUSSIAN", 8, 11)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	before := stat.Variance(samples(noisy, 0), nil)
	out, err := bilateral.Filter(noisy, bilateral.Params{Diameter: 5, SigmaSpace: 20, SigmaColor: 30})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	after := stat.Variance(samples(out, 0), nil)
	if after >= before/4 {
		t.Errorf("variance %.2f -> %.2f, want at least 4x reduction", before, after)
	}
}
