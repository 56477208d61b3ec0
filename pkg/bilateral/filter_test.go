package bilateral

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestFilterPreservesModeAndShape(t *testing.T) {
	for i, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			src := randomImage(t, mode, 13, 7, int64(i+1))
			out, err := Filter(src, DefaultParams())
			if err != nil {
				t.Fatalf("Filter: %v", err)
			}
			if out.Mode != src.Mode {
				t.Errorf("mode = %s, want %s", out.Mode, src.Mode)
			}
			if out.Width != src.Width || out.Height != src.Height {
				t.Errorf("size = %dx%d, want %dx%d", out.Width, out.Height, src.Width, src.Height)
			}
			if len(out.Pix) != len(src.Pix) {
				t.Errorf("len(Pix) = %d, want %d", len(out.Pix), len(src.Pix))
			}
			if &out.Pix[0] == &src.Pix[0] {
				t.Errorf("output aliases input buffer")
			}
		})
	}
}

func TestFilterFlatImageUnchanged(t *testing.T) {
	tests := []struct {
		mode Mode
		vals []uint8
	}{
		{ModeL, []uint8{77}},
		{ModeLA, []uint8{0, 200}},
		{ModeYCbCr, []uint8{255, 128, 3}},
		{ModeRGB, []uint8{10, 20, 30}},
		{ModeRGBA, []uint8{1, 254, 128, 64}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			src := solidImage(t, tt.mode, 9, 6, tt.vals...)
			for _, b := range []Border{BorderExclude, BorderClamp, BorderReflect} {
				out, err := Filter(src, Params{Diameter: 7, SigmaSpace: 3, SigmaColor: 10}, WithBorder(b))
				if err != nil {
					t.Fatalf("Filter(%v): %v", b, err)
				}
				if !bytes.Equal(out.Pix, src.Pix) {
					t.Errorf("border %v: flat image changed", b)
				}
			}
		})
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	src := randomImage(t, ModeRGBA, 20, 11, 42)
	before := src.Clone()
	if _, err := Filter(src, DefaultParams()); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if !bytes.Equal(src.Pix, before.Pix) {
		t.Fatalf("input image was modified")
	}
}

func TestFilterOutlier(t *testing.T) {
	src := mustImage(t, ModeL, 3, 3)
	copy(src.Pix, []uint8{
		10, 10, 10,
		10, 200, 10,
		10, 10, 10,
	})

	// sigma_color 20 puts the 190-level jump far out on the range Gaussian,
	// so the lone sample counts as structure and survives.
	out, err := Filter(src, Params{Diameter: 3, SigmaSpace: 20, SigmaColor: 20})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if got := out.At(1, 1, 0); got != 200 {
		t.Errorf("sigma_color=20: center = %d, want 200", got)
	}
	for _, p := range [][2]int{{0, 0}, {1, 0}, {2, 2}, {0, 1}} {
		if got := out.At(p[0], p[1], 0); got != 10 {
			t.Errorf("sigma_color=20: (%d,%d) = %d, want 10", p[0], p[1], got)
		}
	}

	// With sigma_color on the order of the jump the outlier is pulled
	// toward its eight neighbors.
	out, err = Filter(src, Params{Diameter: 3, SigmaSpace: 20, SigmaColor: 200})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	center := int(out.At(1, 1, 0))
	if center-10 >= 200-center {
		t.Errorf("sigma_color=200: center = %d, want closer to 10 than to 200", center)
	}
	if center < 35 || center > 50 {
		t.Errorf("sigma_color=200: center = %d, want about 41", center)
	}
}

// gaussianBlur is the reference normalized spatial blur with out-of-bounds
// neighbors excluded.
func gaussianBlur(src *Image, ch int, k *SpatialKernel) []uint8 {
	out := make([]uint8, src.Width*src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var num, den float64
			for dy := -k.Radius; dy <= k.Radius; dy++ {
				for dx := -k.Radius; dx <= k.Radius; dx++ {
					sx, sy := x+dx, y+dy
					if sx < 0 || sy < 0 || sx >= src.Width || sy >= src.Height {
						continue
					}
					w := k.Weight(dx, dy)
					num += w * float64(src.At(sx, sy, ch))
					den += w
				}
			}
			out[y*src.Width+x] = clampRound(num / den)
		}
	}
	return out
}

func TestFilterInfiniteSigmaColorIsGaussianBlur(t *testing.T) {
	p := Params{Diameter: 5, SigmaSpace: 1.5, SigmaColor: math.Inf(1)}
	k := NewSpatialKernel(p.Diameter, p.SigmaSpace)

	gray := randomImage(t, ModeL, 17, 9, 7)
	out, err := Filter(gray, p)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if want := gaussianBlur(gray, 0, k); !bytes.Equal(out.Pix, want) {
		t.Errorf("L: output differs from spatial blur")
	}

	rgb := randomImage(t, ModeRGB, 11, 12, 8)
	out, err = Filter(rgb, p)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for c := 0; c < 3; c++ {
		want := gaussianBlur(rgb, c, k)
		got := channelValues(out, c)
		for i := range want {
			if float64(want[i]) != got[i] {
				t.Fatalf("RGB channel %d: sample %d = %v, want %d", c, i, got[i], want[i])
			}
		}
	}
}

func TestFilterLargeSigmaColorApproachesBlur(t *testing.T) {
	src := randomImage(t, ModeL, 16, 16, 99)
	k := NewSpatialKernel(5, 2)
	want := gaussianBlur(src, 0, k)
	out, err := Filter(src, Params{Diameter: 5, SigmaSpace: 2, SigmaColor: 1e6})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for i := range want {
		if d := int(out.Pix[i]) - int(want[i]); d < -1 || d > 1 {
			t.Fatalf("sample %d = %d, want %d±1", i, out.Pix[i], want[i])
		}
	}
}

func TestFilterLargerDiameterSmoothsMore(t *testing.T) {
	src := noisyFlat(t, 64, 64, 128, 10, 3)
	prev := stat.Variance(channelValues(src, 0), nil)
	for _, d := range []int{1, 3, 5, 7, 9} {
		out, err := Filter(src, Params{Diameter: d, SigmaSpace: 20, SigmaColor: 30})
		if err != nil {
			t.Fatalf("diameter %d: %v", d, err)
		}
		v := stat.Variance(channelValues(out, 0), nil)
		if v > prev {
			t.Errorf("diameter %d: variance %.3f > %.3f at previous diameter", d, v, prev)
		}
		prev = v
	}
}

func TestFilterBorders(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		d    int
	}{
		{"window larger than image", 3, 2, 9},
		{"single pixel", 1, 1, 5},
		{"single row", 12, 1, 7},
		{"single column", 1, 12, 7},
		{"regular", 10, 10, 5},
	}
	for _, tt := range tests {
		for _, b := range []Border{BorderExclude, BorderClamp, BorderReflect} {
			t.Run(tt.name+"/"+b.String(), func(t *testing.T) {
				src := randomImage(t, ModeRGBA, tt.w, tt.h, int64(tt.w*31+tt.h))
				out, err := Filter(src, Params{Diameter: tt.d, SigmaSpace: 4, SigmaColor: 40}, WithBorder(b))
				if err != nil {
					t.Fatalf("Filter: %v", err)
				}
				if len(out.Pix) != len(src.Pix) {
					t.Fatalf("len(Pix) = %d, want %d", len(out.Pix), len(src.Pix))
				}
			})
		}
	}
}

func TestFilterOversizedDiameter(t *testing.T) {
	src := randomImage(t, ModeL, 3, 3, 5)
	p := Params{Diameter: 5, SigmaSpace: 20, SigmaColor: 20}
	want, err := Filter(src, p, WithKernelCache(nil))
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, d := range []int{7, math.MaxInt32, math.MaxInt} {
		p.Diameter = d
		got, err := Filter(src, p, WithKernelCache(nil))
		if err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("d=%d: got %v, want %v", d, got.Pix, want.Pix)
		}
	}

	for _, b := range []Border{BorderClamp, BorderReflect} {
		if _, err := Filter(src, Params{Diameter: 41, SigmaSpace: 20, SigmaColor: 20}, WithBorder(b)); err != nil {
			t.Fatalf("%v: d=41: %v", b, err)
		}
		for _, d := range []int{MaxKernelDiameter + 2, math.MaxInt} {
			p.Diameter = d
			out, err := Filter(src, p, WithBorder(b), WithKernelCache(nil))
			if !errors.Is(err, ErrInvalidDiameter) {
				t.Errorf("%v: d=%d: err = %v, want ErrInvalidDiameter", b, d, err)
			}
			if out != nil {
				t.Errorf("%v: d=%d: got output on error", b, d)
			}
		}
	}
}

func TestFilterSinglePixelUnchanged(t *testing.T) {
	src := solidImage(t, ModeRGB, 1, 1, 9, 99, 199)
	out, err := Filter(src, Params{Diameter: 11, SigmaSpace: 2, SigmaColor: 5})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Errorf("got %v, want %v", out.Pix, src.Pix)
	}
}

func TestFilterErrors(t *testing.T) {
	good := solidImage(t, ModeL, 4, 4, 1)
	tests := []struct {
		name string
		src  *Image
		p    Params
		want error
	}{
		{"even diameter", good, Params{Diameter: 4, SigmaSpace: 20, SigmaColor: 20}, ErrInvalidDiameter},
		{"zero diameter", good, Params{Diameter: 0, SigmaSpace: 20, SigmaColor: 20}, ErrInvalidDiameter},
		{"negative diameter", good, Params{Diameter: -3, SigmaSpace: 20, SigmaColor: 20}, ErrInvalidDiameter},
		{"zero sigma_space", good, Params{Diameter: 3, SigmaSpace: 0, SigmaColor: 20}, ErrInvalidSigma},
		{"NaN sigma_color", good, Params{Diameter: 3, SigmaSpace: 1, SigmaColor: math.NaN()}, ErrInvalidSigma},
		{"unsupported mode", &Image{Mode: "CMYK", Width: 1, Height: 1, Pix: make([]uint8, 4)}, DefaultParams(), ErrInvalidMode},
		{"nil image", nil, DefaultParams(), ErrEmptyImage},
		{"zero width", &Image{Mode: ModeL, Width: 0, Height: 3}, DefaultParams(), ErrEmptyImage},
		{"short buffer", &Image{Mode: ModeRGB, Width: 2, Height: 2, Pix: make([]uint8, 11)}, DefaultParams(), ErrEmptyImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Filter(tt.src, tt.p)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Errorf("got partial output on error")
			}
		})
	}
}

func TestFilterWorkerCountDoesNotChangeResult(t *testing.T) {
	src := randomImage(t, ModeRGB, 31, 29, 5)
	p := Params{Diameter: 5, SigmaSpace: 3, SigmaColor: 25}
	ref, err := Filter(src, p, WithWorkers(1))
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, n := range []int{0, 2, 3, 8, 64} {
		out, err := Filter(src, p, WithWorkers(n))
		if err != nil {
			t.Fatalf("workers=%d: %v", n, err)
		}
		if !bytes.Equal(out.Pix, ref.Pix) {
			t.Errorf("workers=%d: output differs from single worker", n)
		}
	}
}

func TestFilterPassthroughChannels(t *testing.T) {
	tests := []struct {
		mode        Mode
		opts        []Option
		passthrough []int
		filtered    []int
	}{
		{ModeLA, nil, []int{1}, []int{0}},
		{ModeYCbCr, nil, []int{1, 2}, []int{0}},
		{ModeRGBA, nil, []int{0}, []int{1, 2, 3}},
		{ModeRGBA, []Option{WithPolicies(CorrectedPolicies())}, []int{3}, []int{0, 1, 2}},
	}
	for i, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			src := randomImage(t, tt.mode, 15, 15, int64(100+i))
			out, err := Filter(src, Params{Diameter: 5, SigmaSpace: 5, SigmaColor: 80}, tt.opts...)
			if err != nil {
				t.Fatalf("Filter: %v", err)
			}
			for _, c := range tt.passthrough {
				if !channelEqual(src, out, c) {
					t.Errorf("passthrough channel %d changed", c)
				}
			}
			for _, c := range tt.filtered {
				if channelEqual(src, out, c) {
					t.Errorf("filtered channel %d unchanged on random input", c)
				}
			}
		})
	}
}

func TestFilterJointKeepsSharperEdges(t *testing.T) {
	// 8x8 checkerboard cells of two colors that differ in R and G.
	a := [3]uint8{200, 50, 50}
	b := [3]uint8{50, 200, 50}
	src := mustImage(t, ModeRGB, 32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := a
			if (x/8+y/8)%2 == 1 {
				c = b
			}
			for ch := 0; ch < 3; ch++ {
				src.Set(x, y, ch, c[ch])
			}
		}
	}
	p := Params{Diameter: 7, SigmaSpace: 20, SigmaColor: 100}

	joint, err := Filter(src, p)
	if err != nil {
		t.Fatalf("joint: %v", err)
	}
	independent, err := Filter(src, p, WithPolicy(ModeRGB, ChannelPolicy{
		Variant:  VariantLuminance,
		Filtered: []int{0, 1, 2},
	}))
	if err != nil {
		t.Fatalf("independent: %v", err)
	}

	// blended counts pixels pushed more than 4 levels away from the input
	// in any channel, i.e. the width of the mixing band around each edge.
	blended := func(out *Image) int {
		n := 0
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				for ch := 0; ch < 3; ch++ {
					d := int(out.At(x, y, ch)) - int(src.At(x, y, ch))
					if d > 4 || d < -4 {
						n++
						break
					}
				}
			}
		}
		return n
	}
	j, ind := blended(joint), blended(independent)
	if j >= ind {
		t.Errorf("joint blended %d pixels, independent %d; want joint < independent", j, ind)
	}
	// a row crossing a vertical edge: independent mixes 3 columns per side,
	// joint only 2
	row := 4
	width := func(out *Image) int {
		n := 0
		for x := 0; x < out.Width; x++ {
			if d := int(out.At(x, row, 0)) - int(src.At(x, row, 0)); d > 4 || d < -4 {
				n++
			}
		}
		return n
	}
	if jw, iw := width(joint), width(independent); jw >= iw {
		t.Errorf("row %d: joint blend width %d, independent %d", row, jw, iw)
	}
	// blue is equal on both sides and must survive either way
	if !channelEqual(src, joint, 2) || !channelEqual(src, independent, 2) {
		t.Errorf("constant blue channel changed")
	}
}

func TestFilterBorderPolicyChangesEdgesOnly(t *testing.T) {
	src := randomImage(t, ModeL, 20, 20, 11)
	p := Params{Diameter: 5, SigmaSpace: 2, SigmaColor: 60}
	ex, err := Filter(src, p)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, b := range []Border{BorderClamp, BorderReflect} {
		out, err := Filter(src, p, WithBorder(b))
		if err != nil {
			t.Fatalf("Filter(%v): %v", b, err)
		}
		for y := 2; y < 18; y++ {
			for x := 2; x < 18; x++ {
				if out.At(x, y, 0) != ex.At(x, y, 0) {
					t.Fatalf("%v: interior pixel (%d,%d) = %d, exclude gives %d", b, x, y, out.At(x, y, 0), ex.At(x, y, 0))
				}
			}
		}
	}
	if _, err := Filter(src, p, WithBorder(Border(42))); !errors.Is(err, ErrInvalidBorder) {
		t.Errorf("unknown border policy: err = %v, want ErrInvalidBorder", err)
	}
}

func TestFilterWithoutKernelCache(t *testing.T) {
	src := randomImage(t, ModeYCbCr, 9, 9, 17)
	cached, err := Filter(src, DefaultParams())
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	fresh, err := Filter(src, DefaultParams(), WithKernelCache(nil))
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if !bytes.Equal(cached.Pix, fresh.Pix) {
		t.Errorf("cached and uncached kernels disagree")
	}
}
