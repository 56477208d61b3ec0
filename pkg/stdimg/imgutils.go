package stdimg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
	"golang.org/x/image/draw"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA)
// with its origin at (0,0). The result never shares memory with src.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:(y+1)*out.Stride], n.Pix[i:i+4*b.Dx()])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// NaturalMode picks the bilateral mode that represents img without loss:
// gray images become L, YCbCr images stay YCbCr, everything else is RGB
// when fully opaque and RGBA otherwise.
func NaturalMode(img image.Image) bilateral.Mode {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return bilateral.ModeL
	case *image.YCbCr:
		return bilateral.ModeYCbCr
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return bilateral.ModeRGB
	}
	return bilateral.ModeRGBA
}

// luma is the Rec.601 weighting used by image/color.GrayModel.
func luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}

// FromImage copies img into a bilateral.Image of the requested mode.
// Pass an empty mode to use NaturalMode(img).
func FromImage(img image.Image, mode bilateral.Mode) (*bilateral.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if mode == "" {
		mode = NaturalMode(img)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out, err := bilateral.NewImage(mode, w, h)
	if err != nil {
		return nil, err
	}

	// direct paths keep the native samples instead of round-tripping through RGB
	switch src := img.(type) {
	case *image.Gray:
		if mode == bilateral.ModeL {
			for y := 0; y < h; y++ {
				i := src.PixOffset(b.Min.X, b.Min.Y+y)
				copy(out.Pix[y*w:(y+1)*w], src.Pix[i:i+w])
			}
			return out, nil
		}
	case *image.YCbCr:
		if mode == bilateral.ModeYCbCr {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					c := src.YCbCrAt(b.Min.X+x, b.Min.Y+y)
					i := out.Offset(x, y, 0)
					out.Pix[i+0] = c.Y
					out.Pix[i+1] = c.Cb
					out.Pix[i+2] = c.Cr
				}
			}
			return out, nil
		}
	}

	n := ToNRGBA(img)
	nc := mode.Channels()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := n.PixOffset(x, y)
			r, g, bl, a := n.Pix[s+0], n.Pix[s+1], n.Pix[s+2], n.Pix[s+3]
			d := (y*w + x) * nc
			switch mode {
			case bilateral.ModeL:
				out.Pix[d] = luma(r, g, bl)
			case bilateral.ModeLA:
				out.Pix[d+0] = luma(r, g, bl)
				out.Pix[d+1] = a
			case bilateral.ModeYCbCr:
				out.Pix[d+0], out.Pix[d+1], out.Pix[d+2] = color.RGBToYCbCr(r, g, bl)
			case bilateral.ModeRGB:
				out.Pix[d+0], out.Pix[d+1], out.Pix[d+2] = r, g, bl
			case bilateral.ModeRGBA:
				out.Pix[d+0], out.Pix[d+1], out.Pix[d+2], out.Pix[d+3] = r, g, bl, a
			}
		}
	}
	return out, nil
}

// ToImage converts a bilateral.Image back into a standard library image:
// L is *image.Gray, YCbCr is a 4:4:4 *image.YCbCr, and LA, RGB and RGBA
// are *image.NRGBA.
func ToImage(im *bilateral.Image) image.Image {
	if im == nil || !im.Mode.Valid() {
		return nil
	}
	w, h := im.Width, im.Height
	rect := image.Rect(0, 0, w, h)
	switch im.Mode {
	case bilateral.ModeL:
		out := image.NewGray(rect)
		copy(out.Pix, im.Pix)
		return out
	case bilateral.ModeYCbCr:
		out := image.NewYCbCr(rect, image.YCbCrSubsampleRatio444)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := im.Offset(x, y, 0)
				out.Y[out.YOffset(x, y)] = im.Pix[i+0]
				out.Cb[out.COffset(x, y)] = im.Pix[i+1]
				out.Cr[out.COffset(x, y)] = im.Pix[i+2]
			}
		}
		return out
	}

	out := image.NewNRGBA(rect)
	nc := im.Channels()
	for p := 0; p < w*h; p++ {
		s, d := p*nc, p*4
		switch im.Mode {
		case bilateral.ModeLA:
			v := im.Pix[s]
			out.Pix[d+0], out.Pix[d+1], out.Pix[d+2], out.Pix[d+3] = v, v, v, im.Pix[s+1]
		case bilateral.ModeRGB:
			out.Pix[d+0], out.Pix[d+1], out.Pix[d+2], out.Pix[d+3] = im.Pix[s], im.Pix[s+1], im.Pix[s+2], 255
		default:
			copy(out.Pix[d:d+4], im.Pix[s:s+4])
		}
	}
	return out
}

func clampFloatToUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
