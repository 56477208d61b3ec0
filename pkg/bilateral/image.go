package bilateral

import "fmt"

// Image is an H×W grid of 8-bit samples. Pix holds Mode.Channels() samples
// per pixel, interleaved, rows stored top to bottom without padding.
type Image struct {
	Mode   Mode
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a zeroed image of the given mode and size.
func NewImage(mode Mode, width, height int) (*Image, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	return &Image{
		Mode:   mode,
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*mode.Channels()),
	}, nil
}

// Channels returns the per-pixel sample count implied by the mode.
func (im *Image) Channels() int {
	return im.Mode.Channels()
}

// Stride is the number of samples in one row.
func (im *Image) Stride() int {
	return im.Width * im.Mode.Channels()
}

// Offset returns the index in Pix of channel c of pixel (x, y).
func (im *Image) Offset(x, y, c int) int {
	return (y*im.Width+x)*im.Mode.Channels() + c
}

// At returns channel c of pixel (x, y).
func (im *Image) At(x, y, c int) uint8 {
	return im.Pix[im.Offset(x, y, c)]
}

// Set writes channel c of pixel (x, y).
func (im *Image) Set(x, y, c int, v uint8) {
	im.Pix[im.Offset(x, y, c)] = v
}

// Clone returns a deep copy of im.
func (im *Image) Clone() *Image {
	if im == nil {
		return nil
	}
	out := *im
	out.Pix = make([]uint8, len(im.Pix))
	copy(out.Pix, im.Pix)
	return &out
}

// check verifies the image is usable as filter input.
func (im *Image) check() error {
	if im == nil {
		return fmt.Errorf("%w: nil image", ErrEmptyImage)
	}
	if !im.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(im.Mode))
	}
	if im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, im.Width, im.Height)
	}
	if want := im.Width * im.Height * im.Mode.Channels(); len(im.Pix) != want {
		return fmt.Errorf("%w: %d samples for %dx%d %s, want %d", ErrEmptyImage, len(im.Pix), im.Width, im.Height, im.Mode, want)
	}
	return nil
}
