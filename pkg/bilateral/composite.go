package bilateral

// newComposite allocates the output image for src and copies the
// passthrough channels into it verbatim. Filtered channel slots are left
// zero for the kernels to fill.
func newComposite(src *Image, policy ChannelPolicy) *Image {
	dst := &Image{
		Mode:   src.Mode,
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]uint8, len(src.Pix)),
	}
	nc := src.Channels()
	for _, c := range policy.Passthrough {
		for i := c; i < len(src.Pix); i += nc {
			dst.Pix[i] = src.Pix[i]
		}
	}
	return dst
}
