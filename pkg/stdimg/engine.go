package stdimg

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/bilateral"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Bilateral runs the bilateral filter on a standard library image. mode
// selects how img is interpreted; an empty mode uses NaturalMode(img).
func Bilateral(img image.Image, mode bilateral.Mode, p bilateral.Params, opts ...bilateral.Option) (image.Image, error) {
	src, err := FromImage(img, mode)
	if err != nil {
		return nil, err
	}
	out, err := bilateral.Filter(src, p, opts...)
	if err != nil {
		return nil, err
	}
	return ToImage(out), nil
}

// PolicyTableByName returns the channel policy table for an RGBA policy
// name: "legacy" (the default table, alpha filtered and channel 0 passed
// through) or "corrected" (color filtered, alpha passed through).
func PolicyTableByName(name string) (bilateral.PolicyTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy", "default":
		return bilateral.DefaultPolicies(), nil
	case "corrected", "rgb":
		return bilateral.CorrectedPolicies(), nil
	default:
		return nil, fmt.Errorf("unknown RGBA policy %q (want legacy or corrected)", name)
	}
}

// argOr returns args[i] when present and non-empty, otherwise def.
func argOr(args []string, i int, def string) string {
	if i < len(args) && strings.TrimSpace(args[i]) != "" {
		return strings.TrimSpace(args[i])
	}
	return def
}

// ApplyCommandStdlib applies a named command to img and returns a new image.
// Commands and their arguments are listed in Commands. identify returns a
// nil image; callers print information themselves.
func ApplyCommandStdlib(img image.Image, commandName string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	switch commandName {
	case "bilateral":
		// bilateral [diameter] [sigmaSpace] [sigmaColor] [mode] [border] [rgbaPolicy]
		p := bilateral.DefaultParams()
		d, err := strconv.Atoi(argOr(args, 0, strconv.Itoa(p.Diameter)))
		if err != nil {
			return nil, fmt.Errorf("invalid diameter: %w", err)
		}
		ss, err := strconv.ParseFloat(argOr(args, 1, "20"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sigmaSpace: %w", err)
		}
		sc, err := strconv.ParseFloat(argOr(args, 2, "20"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sigmaColor: %w", err)
		}
		p = bilateral.Params{Diameter: d, SigmaSpace: ss, SigmaColor: sc}
		var mode bilateral.Mode
		if m := argOr(args, 3, ""); m != "" {
			mode, err = bilateral.ParseMode(m)
			if err != nil {
				return nil, err
			}
		}
		border, err := bilateral.ParseBorder(argOr(args, 4, "exclude"))
		if err != nil {
			return nil, err
		}
		table, err := PolicyTableByName(argOr(args, 5, "legacy"))
		if err != nil {
			return nil, err
		}
		out, err := Bilateral(img, mode, p, bilateral.WithBorder(border), bilateral.WithPolicies(table))
		if err != nil {
			return nil, fmt.Errorf("bilateral: %w", err)
		}
		return out, nil

	case "blur":
		if len(args) < 1 {
			return nil, fmt.Errorf("blur requires 1 arg: sigma")
		}
		sigma, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sigma: %w", err)
		}
		src, err := FromImage(img, "")
		if err != nil {
			return nil, err
		}
		out, err := GaussianBlur(src, sigma)
		if err != nil {
			return nil, fmt.Errorf("blur: %w", err)
		}
		return ToImage(out), nil

	case "addNoise":
		// addNoise [type] [amount] [seed]
		typ := argOr(args, 0, "GAUSSIAN")
		amt, err := strconv.ParseFloat(argOr(args, 1, "10"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		seed, err := strconv.ParseInt(argOr(args, 2, "0"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %w", err)
		}
		src, err := FromImage(img, "")
		if err != nil {
			return nil, err
		}
		// leave alpha alone so noise does not punch holes in the image
		var chans []int
		if src.Mode == bilateral.ModeRGBA {
			chans = []int{0, 1, 2}
		} else if src.Mode == bilateral.ModeLA {
			chans = []int{0}
		}
		out, err := AddNoise(src, typ, amt, seed, chans...)
		if err != nil {
			return nil, err
		}
		return ToImage(out), nil

	case "convert":
		if len(args) != 1 {
			return nil, fmt.Errorf("convert requires 1 arg: mode")
		}
		mode, err := bilateral.ParseMode(args[0])
		if err != nil {
			return nil, err
		}
		out, err := FromImage(img, mode)
		if err != nil {
			return nil, err
		}
		return ToImage(out), nil

	case "grayscale":
		out, err := FromImage(img, bilateral.ModeL)
		if err != nil {
			return nil, err
		}
		return ToImage(out), nil

	case "identify":
		return nil, nil

	case "strip":
		// re-encoding drops metadata on save
		return img, nil

	default:
		return nil, fmt.Errorf("unsupported command in stdlib engine: %s", commandName)
	}
}
