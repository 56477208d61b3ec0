// Package stdimg: authoritative registry of stdlib engine commands.
//
// This file mirrors the commands implemented in ApplyCommandStdlib in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "enum"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string
	Description string
}

// Commands is the authoritative list of commands implemented by the stdlib engine.
var Commands = []CommandSpec{
	{
		Name: "bilateral",
		Args: []ArgSpec{
			{"diameter", "int", false, "5", "odd window side length"},
			{"sigmaSpace", "float", false, "20", "spatial gaussian sigma (pixels)"},
			{"sigmaColor", "float", false, "20", "range gaussian sigma (sample levels)"},
			{"mode", "enum", false, "", "L|LA|YCbCr|RGB|RGBA (empty = from image)"},
			{"border", "enum", false, "exclude", "exclude|clamp|reflect"},
			{"rgbaPolicy", "enum", false, "legacy", "legacy|corrected"},
		},
		Usage:       "bilateral [diameter] [sigmaSpace] [sigmaColor] [mode] [border] [rgbaPolicy]",
		Description: "Edge-preserving bilateral filter.",
	},
	{
		Name:        "blur",
		Args:        []ArgSpec{{"sigma", "float", true, "", "gaussian sigma"}},
		Usage:       "blur <sigma>",
		Description: "Gaussian blur (bilateral filter with infinite sigmaColor).",
	},
	{
		Name: "addNoise",
		Args: []ArgSpec{
			{"type", "enum", false, "GAUSSIAN", "GAUSSIAN|UNIFORM|IMPULSE"},
			{"amount", "float", false, "10", "stddev, max deviation, or impulse percent"},
			{"seed", "int", false, "0", "random seed"},
		},
		Usage:       "addNoise [type] [amount] [seed]",
		Description: "Add noise to color channels (alpha untouched).",
	},
	{
		Name:        "convert",
		Args:        []ArgSpec{{"mode", "enum", true, "", "L|LA|YCbCr|RGB|RGBA"}},
		Usage:       "convert <mode>",
		Description: "Reinterpret the image in another channel mode.",
	},
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Convert to single-channel luminance.",
	},
	{
		Name:        "identify",
		Args:        []ArgSpec{},
		Usage:       "identify",
		Description: "Print image information.",
	},
	{
		Name:        "strip",
		Args:        []ArgSpec{},
		Usage:       "strip",
		Description: "Drop metadata on next save.",
	},
}

// LookupCommand returns the CommandSpec registered under name.
func LookupCommand(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
