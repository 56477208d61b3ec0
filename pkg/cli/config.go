package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
	"github.com/Fepozopo/bilateral/pkg/stdimg"
	"github.com/joho/godotenv"
)

// Environment variables read as defaults for the filter flags.
const (
	EnvDiameter   = "BILATERAL_DIAMETER"
	EnvSigmaSpace = "BILATERAL_SIGMA_SPACE"
	EnvSigmaColor = "BILATERAL_SIGMA_COLOR"
	EnvBorder     = "BILATERAL_BORDER"
	EnvWorkers    = "BILATERAL_WORKERS"
	EnvMode       = "BILATERAL_MODE"
	EnvRGBAPolicy = "BILATERAL_RGBA_POLICY"
	EnvDebug      = "BILATERAL_DEBUG"
)

// Config is one fully validated filter invocation.
type Config struct {
	Input   string
	Output  string
	Compare string // optional path for the independent per-channel result

	Params     bilateral.Params
	Mode       bilateral.Mode // empty means derived from the decoded image
	Border     bilateral.Border
	Workers    int
	RGBAPolicy string
	Policies   bilateral.PolicyTable

	Stats   bool
	Preview bool
	Debug   bool
}

// Options returns the filter options described by c.
func (c Config) Options() []bilateral.Option {
	return []bilateral.Option{
		bilateral.WithPolicies(c.Policies),
		bilateral.WithBorder(c.Border),
		bilateral.WithWorkers(c.Workers),
	}
}

// loadDotEnv loads path into the process environment when it exists.
// Variables already set are not overridden.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

// ParseConfig builds a Config from command-line args (without the program
// name). Values from getenv act as defaults and flags override them.
// Usage errors are written to stderr.
func ParseConfig(args []string, getenv func(string) string, stderr io.Writer) (Config, error) {
	def := bilateral.DefaultParams()
	debugDefault := false
	if v, err := parseBoolLikeToString(getenv(EnvDebug)); err == nil {
		debugDefault = v == "true"
	}
	workersDefault, err := strconv.Atoi(envOr(getenv, EnvWorkers, "0"))
	if err != nil {
		return Config{}, fmt.Errorf("%s: expected integer, got %q", EnvWorkers, getenv(EnvWorkers))
	}

	fs := flag.NewFlagSet("bilateral", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr); fs.PrintDefaults() }
	diameter := fs.String("d", envOr(getenv, EnvDiameter, strconv.Itoa(def.Diameter)), "window diameter (odd, >= 1)")
	sigmaSpace := fs.String("sigma-space", envOr(getenv, EnvSigmaSpace, strconv.FormatFloat(def.SigmaSpace, 'g', -1, 64)), "spatial sigma in pixels")
	sigmaColor := fs.String("sigma-color", envOr(getenv, EnvSigmaColor, strconv.FormatFloat(def.SigmaColor, 'g', -1, 64)), "range sigma in sample levels")
	mode := fs.String("mode", envOr(getenv, EnvMode, ""), "channel mode L|LA|YCbCr|RGB|RGBA (default: from image)")
	border := fs.String("border", envOr(getenv, EnvBorder, "exclude"), "border policy exclude|clamp|reflect")
	rgbaPolicy := fs.String("rgba-policy", envOr(getenv, EnvRGBAPolicy, "legacy"), "RGBA channel policy legacy|corrected")
	workers := fs.Int("workers", workersDefault, "concurrent row ranges (0 = GOMAXPROCS)")
	output := fs.String("o", "", "output path (default: <input>.bilateral.<ext>)")
	compare := fs.String("compare", "", "also write an independent per-channel result to this path")
	stats := fs.Bool("stats", false, "print per-channel mean and stddev before and after")
	preview := fs.Bool("preview", false, "show the result inline in kitty or iTerm2-compatible terminals")
	debug := fs.Bool("debug", debugDefault, "verbose diagnostics on stderr")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() < 1 {
		return Config{}, errors.New("missing input file\nUsage: bilateral [flags] <input> [output]")
	}
	if fs.NArg() > 2 {
		return Config{}, fmt.Errorf("too many arguments: %s", strings.Join(fs.Args()[2:], " "))
	}

	store := NewMetaStoreFromStdimg(stdimg.Commands)
	norm, err := NormalizeArgsFromStd(store, "bilateral", []string{*diameter, *sigmaSpace, *sigmaColor, *mode, *border, *rgbaPolicy})
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Input:      fs.Arg(0),
		Output:     *output,
		Compare:    *compare,
		Workers:    *workers,
		RGBAPolicy: norm[5],
		Stats:      *stats,
		Preview:    *preview,
		Debug:      *debug,
	}
	if fs.NArg() == 2 {
		if cfg.Output != "" {
			return Config{}, errors.New("output given both with -o and as an argument")
		}
		cfg.Output = fs.Arg(1)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutputPath(cfg.Input)
	}

	cfg.Params.Diameter, _ = strconv.Atoi(norm[0])
	cfg.Params.SigmaSpace, _ = strconv.ParseFloat(norm[1], 64)
	cfg.Params.SigmaColor, _ = strconv.ParseFloat(norm[2], 64)
	if err := cfg.Params.Validate(); err != nil {
		return Config{}, err
	}
	if norm[3] != "" {
		if cfg.Mode, err = bilateral.ParseMode(norm[3]); err != nil {
			return Config{}, err
		}
	}
	if cfg.Border, err = bilateral.ParseBorder(norm[4]); err != nil {
		return Config{}, err
	}
	if cfg.RGBAPolicy == "" {
		cfg.RGBAPolicy = "legacy"
	}
	if cfg.Policies, err = stdimg.PolicyTableByName(cfg.RGBAPolicy); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultOutputPath derives an output path next to input. Inputs whose
// format cannot be written (such as WebP) get a PNG output.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if input == "-" {
		base = "stdin"
	}
	if !canEncode(ext) {
		ext = ".png"
	}
	return base + ".bilateral" + ext
}
