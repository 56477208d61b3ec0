package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
	"github.com/Fepozopo/bilateral/pkg/stdimg"
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  bilateral [flags] <input> [output]                  Apply the bilateral filter
  bilateral apply <command> <input> <output> [args]   Run one stdimg command
  bilateral info <input>                              Print image information
  bilateral commands                                  List stdimg commands
  bilateral update                                    Check for a newer release
  bilateral version                                   Print the version

Flags default to BILATERAL_* environment variables, which may also be set
in a .env file in the working directory.

Run "bilateral -h" for filter flags.
`)
}

// RunCLI runs the command line with args (without the program name).
// Results go to stdout, diagnostics to stderr; confirmations are read
// from stdin.
func RunCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}
	debugEnabled, _ = parseBoolEnv(EnvDebug)

	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing input file")
	}
	switch args[0] {
	case "apply":
		return runApply(args[1:], stdout)
	case "info":
		return runInfo(args[1:], stdout)
	case "commands":
		return runCommands(stdout)
	case "update":
		return CheckForUpdates(stdin, stdout)
	case "version":
		fmt.Fprintln(stdout, Version)
		return nil
	case "help", "-help", "--help":
		printUsage(stdout)
		return nil
	}

	cfg, err := ParseConfig(args, os.Getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	return RunFilter(cfg, stdout, stderr)
}

func parseBoolEnv(key string) (bool, bool) {
	v, err := parseBoolLikeToString(os.Getenv(key))
	if err != nil {
		return false, false
	}
	return v == "true", true
}

// RunFilter executes one validated filter invocation.
func RunFilter(cfg Config, stdout, stderr io.Writer) error {
	if cfg.Debug {
		debugEnabled = true
		bilateral.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer bilateral.SetLogger(nil)
	}

	img, format, err := LoadImage(cfg.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.Input, err)
	}
	debugf("decoded %s as %s (%T)", cfg.Input, format, img)
	src, err := stdimg.FromImage(img, cfg.Mode)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := bilateral.Filter(src, cfg.Params, cfg.Options()...)
	if err != nil {
		return err
	}
	debugf("filtered %dx%d %s in %s", src.Width, src.Height, src.Mode, time.Since(start))

	result := stdimg.ToImage(out)
	if err := SaveImage(cfg.Output, result); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	fmt.Fprintf(stdout, "wrote %s (%s %dx%d, d=%d sigma_space=%g sigma_color=%g, border=%s)\n",
		cfg.Output, out.Mode, out.Width, out.Height, cfg.Params.Diameter, cfg.Params.SigmaSpace, cfg.Params.SigmaColor, cfg.Border)

	if cfg.Compare != "" {
		ind, err := filterIndependent(src, cfg)
		if err != nil {
			return err
		}
		if err := SaveImage(cfg.Compare, stdimg.ToImage(ind)); err != nil {
			return fmt.Errorf("write %s: %w", cfg.Compare, err)
		}
		fmt.Fprintf(stdout, "wrote %s (independent per-channel)\n", cfg.Compare)
	}

	if cfg.Stats {
		fmt.Fprint(stdout, FormatStats(src, out))
	}

	if cfg.Preview {
		if !PreviewSupported() {
			fmt.Fprintln(stderr, "preview: terminal does not support inline images")
		} else if err := PreviewImage(stdout, result, "png"); err != nil {
			fmt.Fprintf(stderr, "preview: %v\n", err)
		}
	}
	return nil
}

// filterIndependent filters the same channels as the configured policy but
// with the luminance variant, so each channel only sees its own edges.
func filterIndependent(src *bilateral.Image, cfg Config) (*bilateral.Image, error) {
	p, err := cfg.Policies.Lookup(src.Mode)
	if err != nil {
		return nil, err
	}
	p.Variant = bilateral.VariantLuminance
	opts := append(cfg.Options(), bilateral.WithPolicy(src.Mode, p))
	return bilateral.Filter(src, cfg.Params, opts...)
}

// runApply runs a single stdimg command: apply <command> <input> <output> [args...].
func runApply(args []string, stdout io.Writer) error {
	if len(args) < 3 {
		return errors.New("apply: usage: bilateral apply <command> <input> <output> [args...]")
	}
	name, input, output := args[0], args[1], args[2]
	store := NewMetaStoreFromStdimg(stdimg.Commands)
	norm, err := NormalizeArgsFromStd(store, name, args[3:])
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	img, format, err := LoadImage(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	out, err := stdimg.ApplyCommandStdlib(img, name, norm)
	if err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if out == nil {
		info, err := GetImageInfoImage(img, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, info)
		return nil
	}
	if err := SaveImage(output, out); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(stdout, "wrote %s (%s %s)\n", output, name, strings.Join(trimEmpty(norm), " "))
	return nil
}

func trimEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func runInfo(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("info: usage: bilateral info <input>")
	}
	img, format, err := LoadImage(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	info, err := GetImageInfoImage(img, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, info)
	return nil
}

func runCommands(stdout io.Writer) error {
	store := NewMetaStoreFromStdimg(stdimg.Commands)
	for _, c := range store.Commands {
		tip, _, err := store.GetCommandHelp(c.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n  usage: %s\n  %s\n\n", c.Name, c.Usage, strings.ReplaceAll(tip, "\n", "\n  "))
	}
	return nil
}
