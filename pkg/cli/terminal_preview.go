package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"strings"
)

// Terminal preview helper for Kitty and iTerm2 inline-image protocols.
//
// Behavior:
//   - If kitty is detected (KITTY_WINDOW_ID or TERM contains "kitty"), the PNG is sent using
//     the kitty graphics protocol (chunked base64 inside ESC _G ... ESC \).
//   - Else if an iTerm2-compatible terminal is detected (iTerm2, WezTerm, VSCode, ...),
//     the image is sent using the OSC 1337 inline file sequence.
//   - Otherwise PreviewImage returns an error.
//
// PREVIEW_BACKEND=kitty|inline forces a backend.

// debugEnabled is set from BILATERAL_DEBUG or the -debug flag.
var debugEnabled bool

func debugf(format string, args ...any) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "bilateral: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	// ghostty speaks the kitty protocol too
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		debugf("TERM_PROGRAM indicates inline-capable: %s", os.Getenv("TERM_PROGRAM"))
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "vscode") {
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

// PreviewSupported reports whether the running terminal likely supports a preview.
func PreviewSupported() bool {
	switch strings.ToLower(os.Getenv("PREVIEW_BACKEND")) {
	case "kitty", "inline":
		return true
	}
	return isKitty() || isInlineImageCapable()
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int
	PixelHeight int
}

// computePreviewSize maps an image's pixel dimensions into a character cell
// area that keeps the aspect ratio, never scales up and stays within 80x40.
func computePreviewSize(img image.Image) PreviewSize {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	const charW, charH = 8, 16
	const minCols, minRows = 6, 3
	const maxCols, maxRows = 80, 40

	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)

	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * charW,
		PixelHeight: rows * charH,
	}
}

// PreviewImage encodes img (PNG, or JPEG when format is "jpeg") and writes
// the terminal escape sequence that displays it to w.
func PreviewImage(w io.Writer, img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	backend := strings.ToLower(os.Getenv("PREVIEW_BACKEND"))
	if backend == "" {
		switch {
		case isKitty():
			backend = "kitty"
		case isInlineImageCapable():
			backend = "inline"
		default:
			return fmt.Errorf("terminal does not support inline images")
		}
	}

	f := strings.ToLower(format)
	if backend == "kitty" {
		f = "png"
	}
	var buf bytes.Buffer
	if f == "jpeg" || f == "jpg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("jpeg encode failed: %w", err)
		}
		f = "jpeg"
	} else {
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("png encode failed: %w", err)
		}
		f = "png"
	}
	size := computePreviewSize(img)
	debugf("preview backend=%s format=%s bytes=%d cols=%d rows=%d", backend, f, buf.Len(), size.Cols, size.Rows)

	switch backend {
	case "kitty":
		return sendKittyImage(w, buf.Bytes(), size)
	case "inline":
		return sendInlineImage(w, buf.Bytes(), f, size)
	default:
		return fmt.Errorf("unknown PREVIEW_BACKEND value: %s", backend)
	}
}

// sendKittyImage transmits PNG data with the kitty graphics protocol in
// 4096-byte base64 chunks. q=2 suppresses terminal responses.
func sendKittyImage(w io.Writer, data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "1"
		if end == len(enc) {
			more = "0"
		}
		var seq string
		if pos == 0 {
			// a=T transmit+display, f=100 PNG, t=d direct payload
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(w, seq); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// sendInlineImage emits the iTerm2-style inline image OSC 1337 sequence.
func sendInlineImage(w io.Writer, data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	name := "preview.png"
	if format == "jpeg" {
		name = "preview.jpg"
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=" + base64.StdEncoding.EncodeToString([]byte(name)) + ";inline=1;" + meta + ":" +
		base64.StdEncoding.EncodeToString(data) + "\a\n"
	_, err := io.WriteString(w, seq)
	return err
}
