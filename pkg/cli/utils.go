package cli

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/stdimg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"
)

// promptLine displays a prompt on w and reads one line from r.
// The returned string is trimmed of surrounding whitespace.
func promptLine(r io.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// openInput returns a reader for path. "-" means stdin, which the caller
// must not close.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// LoadImage decodes the image at path and returns it with the name of the
// decoder that read it (png, jpeg, gif, bmp, tiff or webp).
func LoadImage(path string) (image.Image, string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// canEncode reports whether SaveImage has an encoder for ext.
func canEncode(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// SaveImage encodes img into path, choosing the format from the extension.
// Unknown extensions are written as PNG.
func SaveImage(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := encodeImage(w, strings.ToLower(filepath.Ext(path)), img); err != nil {
		return err
	}
	return w.Flush()
}

func encodeImage(w io.Writer, ext string, img image.Image) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return png.Encode(w, img)
	}
}

// GetImageInfoImage returns a short info string for an image.Image. format
// is the decoder name returned by LoadImage and may be empty.
func GetImageInfoImage(img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	if format == "" {
		format = "unknown"
	}
	b := img.Bounds()
	return fmt.Sprintf("Format: %s, Mode: %s, Width: %d, Height: %d",
		strings.ToUpper(format), stdimg.NaturalMode(img), b.Dx(), b.Dy()), nil
}
