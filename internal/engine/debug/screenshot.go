// Package debug provides screenshot capture and traversal visualization.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/bspview/internal/engine/framebuffer"
)

// ErrUnknownFormat is returned for screenshot formats other than png and bmp.
var ErrUnknownFormat = errors.New("unknown screenshot format")

// Screenshot formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// ScreenshotCapture handles screenshot capture functionality.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix, format string) (*ScreenshotCapture, error) {
	if format == "" {
		format = FormatPNG
	}
	format, err := checkFormat(format)
	if err != nil {
		return nil, err
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}, nil
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// Format returns the file format screenshots are written in.
func (sc *ScreenshotCapture) Format() string {
	return sc.format
}

// CaptureFrame writes fb, expanded through pal, to a new timestamped file.
func (sc *ScreenshotCapture) CaptureFrame(fb *framebuffer.Framebuffer, pal color.Palette) (string, error) {
	return sc.CaptureFromImage(fb.Paletted(pal))
}

// CaptureFromImage captures a screenshot from an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := sc.GenerateFilename()
	if err := SaveImage(filename, sc.format, img); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", sc.prefix, timestamp, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// SaveImage writes img to path. An empty format is taken from the file
// extension. Nothing is created for an unknown format.
func SaveImage(path, format string, img image.Image) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format, err := checkFormat(format)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, format, img); err != nil {
		return err
	}
	return file.Close()
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, format string, img image.Image) error {
	format, err := checkFormat(format)
	if err != nil {
		return err
	}
	if format == FormatBMP {
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding BMP: %w", err)
		}
		return nil
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// checkFormat lower-cases format and rejects anything but png and bmp.
func checkFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case FormatPNG, FormatBMP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
