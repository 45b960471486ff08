// Package ocr turns uploaded image bytes into recognized text. Recognition
// shells out to the tesseract binary so deployments can swap language packs
// without rebuilding, and every attempt is tracked by a Session that keeps
// progress, results and attempt ordering consistent under concurrent uploads.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ntemspark/telm/internal/config"
)

var (
	ErrEmptyImage       = errors.New("empty_image")
	ErrImageTooLarge    = errors.New("image_too_large")
	ErrUnsupportedImage = errors.New("unsupported_image")
)

// Engine performs one synchronous recognition pass over image bytes.
// Implementations report coarse progress through the callback when it is
// non-nil and must honor ctx cancellation.
type Engine interface {
	Recognize(ctx context.Context, image []byte, progress func(pct int)) (string, error)
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// SniffImageFormat inspects magic bytes and returns a file extension for
// supported formats. Only PNG and JPEG are accepted; everything else,
// PDFs included, is rejected before recognition is attempted.
func SniffImageFormat(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "png", true
	case bytes.HasPrefix(data, jpegMagic):
		return "jpg", true
	default:
		return "", false
	}
}

// TesseractEngine recognizes text by invoking the tesseract CLI.
type TesseractEngine struct {
	holder *config.ExtractionHolder
	runner Runner
}

func NewTesseractEngine(holder *config.ExtractionHolder) *TesseractEngine {
	return &TesseractEngine{holder: holder, runner: execRunner{}}
}

// NewTesseractEngineWithRunner is used by tests to stub the binary.
func NewTesseractEngineWithRunner(holder *config.ExtractionHolder, runner Runner) *TesseractEngine {
	return &TesseractEngine{holder: holder, runner: runner}
}

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, progress func(pct int)) (string, error) {
	cfg := e.holder.Get()
	notify := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if cfg.MaxImageBytes > 0 && int64(len(image)) > cfg.MaxImageBytes {
		return "", fmt.Errorf("%w: %d bytes exceed limit %d", ErrImageTooLarge, len(image), cfg.MaxImageBytes)
	}
	ext, ok := SniffImageFormat(image)
	if !ok {
		return "", ErrUnsupportedImage
	}
	notify(10)

	tmp, err := os.CreateTemp("", "telm-ocr-*."+ext)
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp image: %w", err)
	}
	notify(25)

	// tesseract <file> stdout -l <lang>
	args := []string{tmp.Name(), "stdout", "-l", cfg.Language}
	if cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, cfg.TesseractPath, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s: %w", msg, err)
	}
	notify(100)

	return strings.TrimSpace(string(out)), nil
}
