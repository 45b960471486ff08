package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntemspark/telm/internal/config"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.gotName = name
	r.gotArgs = args
	return r.stdout, r.stderr, r.err
}

func pngBytes(tag string) []byte {
	return append(append([]byte{}, pngMagic...), tag...)
}

func testHolder() *config.ExtractionHolder {
	h := &config.ExtractionHolder{}
	h.Store(config.DefaultExtractionConfig())
	return h
}

func TestSniffImageFormat(t *testing.T) {
	ext, ok := SniffImageFormat(pngBytes("x"))
	assert.True(t, ok)
	assert.Equal(t, "png", ext)

	ext, ok = SniffImageFormat(append([]byte{0xFF, 0xD8, 0xFF}, 0xE0))
	assert.True(t, ok)
	assert.Equal(t, "jpg", ext)

	_, ok = SniffImageFormat([]byte("%PDF-1.7"))
	assert.False(t, ok)
}

func TestTesseractEngineRecognize(t *testing.T) {
	runner := &stubRunner{stdout: []byte("Vendor: Acme Corp\n\n")}
	eng := NewTesseractEngineWithRunner(testHolder(), runner)

	var pcts []int
	text, err := eng.Recognize(context.Background(), pngBytes("img"), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.NoError(t, err)
	assert.Equal(t, "Vendor: Acme Corp", text)

	assert.Equal(t, "tesseract", runner.gotName)
	assert.Contains(t, runner.gotArgs, "stdout")
	assert.Contains(t, runner.gotArgs, "-l")
	assert.Contains(t, runner.gotArgs, "eng")

	require.NotEmpty(t, pcts)
	assert.Equal(t, 100, pcts[len(pcts)-1])
}

func TestTesseractEngineRejectsInput(t *testing.T) {
	eng := NewTesseractEngineWithRunner(testHolder(), &stubRunner{})

	_, err := eng.Recognize(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = eng.Recognize(context.Background(), []byte("%PDF-1.7 not an image"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	h := testHolder()
	cfg := config.DefaultExtractionConfig()
	cfg.MaxImageBytes = 4
	h.Store(cfg)
	eng = NewTesseractEngineWithRunner(h, &stubRunner{})
	_, err = eng.Recognize(context.Background(), pngBytes("too big"), nil)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestTesseractEngineFailure(t *testing.T) {
	runner := &stubRunner{stderr: []byte("Error in pixReadStream"), err: errors.New("exit status 1")}
	eng := NewTesseractEngineWithRunner(testHolder(), runner)

	_, err := eng.Recognize(context.Background(), pngBytes("corrupt"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixReadStream")
}

func TestTesseractEngineTessdataDir(t *testing.T) {
	h := testHolder()
	cfg := config.DefaultExtractionConfig()
	cfg.TessdataDir = "/usr/share/tessdata"
	h.Store(cfg)

	runner := &stubRunner{stdout: []byte("ok")}
	eng := NewTesseractEngineWithRunner(h, runner)

	_, err := eng.Recognize(context.Background(), pngBytes("img"), nil)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(runner.gotArgs, " "), "--tessdata-dir /usr/share/tessdata")
}
