package ebitenhost

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG lands
// in ScreenshotDir; Screenshots lists every path written so far.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

// Screenshots returns the paths of the PNGs written so far, oldest first.
func (g *Game) Screenshots() []string {
	return append([]string(nil), g.saved...)
}

// flushScreenshots captures screen once for all queued labels. Called at the
// end of Draw.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.shots) == 0 {
		return
	}
	labels := g.shots
	g.shots = nil

	b := screen.Bounds()
	pix := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pix)

	paths, err := saveFrame(straightAlpha(pix, b.Dx(), b.Dy()), g.ScreenshotDir, labels, time.Now())
	g.saved = append(g.saved, paths...)

	logger := g.Host.Board().Config().Logger
	for _, p := range paths {
		logger.Info("screenshot saved", "path", p)
	}
	if err != nil {
		logger.Error("screenshot", "err", err)
	}
}

// straightAlpha converts premultiplied RGBA pixels, as read back from the
// GPU, to an NRGBA image.
func straightAlpha(pix []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		if a == 0 || a == 0xff {
			continue
		}
		for c := i; c < i+3; c++ {
			img.Pix[c] = uint8(min((uint32(img.Pix[c])*0xff+a/2)/a, 0xff))
		}
	}
	return img
}

// saveFrame encodes img once and writes a copy per label into dir, named
// <label>_<stamp>.png. Repeated labels get a numeric suffix. It returns the
// paths that were written, even when some writes fail.
func saveFrame(img image.Image, dir string, labels []string, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("screenshot dir: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}

	stamp := now.Format("20060102-150405.000")
	seen := make(map[string]int, len(labels))
	var (
		paths []string
		errs  []error
	)
	for _, label := range labels {
		name := sanitizeLabel(label)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		p := filepath.Join(dir, name+"_"+stamp+".png")
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, p)
	}
	return paths, errors.Join(errs...)
}

var unsafeLabelChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// sanitizeLabel keeps a label usable as a file name; empty labels become
// "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return unsafeLabelChars.ReplaceAllString(label, "_")
}
