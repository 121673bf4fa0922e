package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/regform/internal/common"
)

type stubRunner struct {
	calls  [][]string
	stdout string
	err    error
	onRun  func(args []string)
}

func (s *stubRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.onRun != nil {
		s.onRun(args)
	}
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	return []byte(s.stdout), nil, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRasterizeOrdersPagesNumerically(t *testing.T) {
	dir := t.TempDir()
	run := &stubRunner{onRun: func(args []string) {
		prefix := args[len(args)-1]
		for _, n := range []string{"10", "2", "1"} {
			if err := os.WriteFile(prefix+"-"+n+".png", nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}}
	r := &Rasterizer{cfg: Config{}.withDefaults(), runner: run, logger: quietLogger()}

	got, err := r.Rasterize(context.Background(), "scans.pdf", dir)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	want := []string{"page-1.png", "page-2.png", "page-10.png"}
	if len(got) != len(want) {
		t.Fatalf("got %d pages, want %d", len(got), len(want))
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("page %d = %s, want %s", i, filepath.Base(got[i]), want[i])
		}
	}
	args := strings.Join(run.calls[0], " ")
	if !strings.HasPrefix(args, "pdftoppm -r 800 -png scans.pdf ") {
		t.Errorf("unexpected command line %q", args)
	}
}

func TestRasterizeNoPages(t *testing.T) {
	r := &Rasterizer{cfg: Config{}.withDefaults(), runner: &stubRunner{}, logger: quietLogger()}
	if _, err := r.Rasterize(context.Background(), "scans.pdf", t.TempDir()); err == nil {
		t.Fatal("expected error when nothing was rendered")
	}
}

func TestRasterizeCommandFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	r := &Rasterizer{cfg: Config{}.withDefaults(), runner: &stubRunner{err: cause}, logger: quietLogger()}
	_, err := r.Rasterize(context.Background(), "scans.pdf", t.TempDir())
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapping %v", err, cause)
	}
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t2000\t3000\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t100\t50\t400\t40\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t100\t50\t200\t40\t96.5\tTypengenehmigung\n" +
	"5\t1\t1\t1\t1\t2\t600\t50\t120\t40\t91\t1AB234\n" +
	"5\t1\t2\t1\t1\t1\t100\t150\t50\t40\t90\tCode\n" +
	"5\t1\t2\t1\t1\t2\t160\t150\t30\t40\t90\tdu\n" +
	"5\t1\t2\t1\t1\t3\t200\t150\t100\t40\t80\ttitulaire\n" +
	"5\t1\t3\t1\t1\t1\t100\t300\t220\t40\t95\t123.456.789\n" +
	"5\t1\t3\t1\t1\t2\t330\t300\t10\t40\t0\t \n"

func TestParseTSV(t *testing.T) {
	words, err := ParseTSV(sampleTSV)
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if len(words) != 6 {
		t.Fatalf("got %d words, want 6", len(words))
	}
	w := words[0]
	if w.Text != "Typengenehmigung" || w.Box != image.Rect(100, 50, 300, 90) || w.Confidence != 0.965 {
		t.Errorf("first word = %+v", w)
	}
}

func TestParseTSVBadNumber(t *testing.T) {
	bad := "header\n5\t1\tx\t1\t1\t1\t0\t0\t1\t1\t90\tword\n"
	if _, err := ParseTSV(bad); err == nil {
		t.Fatal("expected error for non-numeric column")
	}
}

func TestGroupWords(t *testing.T) {
	words, err := ParseTSV(sampleTSV)
	if err != nil {
		t.Fatal(err)
	}
	dets := GroupWords(words)

	var texts []string
	for _, d := range dets {
		texts = append(texts, d.Text)
	}
	want := []string{"Typengenehmigung", "1AB234", "Code du titulaire", "123.456.789"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("phrases = %q, want %q", texts, want)
	}

	owner := dets[2]
	if owner.Box.TopLeft().X != 100 || owner.Box.TopRight().X != 300 || owner.Box.TopLeft().Y != 150 {
		t.Errorf("owner box = %s", owner.Box)
	}
	if owner.Box.Width() != 200 {
		t.Errorf("owner width = %d, want 200", owner.Box.Width())
	}
}

func TestGroupWordsSplitsAcrossLines(t *testing.T) {
	words := []Word{
		{Box: image.Rect(0, 0, 50, 20), Text: "a", Line: 1},
		{Box: image.Rect(55, 30, 100, 50), Text: "b", Line: 2},
	}
	if got := GroupWords(words); len(got) != 2 {
		t.Fatalf("got %d phrases, want 2", len(got))
	}
}

func TestTSVDetectorArgs(t *testing.T) {
	run := &stubRunner{stdout: sampleTSV}
	d := &TSVDetector{
		cfg:    Config{PSM: 11, TessdataDir: "/tess"}.withDefaults(),
		runner: run,
		logger: quietLogger(),
	}
	dets, err := d.Detect(context.Background(), "page-1.png")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(dets) != 4 {
		t.Errorf("got %d detections, want 4", len(dets))
	}
	got := strings.Join(run.calls[0], " ")
	want := "tesseract page-1.png stdout -l deu --psm 11 --tessdata-dir /tess tsv"
	if got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestRasterizeIgnoresStalePages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page-5.png"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	run := &stubRunner{onRun: func(args []string) {
		if err := os.WriteFile(args[len(args)-1]+"-1.png", nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}}
	r := &Rasterizer{cfg: Config{}.withDefaults(), runner: run, logger: quietLogger()}

	got, err := r.Rasterize(context.Background(), "scans.pdf", dir)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "page-1.png" {
		t.Fatalf("pages = %v, want only page-1.png", got)
	}
}

func TestTSVDetectorLogsPageFromContext(t *testing.T) {
	var logs bytes.Buffer
	d := &TSVDetector{
		cfg:    Config{}.withDefaults(),
		runner: &stubRunner{stdout: sampleTSV},
		logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	ctx := common.WithPage(context.Background(), 3)
	if _, err := d.Detect(ctx, "scan-003.jpg"); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !strings.Contains(logs.String(), "page=3") {
		t.Errorf("debug log should carry the page: %s", logs.String())
	}
}
