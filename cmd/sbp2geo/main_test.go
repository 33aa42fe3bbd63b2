package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
)

func writeSBP(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.sbp")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func sampleFile() []byte {
	var pts []sbp.RawPoint
	for i := 0; i < 5; i++ {
		p := sbp.RawPoint{
			Date:      sbp.EncodePackedDate(2021, time.June, 15, 10, 20, 30+i),
			Latitude:  10000000,
			Longitude: 20000000 + int32(i)*1000,
			Altitude:  150,
		}
		if i == 0 || i == 3 {
			p.Flags = 0x01
		}
		pts = append(pts, p)
	}
	return sbp.EncodeFile(pts...)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PullAndStreamAgree(t *testing.T) {
	path := writeSBP(t, sampleFile())

	code, pull, stderr := runCLI(t, path)
	if code != 0 {
		t.Fatalf("pull exit=%d stderr=%s", code, stderr)
	}
	code, stream, stderr := runCLI(t, "-stream", "-chunk", "5", path)
	if code != 0 {
		t.Fatalf("stream exit=%d stderr=%s", code, stderr)
	}
	if pull != stream {
		t.Fatalf("pull and stream output differ:\n%s\n---\n%s", pull, stream)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal([]byte(pull), &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features=%d want 2", len(fc.Features))
	}
	if !strings.Contains(pull, "\n  \"features\"") {
		t.Fatalf("expected pretty output")
	}
}

func TestRun_Compact(t *testing.T) {
	path := writeSBP(t, sampleFile())
	code, out, _ := runCLI(t, "-compact", path)
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("expected single-line output")
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := writeSBP(t, sampleFile())
	out := filepath.Join(t.TempDir(), "out.json")

	code, stdout, stderr := runCLI(t, "-o", out, path)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr)
	}
	if stdout != "" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !bytes.Contains(b, []byte(`"FeatureCollection"`)) {
		t.Fatalf("unexpected output: %s", b)
	}
}

func TestRun_TruncatedLeavesNoOutput(t *testing.T) {
	path := writeSBP(t, append(sampleFile(), make([]byte, 17)...))
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	code, _, stderr := runCLI(t, "-o", out, path)
	if code != 1 {
		t.Fatalf("exit=%d want 1", code)
	}
	if !strings.Contains(stderr, "truncated_record") {
		t.Fatalf("stderr=%q", stderr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("output dir not empty: %v", entries)
	}
}

func TestRun_TruncatedHeader(t *testing.T) {
	path := writeSBP(t, make([]byte, 12))
	code, stdout, stderr := runCLI(t, path)
	if code != 1 || stdout != "" {
		t.Fatalf("exit=%d stdout=%q", code, stdout)
	}
	if !strings.Contains(stderr, "truncated_header") {
		t.Fatalf("stderr=%q", stderr)
	}
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 {
		t.Fatalf("exit=%d want 2", code)
	}
	if !strings.Contains(stderr, "Usage: sbp2geo") {
		t.Fatalf("stderr=%q", stderr)
	}
}

func TestRun_MissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing.sbp"))
	if code != 1 || !strings.Contains(stderr, "missing.sbp") {
		t.Fatalf("exit=%d stderr=%q", code, stderr)
	}
}

func TestRun_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("input:\n  mode: bogus\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	code, _, stderr := runCLI(t, "-config", cfgPath, writeSBP(t, sampleFile()))
	if code != 2 || !strings.Contains(stderr, "input.mode") {
		t.Fatalf("exit=%d stderr=%q", code, stderr)
	}
}

func TestRun_Summary(t *testing.T) {
	path := writeSBP(t, sampleFile())
	code, out, _ := runCLI(t, "-summary", path)
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	for _, want := range []string{"tracks: 2\n", "points: 5\n", "dropped_single_point_tracks: 0\n", "2021515102030: points=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
