package batch

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"layoutplan/internal/config"
	"layoutplan/internal/geom"
	"layoutplan/internal/joblist"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunPlansJobs(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 400, 300)
	writePNG(t, filepath.Join(dir, "b.png"), 100, 100)

	cfg := config.Config{
		SourceDir:   dir,
		OutputDir:   filepath.Join(dir, "plans"),
		Workers:     2,
		Subsampling: "420",
	}
	jobs := []joblist.Job{
		{File: "a.png", Ops: []joblist.OpSpec{{Op: "fit", W: 200, H: 150}}},
		{File: "b.png", Ops: []joblist.OpSpec{{Op: "aspect_crop", W: 1, H: 1}}},
		{File: "missing.png", Ops: []joblist.OpSpec{{Op: "fit", W: 10, H: 10}}},
	}

	results := Run(cfg, jobs)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if !results[0].Success || !results[1].Success {
		t.Errorf("expected first two jobs to succeed: %+v", results[:2])
	}
	if results[2].Success {
		t.Error("missing file must fail")
	}

	var plan PlanFile
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "a.plan.json"))
	if err != nil {
		t.Fatalf("reading plan: %v", err)
	}
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("parsing plan: %v", err)
	}
	if plan.Plan.Canvas != (geom.Size{W: 200, H: 150}) {
		t.Errorf("canvas = %+v, want 200x150", plan.Plan.Canvas)
	}
	if plan.Source.Width != 400 || plan.Source.Height != 300 {
		t.Errorf("source = %+v", plan.Source)
	}
}

func TestAppendDefaults(t *testing.T) {
	cfg := config.Config{MaxWidth: 1000, MaxHeight: 1000, AlignMode: "extend", AlignX: 16, AlignY: 16}
	job := joblist.Job{Ops: []joblist.OpSpec{{Op: "fit", W: 2000, H: 2000}}}
	cmds, err := joblist.Commands(job, 0)
	if err != nil {
		t.Fatal(err)
	}
	out := appendDefaults(cfg, job, cmds)
	if len(out) != 3 {
		t.Fatalf("got %d commands, want fit+max+align", len(out))
	}

	// A job-level max suppresses the default.
	job.Ops = append(job.Ops, joblist.OpSpec{Op: "max", W: 500, H: 500})
	cmds, err = joblist.Commands(job, 0)
	if err != nil {
		t.Fatal(err)
	}
	out = appendDefaults(cfg, job, cmds)
	if len(out) != 3 { // fit + max + default align
		t.Fatalf("got %d commands, want 3", len(out))
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	results := []Result{
		{Name: "a", File: "a.png", Success: true},
		{Name: "b", File: "b.png", Error: "boom"},
	}
	if err := WriteManifest(path, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	var entries []ManifestEntry
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Plan != "a.plan.json" || entries[1].Error != "boom" {
		t.Errorf("entries = %+v", entries)
	}
}
