package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/status"
	"github.com/dtnitsch/docmark/pkg/transport"
	"github.com/dtnitsch/docmark/pkg/workflow"
)

func TestParse(t *testing.T) {
	data := []byte(`
jobs:
  - workflow: extract
    pdf: a.pdf
    mode: qr_only
    output_mode: split
    include_clean: true
  - name: signed
    workflow: stamp
    pdf: b.pdf
    signature:
      path: sig.png
      pages: "1-3"
    position: top-left
`)
	jobs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "job-1" || jobs[0].Mode != "qr_only" || !jobs[0].IncludeClean {
		t.Errorf("jobs[0] = %+v", jobs[0])
	}
	if jobs[1].Name != "signed" || jobs[1].Signature == nil || jobs[1].Signature.Pages != "1-3" {
		t.Errorf("jobs[1] = %+v", jobs[1])
	}

	input := jobs[1].stampInput()
	if len(input.Images) != 1 {
		t.Errorf("stamp input images = %v, want only signature", input.Images)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", `jobs: []`},
		{"bad yaml", `jobs: [`},
		{"unknown workflow", "jobs:\n  - workflow: merge\n"},
		{"unknown mode", "jobs:\n  - workflow: extract\n    mode: everything\n"},
		{"unknown position", "jobs:\n  - workflow: stamp\n    position: center\n"},
		{"parent dir name", "jobs:\n  - name: ../../x\n    workflow: extract\n"},
		{"dot dot name", "jobs:\n  - name: ..\n    workflow: extract\n"},
		{"nested name", "jobs:\n  - name: a/b\n    workflow: extract\n"},
		{"backslash name", "jobs:\n  - name: 'a\\b'\n    workflow: extract\n"},
		{"duplicate name", "jobs:\n  - name: dup\n    workflow: extract\n  - name: dup\n    workflow: stamp\n"},
		{"explicit name clashes with default", "jobs:\n  - workflow: extract\n  - name: job-1\n    workflow: stamp\n"},
		{"shared output dir", "jobs:\n  - workflow: extract\n    output_dir: out\n  - workflow: stamp\n    output_dir: ./out/\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}

	_, err := Parse([]byte("jobs:\n  - workflow: merge\n"))
	if !errors.Is(err, ErrUnknownWorkflow) {
		t.Errorf("Parse() error = %v, want ErrUnknownWorkflow", err)
	}
	for _, data := range []string{
		"jobs:\n  - name: ../../x\n    workflow: extract\n",
		"jobs:\n  - name: dup\n    workflow: extract\n  - name: dup\n    workflow: extract\n",
	} {
		if _, err := Parse([]byte(data)); !errors.Is(err, ErrJobName) {
			t.Errorf("Parse(%q) error = %v, want ErrJobName", data, err)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	pdf := filepath.Join(inDir, "in.pdf")
	img := filepath.Join(inDir, "qr.png")
	for _, p := range []string{pdf, img} {
		if err := os.WriteFile(p, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/api/stamp" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"bad pdf"}`))
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="filtered_qr_only.pdf"`)
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var out bytes.Buffer
	runner := &Runner{
		Client:    transport.NewClient(srv.URL+"/api", logger),
		OutputDir: outDir,
		Workers:   2,
		Out:       &out,
		Logger:    logger,
	}

	jobs := []Job{
		{Name: "filter", Workflow: "extract", PDF: pdf, Mode: "qr_only"},
		{Name: "stamp", Workflow: "stamp", PDF: pdf, QR: &models.Image{Path: img}},
		{Name: "nomode", Workflow: "extract", PDF: pdf},
	}
	reports := runner.Run(context.Background(), jobs)

	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	if reports[0].Status.Kind != status.KindSuccess {
		t.Errorf("filter status = %v", reports[0].Status)
	}
	if want := filepath.Join(outDir, "filter", "filtered_qr_only.pdf"); reports[0].Attempt.SavedPath != want {
		t.Errorf("filter saved to %q, want %q", reports[0].Attempt.SavedPath, want)
	}
	if reports[1].Status != status.Error("bad pdf") {
		t.Errorf("stamp status = %v, want error bad pdf", reports[1].Status)
	}
	if reports[2].Status != status.Error(workflow.ExtractMessages.NoMode) {
		t.Errorf("nomode status = %v", reports[2].Status)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server called %d times, want 2", n)
	}
	if got := Failed(reports); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}
	if !strings.Contains(out.String(), "stamp: bad pdf") {
		t.Errorf("console output missing stamp status:\n%s", out.String())
	}
}
