// Package batch runs several independent submissions described in a YAML
// job file. Every job gets its own workflow instance and status sink; jobs
// share nothing but the HTTP client.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/selector"
	"github.com/dtnitsch/docmark/pkg/status"
	"github.com/dtnitsch/docmark/pkg/storage"
	"github.com/dtnitsch/docmark/pkg/transport"
	"github.com/dtnitsch/docmark/pkg/workflow"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownWorkflow = errors.New("unknown workflow")
	// ErrJobName marks a name that cannot be used as a directory name or is
	// not unique within the file.
	ErrJobName = errors.New("invalid job name")
)

// Job describes one submission.
type Job struct {
	Name         string        `yaml:"name"`
	Workflow     string        `yaml:"workflow"`
	PDF          string        `yaml:"pdf"`
	Mode         string        `yaml:"mode,omitempty"`
	OutputMode   string        `yaml:"output_mode,omitempty"`
	IncludeClean bool          `yaml:"include_clean,omitempty"`
	Stamp        *models.Image `yaml:"stamp,omitempty"`
	Signature    *models.Image `yaml:"signature,omitempty"`
	QR           *models.Image `yaml:"qr,omitempty"`
	Position     string        `yaml:"position,omitempty"`
	OutputDir    string        `yaml:"output_dir,omitempty"`
}

// File is the top-level layout of a job file.
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// Load reads and parses a job file.
func Load(path string) ([]Job, error) {
	data, err := (&storage.Storage{}).ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a job file and checks the option names of every job.
// Missing inputs are left for the workflow validator to report.
func Parse(data []byte) ([]Job, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("job file has no jobs")
	}

	names := make(map[string]bool, len(f.Jobs))
	dirs := make(map[string]bool, len(f.Jobs))
	for i := range f.Jobs {
		job := &f.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if err := checkName(job.Name); err != nil {
			return nil, err
		}
		if names[job.Name] {
			return nil, fmt.Errorf("%w: %q used more than once", ErrJobName, job.Name)
		}
		names[job.Name] = true

		if job.OutputDir != "" {
			dir := filepath.Clean(job.OutputDir)
			if dirs[dir] {
				return nil, fmt.Errorf("%s: output_dir %q shared with another job", job.Name, job.OutputDir)
			}
			dirs[dir] = true
		}
		if err := job.check(); err != nil {
			return nil, fmt.Errorf("%s: %w", job.Name, err)
		}
	}
	return f.Jobs, nil
}

// checkName rejects names that would not stay a single directory below the
// batch output directory.
func checkName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrJobName, name)
	}
	return nil
}

func (j *Job) check() error {
	switch j.Workflow {
	case "extract":
		if j.Mode != "" {
			if _, err := models.ParseMode(j.Mode); err != nil {
				return err
			}
		}
		if j.OutputMode != "" {
			if _, err := models.ParseOutputMode(j.OutputMode); err != nil {
				return err
			}
		}
	case "stamp":
		if j.Position != "" {
			if _, err := models.ParsePosition(j.Position); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownWorkflow, j.Workflow)
	}
	return nil
}

func (j *Job) stampInput() models.StampInput {
	input := models.StampInput{PDF: j.PDF, Images: map[models.Slot]models.Image{}}
	for slot, img := range map[models.Slot]*models.Image{
		models.SlotStamp:     j.Stamp,
		models.SlotSignature: j.Signature,
		models.SlotQR:        j.QR,
	} {
		if img != nil {
			input.Images[slot] = *img
		}
	}
	return input
}

// Report is the result of one job.
type Report struct {
	Job     Job
	Attempt *workflow.Attempt
	Status  status.Status
	Err     error
}

// Runner executes jobs concurrently.
type Runner struct {
	Client    *transport.Client
	OutputDir string
	Workers   int
	// Out receives one status line per report when set.
	Out    io.Writer
	Logger *slog.Logger
}

// Run submits every job and waits for all of them. Reports are returned in
// job order. One job failing never stops the others.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Report {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = models.DefaultWorkers
	}

	var out io.Writer
	if r.Out != nil {
		out = &lockedWriter{w: r.Out}
	}

	reports := make([]Report, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			reports[i] = r.runJob(ctx, job, out, logger.With("job", job.Name))
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func (r *Runner) runJob(ctx context.Context, job Job, out io.Writer, logger *slog.Logger) Report {
	rec := &status.Recorder{}
	var reporter status.Reporter = rec
	if out != nil {
		reporter = status.Tee{rec, status.NewConsole(out, job.Name)}
	}

	outDir := job.OutputDir
	if outDir == "" {
		base := r.OutputDir
		if base == "" {
			base = models.DefaultOutputDir
		}
		outDir = filepath.Join(base, job.Name)
	}
	deps := workflow.Deps{
		Client:    r.Client,
		Reporter:  reporter,
		OutputDir: outDir,
		Logger:    logger,
	}

	var attempt *workflow.Attempt
	var err error
	switch job.Workflow {
	case "extract":
		sel := selector.NewExtractSelector(nil, logger)
		if job.Mode != "" {
			mode, _ := models.ParseMode(job.Mode)
			sel.SelectMode(mode)
		}
		if job.OutputMode != "" {
			om, _ := models.ParseOutputMode(job.OutputMode)
			sel.SelectOutputMode(om)
		}
		sel.SetIncludeClean(job.IncludeClean)
		attempt, err = workflow.NewExtract(sel, deps).Submit(ctx, models.ExtractInput{PDF: job.PDF})
	case "stamp":
		sel := selector.NewStampSelector(nil, logger)
		if job.Position != "" {
			pos, _ := models.ParsePosition(job.Position)
			sel.SelectPosition(pos)
		}
		attempt, err = workflow.NewStamp(sel, deps).Submit(ctx, job.stampInput())
	default:
		err = fmt.Errorf("%w %q", ErrUnknownWorkflow, job.Workflow)
		reporter.Report(status.Error(err.Error()))
	}

	return Report{Job: job, Attempt: attempt, Status: rec.Current(), Err: err}
}

// lockedWriter serializes status lines from concurrent jobs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Failed counts reports that did not end in success.
func Failed(reports []Report) int {
	n := 0
	for _, rep := range reports {
		if rep.Status.Kind != status.KindSuccess {
			n++
		}
	}
	return n
}
