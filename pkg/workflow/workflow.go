// Package workflow ties selection, validation, request building, transport,
// response handling and status reporting into the two submission workflows.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/payload"
	"github.com/dtnitsch/docmark/pkg/response"
	"github.com/dtnitsch/docmark/pkg/selector"
	"github.com/dtnitsch/docmark/pkg/status"
	"github.com/dtnitsch/docmark/pkg/storage"
	"github.com/dtnitsch/docmark/pkg/transport"
	"github.com/dtnitsch/docmark/pkg/validator"
)

// Attempt records what happened during one submission. When Invalid is set
// nothing was sent and Outcome is nil.
type Attempt struct {
	Invalid   *validator.Error
	Outcome   *models.Outcome
	SavedPath string
	Status    status.Status
}

// OK reports whether the attempt ended with a saved file.
func (a *Attempt) OK() bool {
	return a.Status.Kind == status.KindSuccess
}

// Deps are the collaborators shared by both workflow kinds.
type Deps struct {
	Client    *transport.Client
	Reporter  status.Reporter
	Storage   *storage.Storage
	OutputDir string
	Logger    *slog.Logger
}

func (d *Deps) normalize() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Storage == nil {
		d.Storage = &storage.Storage{}
	}
	if d.Reporter == nil {
		d.Reporter = &status.Recorder{}
	}
	if d.OutputDir == "" {
		d.OutputDir = models.DefaultOutputDir
	}
}

// Extract is the detect-and-filter workflow instance.
type Extract struct {
	Selector *selector.ExtractSelector
	deps     Deps
	handler  *response.Handler
	messages Messages
}

func NewExtract(sel *selector.ExtractSelector, deps Deps) *Extract {
	deps.normalize()
	return &Extract{
		Selector: sel,
		deps:     deps,
		messages: ExtractMessages,
		handler: &response.Handler{
			DefaultFilename: DefaultExtractFilename,
			DefaultMessage:  ExtractMessages.Failure,
			InspectFilename: true,
			Logger:          deps.Logger,
		},
	}
}

// Submit runs one extract attempt against the current selection.
func (w *Extract) Submit(ctx context.Context, input models.ExtractInput) (*Attempt, error) {
	opts := w.Selector.Options()
	if verr := validator.ValidateExtract(opts, input); verr != nil {
		return w.deps.reject(w.messages, verr), nil
	}
	p := payload.BuildExtract(opts, input)
	w.deps.Logger.Debug("workflow.submit", "workflow", "extract", "mode", opts.Mode, "output_mode", p.Value(payload.FieldOutputMode))
	return w.deps.send(ctx, transport.EndpointFilterByMode, p, w.handler, w.messages)
}

// Stamp is the stamp/signature/QR placement workflow instance.
type Stamp struct {
	Selector *selector.StampSelector
	deps     Deps
	handler  *response.Handler
	messages Messages
}

func NewStamp(sel *selector.StampSelector, deps Deps) *Stamp {
	deps.normalize()
	return &Stamp{
		Selector: sel,
		deps:     deps,
		messages: StampMessages,
		handler: &response.Handler{
			DefaultFilename: StampFilename,
			DefaultMessage:  StampMessages.Failure,
			Logger:          deps.Logger,
		},
	}
}

// Submit runs one stamp attempt against the current selection.
func (w *Stamp) Submit(ctx context.Context, input models.StampInput) (*Attempt, error) {
	if verr := validator.ValidateStamp(input); verr != nil {
		return w.deps.reject(w.messages, verr), nil
	}
	opts := w.Selector.Options()
	p := payload.BuildStamp(opts, input)
	w.deps.Logger.Debug("workflow.submit", "workflow", "stamp", "position", p.Value(payload.FieldPosition), "fields", len(p.Fields))
	return w.deps.send(ctx, transport.EndpointStamp, p, w.handler, w.messages)
}

func (d *Deps) reject(msgs Messages, verr *validator.Error) *Attempt {
	st := status.Error(msgs.forValidation(verr))
	d.Reporter.Report(st)
	return &Attempt{Invalid: verr, Status: st}
}

// send posts p, resolves the response and reports exactly one terminal
// status. Only failures outside the outcome taxonomy are returned as errors.
func (d *Deps) send(ctx context.Context, endpoint transport.Endpoint, p *payload.Payload, h *response.Handler, msgs Messages) (*Attempt, error) {
	d.Reporter.Report(status.Pending(msgs.Pending))

	resp, err := d.Client.Post(ctx, endpoint, p)
	if errors.Is(err, transport.ErrPayload) || errors.Is(err, transport.ErrUnknownEndpoint) {
		d.Reporter.Report(status.Error(err.Error()))
		return nil, err
	}

	outcome := h.Resolve(resp, err)
	attempt := &Attempt{Outcome: &outcome}

	switch outcome.Kind {
	case models.OutcomeSuccess:
		path, err := d.save(outcome)
		if err != nil {
			attempt.Status = status.Error(err.Error())
			d.Reporter.Report(attempt.Status)
			return attempt, err
		}
		attempt.SavedPath = path
		attempt.Status = status.Success(msgs.Success)
	case models.OutcomeFailure:
		attempt.Status = status.Error(outcome.Message)
	default:
		d.Logger.Debug("workflow.network_error", "endpoint", endpoint, "error", outcome.Err)
		attempt.Status = status.Error(msgs.Network)
	}

	d.Reporter.Report(attempt.Status)
	return attempt, nil
}

func (d *Deps) save(outcome models.Outcome) (string, error) {
	replacing := d.Storage.HasFile(filepath.Join(d.OutputDir, filepath.Base(outcome.Filename)))
	path, err := d.Storage.SaveArtifact(d.OutputDir, outcome.Filename, outcome.Body)
	if err != nil {
		return "", fmt.Errorf("could not save %s: %w", outcome.Filename, err)
	}
	attrs := []any{"path", path, "replaced", replacing}
	if stats, err := d.Storage.GetFileStats(path); err == nil {
		attrs = append(attrs, "bytes", stats.SizeBytes)
	}
	d.Logger.Info("workflow.saved", attrs...)
	return path, nil
}
