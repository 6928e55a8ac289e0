// Package response resolves a transport result into a models.Outcome.
package response

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/transport"
)

var dispositionFilename = regexp.MustCompile(`filename="?(.*?)"?$`)

// Handler interprets responses for one workflow.
type Handler struct {
	// DefaultFilename names the saved file when no usable name is found.
	DefaultFilename string
	// DefaultMessage is reported for error responses without a usable message.
	DefaultMessage string
	// InspectFilename enables Content-Disposition parsing. When false the
	// default filename is always used.
	InspectFilename bool
	Logger          *slog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

// Resolve maps the result of a transport call to exactly one outcome.
// A non-nil err always yields a network error, whatever resp holds.
func (h *Handler) Resolve(resp *transport.Response, err error) models.Outcome {
	if err != nil || resp == nil {
		return models.Unreachable(err)
	}
	if !resp.OK() {
		return models.Failed(resp.StatusCode, h.errorMessage(resp))
	}

	filename := h.DefaultFilename
	if h.InspectFilename {
		if name, ok := FilenameFromDisposition(resp.Header.Get("Content-Disposition")); ok {
			filename = name
		}
	}
	return models.Succeeded(resp.Body, filename)
}

// errorMessage returns the body's "error" field, or the default message when
// the body is not a JSON object carrying one. Parse failures are not reported.
func (h *Handler) errorMessage(resp *transport.Response) string {
	var parsed errorBody
	if err := json.Unmarshal(resp.Body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	h.trace(resp)
	return h.DefaultMessage
}

// trace logs what an unlabeled error body looked like. HTML error pages
// contribute their title.
func (h *Handler) trace(resp *transport.Response) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"status", resp.StatusCode, "bytes", len(resp.Body)}
	if strings.Contains(resp.Header.Get("Content-Type"), "html") || bytes.Contains(resp.Body, []byte("<html")) {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body)); err == nil {
			attrs = append(attrs, "title", strings.TrimSpace(doc.Find("title").First().Text()))
		}
	}
	logger.Debug("response.unlabeled_error", attrs...)
}

// FilenameFromDisposition extracts the filename from a Content-Disposition
// value. Quotes around the name are optional.
func FilenameFromDisposition(header string) (string, bool) {
	m := dispositionFilename.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
