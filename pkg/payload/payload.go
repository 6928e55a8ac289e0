// Package payload turns validated workflow state into a multipart request body.
package payload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/dtnitsch/docmark/models"
)

const (
	FieldPDF          = "pdf"
	FieldMode         = "mode"
	FieldOutputMode   = "output_mode"
	FieldIncludeClean = "include_clean"
	FieldPosition     = "position"
)

// Field is one multipart part. File parts carry Path and leave Value empty.
type Field struct {
	Name  string
	Value string
	Path  string
}

func (f Field) IsFile() bool { return f.Path != "" }

// Payload is an ordered list of form fields, built fresh for each submission.
type Payload struct {
	Fields []Field
}

func (p *Payload) addFile(name, path string) {
	p.Fields = append(p.Fields, Field{Name: name, Path: path})
}

func (p *Payload) addValue(name, value string) {
	p.Fields = append(p.Fields, Field{Name: name, Value: value})
}

// Has reports whether a field with the given name is present.
func (p *Payload) Has(name string) bool {
	_, ok := p.Field(name)
	return ok
}

func (p *Payload) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the text value of a field, or "" if absent.
func (p *Payload) Value(name string) string {
	f, _ := p.Field(name)
	return f.Value
}

// BuildExtract assembles the detect-filter request. An unset output mode
// falls back to single.
func BuildExtract(opts models.ExtractOptions, input models.ExtractInput) *Payload {
	outputMode := opts.OutputMode
	if outputMode == "" {
		outputMode = models.OutputSingle
	}
	includeClean := "false"
	if opts.IncludeClean {
		includeClean = "true"
	}

	p := &Payload{}
	p.addFile(FieldPDF, input.PDF)
	p.addValue(FieldMode, string(opts.Mode))
	p.addValue(FieldOutputMode, string(outputMode))
	p.addValue(FieldIncludeClean, includeClean)
	return p
}

// BuildStamp assembles the stamp request. A slot contributes its file and
// its <slot>_pages field only when its image is attached; position is always sent.
func BuildStamp(opts models.StampOptions, input models.StampInput) *Payload {
	position := opts.Position
	if position == "" {
		position = models.DefaultPosition
	}

	p := &Payload{}
	p.addFile(FieldPDF, input.PDF)
	for _, slot := range models.Slots {
		img := input.Images[slot]
		if !models.Attached(img.Path) {
			continue
		}
		p.addFile(string(slot), img.Path)
		p.addValue(slot.PagesField(), img.Pages)
	}
	p.addValue(FieldPosition, string(position))
	return p
}

// Encode writes the payload as multipart/form-data and returns the body with
// its Content-Type. File parts are named after the base name of their path.
func (p *Payload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.Fields {
		if !f.IsFile() {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
			}
			continue
		}
		if err := writeFile(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f Field) error {
	src, err := os.Open(filepath.Clean(f.Path))
	if err != nil {
		return fmt.Errorf("open %s attachment: %w", f.Name, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile(f.Name, filepath.Base(f.Path))
	if err != nil {
		return fmt.Errorf("create %s part: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s attachment: %w", f.Name, err)
	}
	return nil
}
