package workflow

import "github.com/dtnitsch/docmark/pkg/validator"

// Messages are the user-visible status strings of one workflow instance.
type Messages struct {
	NoMode   string
	NoFile   string
	NoImages string
	Pending  string
	Failure  string
	Network  string
	Success  string
}

var ExtractMessages = Messages{
	NoMode:  "Select a mode first!",
	NoFile:  "Upload a PDF.",
	Pending: "Processing PDF...",
	Failure: "PDF processing error.",
	Network: "Could not connect to the server.",
	Success: "Done! File saved.",
}

var StampMessages = Messages{
	NoFile:   "Upload the source PDF.",
	NoImages: "Select at least one image.",
	Pending:  "Creating PDF...",
	Failure:  "Error while adding elements.",
	Network:  "Could not connect to the server.",
	Success:  "Done! File saved.",
}

func (m Messages) forValidation(err *validator.Error) string {
	switch err.Kind {
	case validator.KindNoMode:
		return m.NoMode
	case validator.KindNoFile:
		return m.NoFile
	case validator.KindNoImages:
		return m.NoImages
	}
	return err.Error()
}

const (
	DefaultExtractFilename = "result.pdf"
	StampFilename          = "stamped_document.pdf"
)
