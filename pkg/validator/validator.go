// Package validator performs the pre-flight checks that run before any
// request is built. At most one error is reported per attempt.
package validator

import "github.com/dtnitsch/docmark/models"

// Kind identifies which pre-flight check failed.
type Kind string

const (
	KindNoMode   Kind = "no-mode"
	KindNoFile   Kind = "no-file"
	KindNoImages Kind = "no-images"
)

// Error is a locally detected validation failure. It never reaches the network.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return "validation failed: " + string(e.Kind)
}

// ValidateExtract checks the mode first, then the primary PDF.
func ValidateExtract(opts models.ExtractOptions, input models.ExtractInput) *Error {
	if opts.Mode == "" {
		return &Error{Kind: KindNoMode}
	}
	if !models.Attached(input.PDF) {
		return &Error{Kind: KindNoFile}
	}
	return nil
}

// ValidateStamp checks the primary PDF first, then that at least one
// auxiliary image slot is populated.
func ValidateStamp(input models.StampInput) *Error {
	if !models.Attached(input.PDF) {
		return &Error{Kind: KindNoFile}
	}
	for _, slot := range models.Slots {
		if models.Attached(input.Images[slot].Path) {
			return nil
		}
	}
	return &Error{Kind: KindNoImages}
}
