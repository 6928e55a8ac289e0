package models

import (
	"fmt"
	"strings"
)

// Mode selects the server-side detection filter for the extract workflow.
// ModeNone keeps pages with no detected element; ModeStampSignatureQR keeps
// pages with at least one.
type Mode string

const (
	ModeStampOnly        Mode = "stamp_only"
	ModeSignatureOnly    Mode = "signature_only"
	ModeQROnly           Mode = "qr_only"
	ModeStampSignature   Mode = "stamp_signature"
	ModeQRSignature      Mode = "qr_signature"
	ModeNone             Mode = "none"
	ModeStampSignatureQR Mode = "stamp_signature_qr"
)

// Modes lists every mode in display order.
var Modes = []Mode{
	ModeStampOnly,
	ModeSignatureOnly,
	ModeQROnly,
	ModeStampSignature,
	ModeQRSignature,
	ModeNone,
	ModeStampSignatureQR,
}

// ParseMode resolves a user-supplied mode name.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// OutputMode controls whether the extract result is one merged file or split output.
type OutputMode string

const (
	OutputSingle OutputMode = "single"
	OutputSplit  OutputMode = "split"
)

func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case OutputSingle:
		return OutputSingle, nil
	case OutputSplit:
		return OutputSplit, nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}

// Position is the placement applied to every stamp workflow attachment.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

const DefaultPosition = PositionBottomRight

var Positions = []Position{
	PositionTopLeft,
	PositionTopRight,
	PositionBottomLeft,
	PositionBottomRight,
}

func ParsePosition(s string) (Position, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Positions {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Slot names one of the auxiliary image attachments of the stamp workflow.
type Slot string

const (
	SlotStamp     Slot = "stamp"
	SlotSignature Slot = "signature"
	SlotQR        Slot = "qr"
)

// Slots is the fixed order in which auxiliary images are attached.
var Slots = []Slot{SlotStamp, SlotSignature, SlotQR}

// PagesField returns the form field carrying the slot's page selector.
func (s Slot) PagesField() string {
	return string(s) + "_pages"
}
