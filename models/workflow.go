package models

import "os"

// ExtractOptions is the selection state of the extract workflow.
// An empty Mode or OutputMode means nothing has been selected yet.
type ExtractOptions struct {
	Mode         Mode       `yaml:"mode,omitempty"`
	OutputMode   OutputMode `yaml:"output_mode,omitempty"`
	IncludeClean bool       `yaml:"include_clean"`
}

// StampOptions is the selection state of the stamp workflow.
type StampOptions struct {
	Position Position `yaml:"position,omitempty"`
}

// ExtractInput holds the files chosen for one extract submission.
type ExtractInput struct {
	PDF string `yaml:"pdf"`
}

// Image is an auxiliary attachment paired with an opaque page selector
// (for example "1-3" or "all"). The selector is passed through untouched.
type Image struct {
	Path  string `yaml:"path"`
	Pages string `yaml:"pages,omitempty"`
}

// StampInput holds the files chosen for one stamp submission.
type StampInput struct {
	PDF    string         `yaml:"pdf"`
	Images map[Slot]Image `yaml:"images,omitempty"`
}

// Attached reports whether path names an existing regular file. A missing
// path, a directory or an empty string all count as no file.
func Attached(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
