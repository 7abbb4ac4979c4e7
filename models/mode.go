package models

import "fmt"

// Mode represents how the input document is published.
type Mode int

const (
	// ModeAuto picks single or directory based on total payload size.
	ModeAuto Mode = iota
	ModeSingle    // Copy the document verbatim
	ModeDirectory // Always externalize into a viewer directory
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeSingle:
		return "single"
	case ModeDirectory:
		return "directory"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a CLI mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "single":
		return ModeSingle, nil
	case "directory":
		return ModeDirectory, nil
	}
	return ModeAuto, fmt.Errorf("invalid mode %q (use auto, single, or directory)", s)
}
