package models

import "fmt"

// Source identifies the ticketing platform an event was exported from.
type Source string

const (
	SourceAll        Source = "All"
	SourceEventBrite Source = "EventBrite"
	SourceEventim    Source = "Eventim"
)

// Display colors for map points, one per platform.
const (
	ColorEventBrite = "#cf663f"
	ColorEventim    = "#232864"
)

// Platforms lists the concrete sources in load order.
var Platforms = []Source{SourceEventBrite, SourceEventim}

// SourceOptions lists the selector values, "All" first.
var SourceOptions = []Source{SourceAll, SourceEventBrite, SourceEventim}

// ParseSource resolves a selector value. An empty string means All.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return SourceAll, nil
	}
	for _, src := range SourceOptions {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// Color returns the display color tied to a platform.
func (s Source) Color() string {
	switch s {
	case SourceEventBrite:
		return ColorEventBrite
	case SourceEventim:
		return ColorEventim
	default:
		return ""
	}
}
