package launcher

import (
	"strconv"
	"strings"
)

// Markers printed by the generation script on stdout.
const (
	ProgressMarker   = "PROGRESS:"
	OutputMarker     = "Output files saved to:"
	ParametersMarker = "Parameters saved to:"
)

type EventKind int

const (
	EventNone EventKind = iota
	EventProgress
	EventOutputDir
	EventParameters
	// EventBadProgress is a PROGRESS line whose value does not parse.
	EventBadProgress
)

type Event struct {
	Kind    EventKind
	Percent float64
	Path    string
}

// ParseLine extracts a protocol event from one line of Blender output. The
// markers may appear anywhere in the line; progress is clamped to 0..100.
func ParseLine(line string) Event {
	if _, rest, ok := strings.Cut(line, ProgressMarker); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return Event{Kind: EventBadProgress, Path: strings.TrimSpace(rest)}
		}
		return Event{Kind: EventProgress, Percent: min(max(v, 0), 100)}
	}
	if _, rest, ok := strings.Cut(line, OutputMarker); ok {
		return Event{Kind: EventOutputDir, Path: strings.TrimSpace(rest)}
	}
	if _, rest, ok := strings.Cut(line, ParametersMarker); ok {
		return Event{Kind: EventParameters, Path: strings.TrimSpace(rest)}
	}
	return Event{}
}
