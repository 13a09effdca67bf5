package graph

import (
	"time"
)

// TimestampLayout is the textual form timestamps take in the exported
// graph. GraphML has no native date/time attribute type, so every
// time-valued attribute must become text before serialization.
const TimestampLayout = "2006-01-02 15:04:05"

// NormalizeTimestamps rewrites every time.Time attribute on every node and
// edge into its TimestampLayout rendering, in the value's own location.
// All other attribute values pass through untouched. This must be the last
// mutation before the graph is written out. Returns the number of
// attributes converted.
func NormalizeTimestamps(ig *InteractionGraph) int {
	converted := 0
	for _, n := range ig.Nodes() {
		converted += normalizeAttrs(n.Attrs)
	}
	for _, e := range ig.Edges() {
		converted += normalizeAttrs(e.Attrs)
	}
	return converted
}

func normalizeAttrs(attrs map[string]any) int {
	converted := 0
	for k, v := range attrs {
		if t, ok := v.(time.Time); ok {
			attrs[k] = t.Format(TimestampLayout)
			converted++
		}
	}
	return converted
}
