package services

import "sync"

// DefaultPaletteColors is the fixed cycle of grid colors. Free and break
// cells always render NeutralColor and never consume a palette entry.
var DefaultPaletteColors = []string{
	"#1E88E5", // blue
	"#43A047", // green
	"#E53935", // red
	"#FB8C00", // orange
	"#8E24AA", // purple
	"#00ACC1", // cyan
	"#F4511E", // deep orange
	"#3949AB", // indigo
	"#00897B", // teal
	"#C0CA33", // lime
	"#D81B60", // pink
	"#6D4C41", // brown
}

// NeutralColor renders Free and break cells.
const NeutralColor = "#9E9E9E"

// SubjectPalette assigns a stable display color to each subject name for the
// lifetime of the instance: first sight binds the next unused palette entry,
// cycling with wraparound once the palette is exhausted. The cache is
// explicit and injectable rather than a process-wide global so tests stay
// deterministic.
type SubjectPalette struct {
	mu       sync.Mutex
	colors   []string
	assigned map[string]string
	cursor   int
}

// NewSubjectPalette builds a palette over the given color cycle; an empty
// slice falls back to the default cycle.
func NewSubjectPalette(colors []string) *SubjectPalette {
	if len(colors) == 0 {
		colors = DefaultPaletteColors
	}
	return &SubjectPalette{
		colors:   colors,
		assigned: make(map[string]string),
	}
}

// BreakLabel is the sentinel subject shown for configured break positions.
const BreakLabel = "Break"

// ColorFor returns the subject's color, binding one on first sight. The empty
// subject (Free) and the break sentinel map to the neutral color and are
// never palette-assigned.
func (p *SubjectPalette) ColorFor(subject string) string {
	if subject == "" || subject == BreakLabel {
		return NeutralColor
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.assigned[subject]; ok {
		return c
	}
	c := p.colors[p.cursor%len(p.colors)]
	p.cursor++
	p.assigned[subject] = c
	return c
}
