package runmap

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Miss records one requirement the generator could not satisfy. Misses are
// soft: the map is still valid, only a nice-to-have guarantee was dropped.
type Miss struct {
	Stage   string
	Message string
}

func (m Miss) String() string { return m.Stage + ": " + m.Message }

// Diagnostics is the sink for soft misses. Each miss is kept for inspection
// and logged at debug level when a Logger is set.
//
// A nil *Diagnostics discards everything.
type Diagnostics struct {
	Logger *log.Logger
	Misses []Miss
}

// NewDiagnostics returns a sink that logs through l. l may be nil.
func NewDiagnostics(l *log.Logger) *Diagnostics {
	return &Diagnostics{Logger: l}
}

// Missf records a soft miss for stage.
func (d *Diagnostics) Missf(stage, format string, args ...any) {
	if d == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	d.Misses = append(d.Misses, Miss{Stage: stage, Message: msg})
	if d.Logger != nil {
		d.Logger.Debug(msg, "stage", stage)
	}
}

// Count returns the number of misses recorded for stage, or all misses when
// stage is empty.
func (d *Diagnostics) Count(stage string) int {
	if d == nil {
		return 0
	}
	if stage == "" {
		return len(d.Misses)
	}
	n := 0
	for _, m := range d.Misses {
		if m.Stage == stage {
			n++
		}
	}
	return n
}
