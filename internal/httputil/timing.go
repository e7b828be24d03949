package httputil

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Timing accumulates the durations of named request phases and reports them
// as a Server-Timing header, so slow store or signing calls show up in the
// browser's network inspector.
type Timing struct {
	phases map[string]phase
}

type phase struct {
	started time.Time
	elapsed time.Duration
}

func NewTiming() *Timing {
	return &Timing{phases: map[string]phase{}}
}

// Start begins or resumes measuring the named phase.
func (t *Timing) Start(name string) {
	var p = t.phases[name]
	p.started = time.Now()
	t.phases[name] = p
}

// Stop adds the time since the matching Start to the named phase.
func (t *Timing) Stop(name string) {
	var p = t.phases[name]
	p.elapsed += time.Since(p.started)
	t.phases[name] = p
}

// Report writes all accumulated phases as a Server-Timing header with
// millisecond durations.
func (t *Timing) Report(w http.ResponseWriter) {
	var values = make([]string, 0, len(t.phases))
	for name, p := range t.phases {
		values = append(values, fmt.Sprintf("%s;dur=%.01f", name, float64(p.elapsed.Microseconds())/1000))
	}
	w.Header().Set("Server-Timing", strings.Join(values, ","))
}
