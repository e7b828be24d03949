package httputil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTiming_Report(t *testing.T) {
	var timing = NewTiming()

	timing.Start("store")
	time.Sleep(time.Millisecond)
	timing.Stop("store")
	// A phase may be resumed; its durations accumulate.
	timing.Start("store")
	timing.Stop("store")

	var response = httptest.NewRecorder()
	timing.Report(response)

	var header = response.Header().Get("Server-Timing")
	assert.Contains(t, header, "store;dur=")
}
