package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nikoq/switchboard/internal/logging"
)

type captureReporter struct {
	consultations int
	activities    int
}

func (c *captureReporter) LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any) {
	c.consultations++
}

func (c *captureReporter) LogActivity(agent, activityType, description string, meta map[string]any) {
	c.activities++
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(logging.New(&buf, "debug"))

	r.LogConsultation("router", "TestAgent", "run the suite", true, 150*time.Millisecond, nil)
	r.LogActivity("TestAgent", "routing", "routed query", nil)

	out := buf.String()
	assert.Contains(t, out, `"to":"TestAgent"`)
	assert.Contains(t, out, `"success":true`)
	assert.Contains(t, out, `"type":"routing"`)
}

func TestMulti_FansOut(t *testing.T) {
	a := &captureReporter{}
	b := &captureReporter{}
	m := NewMulti(a, nil, b)

	m.LogConsultation("router", "x", "q", false, 0, nil)
	m.LogConsultation("router", "x", "q", true, 0, nil)
	m.LogActivity("x", "routing", "routed", nil)

	assert.Equal(t, 2, a.consultations)
	assert.Equal(t, 2, b.consultations)
	assert.Equal(t, 1, a.activities)
	assert.Equal(t, 1, b.activities)
}
