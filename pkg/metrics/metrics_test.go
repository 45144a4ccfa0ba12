package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/consumer"
	"github.com/robotalks/safety.go/pkg/core"
	"github.com/robotalks/safety.go/pkg/handoff"
	"github.com/robotalks/safety.go/pkg/safety"
)

type fixedStatus struct {
	status core.Status
}

func (s fixedStatus) Status() core.Status { return s.status }

func testStatus() fixedStatus {
	return fixedStatus{core.Status{
		Name: "main",
		Status: consumer.Status{
			State: safety.EmergencyStopped,
			Latch: safety.Stats{Stops: 1, Violations: 2},
		},
		Queue:    handoff.Stats{Capacity: 5, Len: 1, Accepted: 7, Dropped: 3},
		Triggers: 3,
	}}
}

func scrape(t *testing.T, s *Server) string {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector(t *testing.T) {
	c := NewCollector(testStatus())
	descs := make(chan *prometheus.Desc, 32)
	c.Describe(descs)
	require.Len(t, descs, 19)

	s, err := NewServer(":0", c)
	require.NoError(t, err)
	body := scrape(t, s)
	for _, line := range []string{
		`safety_latch_stopped{core="main"} 1`,
		`safety_latch_violations_total{core="main"} 2`,
		`safety_handoff_dropped_total{core="main"} 3`,
		`safety_handoff_capacity{core="main"} 5`,
		"# TYPE safety_latch_stops_total counter",
		"# TYPE safety_handoff_length gauge",
	} {
		require.Contains(t, body, line)
	}
}

func TestServerHandler(t *testing.T) {
	s, err := NewServer(":0", NewCollector(testStatus()))
	require.NoError(t, err)
	require.Contains(t, scrape(t, s), `safety_emergency_triggers_total{core="main"} 3`)
}
