package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PoemPublished()
	m.PoemPublished()
	m.VoteCast("gold")
	m.VoteRejected("CANNOT_VOTE_OWN_POEM")
	m.RewardGranted("GOLDEN_QUILL")
	m.Login("failure")

	assert.Equal(t, 2.0, counterValue(t, reg, "plume_poems_published_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "plume_feathers_cast_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "plume_feathers_rejected_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "plume_rewards_granted_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "plume_logins_total"))
}

// counterValue sums every series of the named counter family.
func counterValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	t.Fatalf("metric family %s not gathered", name)
	return 0
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.PoemPublished()
		m.PoemDeleted()
		m.VoteCast("bronze")
		m.VoteRejected("X")
		m.VoteWithdrawn()
		m.RewardGranted("X")
		m.Login("success")
		m.ObserveRPC("/m", "OK", time.Millisecond)
	})
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRPC("/plume.v1.Poems/Publish", "OK", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "plume_grpc_request_duration_seconds"))
}
