// Package metrics holds the Prometheus collectors of the Plume server.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plume"

type Metrics struct {
	poemsPublished prometheus.Counter
	poemsDeleted   prometheus.Counter
	votesCast      *prometheus.CounterVec
	votesRejected  *prometheus.CounterVec
	votesWithdrawn prometheus.Counter
	rewardsGranted *prometheus.CounterVec
	logins         *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		poemsPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poems_published_total",
			Help:      "Poems moved from draft to published.",
		}),
		poemsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poems_deleted_total",
			Help:      "Poems deleted.",
		}),
		votesCast: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feathers_cast_total",
			Help:      "Feather votes admitted, by weight.",
		}, []string{"weight"}),
		votesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feathers_rejected_total",
			Help:      "Feather votes refused, by error code.",
		}, []string{"code"}),
		votesWithdrawn: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feathers_withdrawn_total",
			Help:      "Feather votes withdrawn.",
		}),
		rewardsGranted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewards_granted_total",
			Help:      "Rewards unlocked, by reward code.",
		}, []string{"code"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts, by outcome.",
		}, []string{"outcome"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of unary gRPC calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) PoemPublished() {
	if m == nil {
		return
	}
	m.poemsPublished.Inc()
}

func (m *Metrics) PoemDeleted() {
	if m == nil {
		return
	}
	m.poemsDeleted.Inc()
}

func (m *Metrics) VoteCast(weight string) {
	if m == nil {
		return
	}
	m.votesCast.WithLabelValues(weight).Inc()
}

func (m *Metrics) VoteRejected(code string) {
	if m == nil {
		return
	}
	m.votesRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) VoteWithdrawn() {
	if m == nil {
		return
	}
	m.votesWithdrawn.Inc()
}

func (m *Metrics) RewardGranted(code string) {
	if m == nil {
		return
	}
	m.rewardsGranted.WithLabelValues(code).Inc()
}

// Login records an authentication attempt; outcome is "success", "failure"
// or "locked".
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(method, code).Observe(d.Seconds())
}

// Handler exposes everything gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
