package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the hub's Prometheus collectors.
type Metrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	gameOvers      prometheus.Counter
	finalScores    prometheus.Histogram
	highScore      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spaceshooter",
			Name:      "active_sessions",
			Help:      "Number of connected terminal sessions.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spaceshooter",
			Name:      "sessions_total",
			Help:      "Total number of sessions started.",
		}),
		gameOvers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spaceshooter",
			Name:      "game_overs_total",
			Help:      "Total number of finished rounds.",
		}),
		finalScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spaceshooter",
			Name:      "final_score",
			Help:      "Score at game over.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
		highScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spaceshooter",
			Name:      "high_score",
			Help:      "Best score recorded since start.",
		}),
	}
	reg.MustRegister(m.activeSessions, m.sessionsTotal, m.gameOvers, m.finalScores, m.highScore)
	return m
}
