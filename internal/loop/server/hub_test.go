package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHub(NewMetrics(reg), log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, reg
}

// metricValue returns the value of a gauge or counter, or the sample count
// of a histogram.
func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		m := f.GetMetric()[0]
		switch {
		case m.GetGauge() != nil:
			return m.GetGauge().GetValue()
		case m.GetCounter() != nil:
			return m.GetCounter().GetValue()
		case m.GetHistogram() != nil:
			return float64(m.GetHistogram().GetSampleCount())
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestHubRegisterUnregister(t *testing.T) {
	h, reg := startHub(t)

	a := h.RegisterClient("alice")
	b := h.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.SessionID, b.SessionID)

	assert.Eventually(t, func() bool {
		return metricValue(t, reg, "spaceshooter_sessions_total") == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, h.Count())
	assert.Equal(t, 2.0, metricValue(t, reg, "spaceshooter_active_sessions"))

	h.UnregisterClient(a.ID)
	assert.Eventually(t, func() bool {
		return metricValue(t, reg, "spaceshooter_active_sessions") == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, h.Count())

	_, open := <-a.EventsCh
	assert.False(t, open, "events channel closed on unregister")
}

func TestHubShutdownNotifiesClients(t *testing.T) {
	h, _ := startHub(t)
	a := h.RegisterClient("alice")
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	go func() {
		ev := <-a.EventsCh
		if ev.Type == EventServerShutdown {
			h.UnregisterClient(a.ID)
		}
	}()

	start := time.Now()
	h.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, h.Count())
}

func TestHubShutdownTimesOut(t *testing.T) {
	h, _ := startHub(t)
	h.RegisterClient("stubborn")
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	start := time.Now()
	h.Shutdown(150 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, 1, h.Count())
}

func TestHubGameOverMetrics(t *testing.T) {
	h, reg := startHub(t)
	a := h.RegisterClient("alice")

	h.ReportGameOver(a.ID, 42, 50)
	h.ReportGameOver(a.ID, 75, 75)

	assert.Eventually(t, func() bool {
		return metricValue(t, reg, "spaceshooter_high_score") == 75
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 75, h.Best())
	assert.Equal(t, 2.0, metricValue(t, reg, "spaceshooter_game_overs_total"))
	assert.Equal(t, 2.0, metricValue(t, reg, "spaceshooter_final_score"))
}
