package leadconsole

import (
	"sync"
	"testing"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Add(MetricBulkRowsFailed, 5)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("login success = %d", got)
	}
	snap := m.Snapshot()
	if snap.Counters[MetricBulkRowsFailed] != 5 {
		t.Fatalf("bulk rows failed = %d", snap.Counters[MetricBulkRowsFailed])
	}
	if snap.Counters[MetricVerifyFailure] != 0 {
		t.Fatal("untouched counter not zero")
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	m.Inc(MetricLoginSuccess)
	if m.Enabled() || m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics recorded a value")
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("disabled snapshot not empty")
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricLoginSuccess)
	if nilMetrics.Enabled() {
		t.Fatal("nil metrics enabled")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricResendRequest)
			}
		}()
	}
	wg.Wait()
	if got := m.Value(MetricResendRequest); got != 8000 {
		t.Fatalf("count = %d, want 8000", got)
	}
}
