package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("recommend", "ok", 12*time.Millisecond)
	m.ObserveRequest("recommend", "ok", 3*time.Millisecond)
	m.ObserveFallback("fallback_unknown_user")
	m.ObserveFallback("fallback_oracle_error")
	m.ObserveTrackedEvent("click")

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("recommend", "ok")); got != 2 {
		t.Errorf("requests_total = %v", got)
	}
	if got := testutil.ToFloat64(m.fallbacksTotal.WithLabelValues("fallback_oracle_error")); got != 1 {
		t.Errorf("fallbacks_total = %v", got)
	}
	if got := testutil.ToFloat64(m.oracleErrors); got != 1 {
		t.Errorf("oracle_errors_total = %v", got)
	}
	if got := testutil.ToFloat64(m.trackedEvents.WithLabelValues("click")); got != 1 {
		t.Errorf("tracked_events_total = %v", got)
	}
}

func TestMetrics_RegistersWithoutConflict(t *testing.T) {
	// 独立注册表可以重复创建
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
