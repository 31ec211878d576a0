package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues(CacheOpGet, CacheStatusHit))
	CacheOperationsTotal.WithLabelValues(CacheOpGet, CacheStatusHit).Inc()
	after := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues(CacheOpGet, CacheStatusHit))

	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}
