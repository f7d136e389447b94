package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/charcraft/internal/metrics"
)

func TestMetrics_CompletionCall(t *testing.T) {
	m := metrics.New()

	m.CompletionCall(metrics.KindChoice, metrics.OutcomeSuccess)
	m.CompletionCall(metrics.KindChoice, metrics.OutcomeSuccess)
	m.CompletionCall(metrics.KindReaction, metrics.OutcomeFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CompletionCalls.WithLabelValues(metrics.KindChoice, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletionCalls.WithLabelValues(metrics.KindReaction, metrics.OutcomeFailed)))
}

func TestMetrics_ObserveInteraction(t *testing.T) {
	m := metrics.New()

	m.ObserveInteraction("command", "character/start", 120*time.Millisecond, false)
	m.ObserveInteraction("component", "wizard:propose", time.Second, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InteractionsTotal.WithLabelValues("command", "character/start")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InteractionErrors.WithLabelValues("command", "character/start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InteractionErrors.WithLabelValues("component", "wizard:propose")))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.QuotaRejected()
	m.Fallback(metrics.KindCelebration)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "charcraft_quota_rejections_total 1")
	assert.Contains(t, string(body), `charcraft_fallback_messages_total{kind="celebration"} 1`)
}
