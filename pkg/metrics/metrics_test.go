package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveImport("succeeded", time.Second, map[string]int{"farms": 1})
		m.IncExport("json")
		m.IncAssistant("ok")
	})
	assert.Nil(t, m.Registry())
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestObserveImport(t *testing.T) {
	m := New()
	m.ObserveImport("succeeded", 10*time.Millisecond, map[string]int{"farms": 2, "tasks": 3})
	m.ObserveImport("failed", time.Millisecond, nil)

	body := scrape(t, m)
	assert.Contains(t, body, `agrimind_imports_total{status="succeeded"} 1`)
	assert.Contains(t, body, `agrimind_imports_total{status="failed"} 1`)
	assert.Contains(t, body, `agrimind_imported_rows_total{collection="tasks"} 3`)
	assert.Contains(t, body, `agrimind_import_duration_seconds_count 2`)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.IncExport("xlsx")
	m.IncAssistant("empty")

	body := scrape(t, m)
	assert.Contains(t, body, `agrimind_exports_total{format="xlsx"} 1`)
	assert.Contains(t, body, `agrimind_assistant_requests_total{outcome="empty"} 1`)
}
