package observability

import "testing"

func TestMetricsTotals(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("GET", "tickets/7", 200)
	m.RecordRequest("GET", "users", 200)
	m.RecordRequest("PUT", "tickets/7", 200)
	m.RecordRequest("GET", "tickets/999", 404)

	requests, errors := m.Totals()
	if requests != 4 {
		t.Errorf("requests = %d, want 4", requests)
	}
	if errors != 1 {
		t.Errorf("errors = %d, want 1", errors)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("GET", "tickets/7", 200)
	if requests, errors := m.Totals(); requests != 0 || errors != 0 {
		t.Errorf("nil metrics totals = %d/%d, want zero", requests, errors)
	}
}
