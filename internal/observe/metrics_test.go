package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mind-engage/pseudocheck/internal/grading"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumFor(t *testing.T, m *metricdata.Metrics, key, val string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: unexpected data type %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == val {
			total += dp.Value
		}
	}
	return total
}

func TestObserveVerdict(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	g := grading.NewGrader(grading.WithObserver(m))
	g.Grade(ctx, "begin\nend", [][]string{{"begin", "end"}})
	g.Grade(ctx, "begin\nfor i = 0 to n\nprint i\nend", [][]string{{"begin", "for i = 1 to n", "print i", "end"}})
	g.Grade(ctx, "", [][]string{{"begin"}})

	rm := collect(t, reader)

	verdicts := findMetric(rm, "pseudocheck.grading.verdicts")
	if verdicts == nil {
		t.Fatal("verdict counter missing")
	}
	if got := sumFor(t, verdicts, "status", "correct"); got != 1 {
		t.Errorf("correct = %d", got)
	}
	if got := sumFor(t, verdicts, "status", "partial"); got != 1 {
		t.Errorf("partial = %d", got)
	}
	if got := sumFor(t, verdicts, "status", "incorrect"); got != 1 {
		t.Errorf("incorrect = %d", got)
	}

	reasons := findMetric(rm, "pseudocheck.grading.discrepancies")
	if reasons == nil {
		t.Fatal("discrepancy counter missing")
	}
	if got := sumFor(t, reasons, "reason", string(grading.ReasonLoopBounds)); got != 1 {
		t.Errorf("loop bounds = %d", got)
	}

	dur := findMetric(rm, "pseudocheck.grading.duration")
	if dur == nil {
		t.Fatal("duration histogram missing")
	}
	hist := dur.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 3 {
		t.Errorf("histogram = %+v", hist.DataPoints)
	}
}

func TestRecordError(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordError(context.Background())
	m.RecordError(context.Background())

	c := findMetric(collect(t, reader), "pseudocheck.submissions.record_errors")
	if c == nil {
		t.Fatal("record error counter missing")
	}
	sum := c.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Errorf("got %+v", sum.DataPoints)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m, reader := newTestMetrics(t)
	r := chi.NewRouter()
	r.Use(Middleware(m))
	r.Get("/api/questions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions/42", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}

	h := findMetric(collect(t, reader), "pseudocheck.http.request.duration")
	if h == nil {
		t.Fatal("http histogram missing")
	}
	hist := h.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 {
		t.Fatalf("data points = %d", len(hist.DataPoints))
	}
	attrs := hist.DataPoints[0].Attributes
	if v, _ := attrs.Value("route"); v.AsString() != "/api/questions/{id}" {
		t.Errorf("route = %q", v.AsString())
	}
	if v, _ := attrs.Value("status"); v.AsString() != "418" {
		t.Errorf("status = %q", v.AsString())
	}
}
