package metrics

import (
	"strings"
	"testing"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var sb strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		sb.WriteString(formatFloat(snap.buckets[i]))
		sb.WriteString("=")
		sb.WriteString(formatFloat(float64(cumulative)))
		sb.WriteString(" ")
	}
	if got := strings.TrimSpace(sb.String()); got != "10=1 100=2" {
		t.Fatalf("unexpected buckets %q", got)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected count/sum %d/%v", snap.count, snap.sum)
	}
}

func TestRenderIncludesParseMetrics(t *testing.T) {
	ObserveParse(12.5, 2, true)
	IncExportCompleted()

	out := Render()
	for _, want := range []string{
		"# TYPE parses_total counter",
		"# TYPE parse_duration_ms histogram",
		"parse_duration_ms_bucket{le=\"+Inf\"}",
		"exports_completed_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}
