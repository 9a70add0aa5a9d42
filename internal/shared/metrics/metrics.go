package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	documentsUploadedTotal atomic.Uint64
	parsesTotal            atomic.Uint64
	parseWarningsTotal     atomic.Uint64
	parsesDefaultedTotal   atomic.Uint64
	exportsQueuedTotal     atomic.Uint64
	exportsCompletedTotal  atomic.Uint64
	exportsFailedTotal     atomic.Uint64
	workerReceivedTotal    atomic.Uint64
	workerDroppedTotal     atomic.Uint64

	parseDuration  = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000})
	exportDuration = newHistogram([]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// IncDocumentsUploaded counts a stored upload.
func IncDocumentsUploaded() {
	documentsUploadedTotal.Add(1)
}

// ObserveParse records one parse: how long it took, how many warnings it
// raised and whether any core field fell back to a placeholder.
func ObserveParse(durationMs float64, warnings int, defaulted bool) {
	parsesTotal.Add(1)
	if warnings > 0 {
		parseWarningsTotal.Add(uint64(warnings))
	}
	if defaulted {
		parsesDefaultedTotal.Add(1)
	}
	parseDuration.Observe(clamp(durationMs))
}

// IncExportQueued counts an export handed to the queue.
func IncExportQueued() {
	exportsQueuedTotal.Add(1)
}

// IncExportCompleted counts a rendered and stored export.
func IncExportCompleted() {
	exportsCompletedTotal.Add(1)
}

// IncExportFailed counts an export that could not be rendered or stored.
func IncExportFailed() {
	exportsFailedTotal.Add(1)
}

// IncWorkerMessagesReceived counts a queue message picked up by a worker.
func IncWorkerMessagesReceived() {
	workerReceivedTotal.Add(1)
}

// IncWorkerMessagesDropped counts a message deleted without success because
// retrying could not help.
func IncWorkerMessagesDropped() {
	workerDroppedTotal.Add(1)
}

// ObserveExportDurationMs records an export duration in milliseconds.
func ObserveExportDurationMs(value float64) {
	exportDuration.Observe(clamp(value))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "documents_uploaded_total", "Total resume files stored", documentsUploadedTotal.Load())
	writeCounter(&buf, "parses_total", "Total resumes parsed", parsesTotal.Load())
	writeCounter(&buf, "parse_warnings_total", "Total parse warnings raised", parseWarningsTotal.Load())
	writeCounter(&buf, "parses_defaulted_total", "Parses with at least one placeholder field", parsesDefaultedTotal.Load())
	writeCounter(&buf, "exports_queued_total", "Total exports queued", exportsQueuedTotal.Load())
	writeCounter(&buf, "exports_completed_total", "Total exports completed", exportsCompletedTotal.Load())
	writeCounter(&buf, "exports_failed_total", "Total exports failed", exportsFailedTotal.Load())
	writeCounter(&buf, "worker_messages_received_total", "Total queue messages received by workers", workerReceivedTotal.Load())
	writeCounter(&buf, "worker_messages_dropped_total", "Queue messages deleted as unrecoverable", workerDroppedTotal.Load())
	writeHistogram(&buf, "parse_duration_ms", "Parse duration in milliseconds", parseDuration.Snapshot())
	writeHistogram(&buf, "export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
