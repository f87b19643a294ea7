package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rotary_kernel_duration_seconds",
		Help:    "Histogram of rotation kernel execution times",
		Buckets: prometheus.DefBuckets,
	}, []string{"kernel"})

	RotatedPositionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rotary_positions_total",
		Help: "Total number of (position, batch, head) units rotated",
	})

	TableBuildDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "rotary_table_build_duration_seconds",
		Help: "Duration of cos/sin table construction",
	})

	TableRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rotary_table_rows",
		Help:    "Distribution of sequence lengths for built tables",
		Buckets: []float64{16, 64, 256, 1024, 2048, 4096, 8192, 16384, 32768},
	})

	ValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_errors_total",
		Help: "Total number of validation errors",
	}, []string{"operation", "error_type"})

	NumericalInstability = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numerical_instability_total",
		Help: "Total number of NaN/Inf values detected",
	}, []string{"tensor", "type"})
)

// RecordKernelDuration records one kernel execution time.
func RecordKernelDuration(kernel string, d time.Duration) {
	KernelDuration.WithLabelValues(kernel).Observe(d.Seconds())
}

// RecordRotation records the number of grid units a rotation covered.
func RecordRotation(positions int) {
	RotatedPositionsTotal.Add(float64(positions))
}

// RecordTableBuild records a cos/sin table construction.
func RecordTableBuild(rows int, d time.Duration) {
	TableBuildDuration.Observe(d.Seconds())
	TableRows.Observe(float64(rows))
}

// RecordValidationError records a rejected argument by operation and kind.
func RecordValidationError(operation, errorType string) {
	ValidationErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordNumericalInstability records NaN/Inf counts detected in a tensor.
func RecordNumericalInstability(tensor string, nanCount, infCount int) {
	if nanCount > 0 {
		NumericalInstability.WithLabelValues(tensor, "nan").Add(float64(nanCount))
	}
	if infCount > 0 {
		NumericalInstability.WithLabelValues(tensor, "inf").Add(float64(infCount))
	}
}
