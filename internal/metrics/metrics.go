// Package metrics collects and exposes Prometheus metrics for the
// scan and diet-generation pipelines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer records through.
type Recorder interface {
	RecordScanSuccess(score int)
	RecordScanFailure(reason string)
	RecordScanLatency(duration time.Duration)
	RecordLedgerFailure()
	RecordPlanGenerated()
	RecordPlanFailure(reason string)
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	registry      *prometheus.Registry
	scanSuccess   *prometheus.CounterVec
	scanFail      *prometheus.CounterVec
	scanLatency   prometheus.Histogram
	ledgerFail    prometheus.Counter
	planGenerated prometheus.Counter
	planFail      *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		scanSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawrate_scans_total",
			Help: "Completed ingredient analyses by resulting score.",
		}, []string{"score"}),
		scanFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawrate_scan_failures_total",
			Help: "Failed ingredient analyses by reason.",
		}, []string{"reason"}),
		scanLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pawrate_scan_latency_seconds",
			Help:    "Latency of the remote analysis call.",
			Buckets: prometheus.DefBuckets,
		}),
		ledgerFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawrate_ledger_failures_total",
			Help: "Usage ledger write failures after a successful analysis.",
		}),
		planGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawrate_diet_plans_total",
			Help: "Successfully generated diet plans.",
		}),
		planFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawrate_diet_plan_failures_total",
			Help: "Failed diet plan generations by reason.",
		}, []string{"reason"}),
	}

	c.registry.MustRegister(
		c.scanSuccess,
		c.scanFail,
		c.scanLatency,
		c.ledgerFail,
		c.planGenerated,
		c.planFail,
	)

	return c
}

func (c *Collector) RecordScanSuccess(score int) {
	c.scanSuccess.WithLabelValues(strconv.Itoa(score)).Inc()
}

func (c *Collector) RecordScanFailure(reason string) {
	c.scanFail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordScanLatency(duration time.Duration) {
	c.scanLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordLedgerFailure() {
	c.ledgerFail.Inc()
}

func (c *Collector) RecordPlanGenerated() {
	c.planGenerated.Inc()
}

func (c *Collector) RecordPlanFailure(reason string) {
	c.planFail.WithLabelValues(reason).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
