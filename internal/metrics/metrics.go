// Package metrics holds the Prometheus metrics of one scraper run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const job = "multisite_scraper"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	JobsScraped      *prometheus.CounterVec
	SiteFailures     *prometheus.CounterVec
	FieldMisses      *prometheus.CounterVec
	DetailFailures   *prometheus.CounterVec
	SiteDuration     *prometheus.HistogramVec
	MergedRecords    *prometheus.GaugeVec
	RowsUpserted     prometheus.Counter
	BatchFailures    prometheus.Counter
	SpreadsheetRows  prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics registers every metric on a private registry so a run can push
// exactly its own series.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		JobsScraped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_jobs_scraped_total",
			Help: "Job records produced per site",
		}, []string{"site"}),
		SiteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_site_failures_total",
			Help: "Sites that produced no records because of an error",
		}, []string{"site", "reason"}), // e.g. 'session_unavailable', 'no_listings'
		FieldMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_field_misses_total",
			Help: "Fields that could not be extracted from a detail page",
		}, []string{"site", "field"}),
		DetailFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_detail_failures_total",
			Help: "Detail pages skipped because they failed to load",
		}, []string{"site"}),
		SiteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scraper_site_duration_seconds",
			Help:    "Time spent scraping one site",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		}, []string{"site"}),
		MergedRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scraper_merged_records",
			Help: "Records in the merged table by outcome",
		}, []string{"outcome"}), // added, updated, kept
		RowsUpserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_db_rows_upserted_total",
			Help: "Rows written to the database",
		}),
		BatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_db_batch_failures_total",
			Help: "Upsert batches that failed",
		}),
		SpreadsheetRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scraper_spreadsheet_rows",
			Help: "Rows written to the spreadsheet",
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scraper_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

func (m *Metrics) AddJobsScraped(site string, n int) {
	if m == nil {
		return
	}
	m.JobsScraped.WithLabelValues(site).Add(float64(n))
}

func (m *Metrics) IncSiteFailure(site, reason string) {
	if m == nil {
		return
	}
	m.SiteFailures.WithLabelValues(site, reason).Inc()
}

func (m *Metrics) IncFieldMiss(site, field string) {
	if m == nil {
		return
	}
	m.FieldMisses.WithLabelValues(site, field).Inc()
}

func (m *Metrics) IncDetailFailure(site string) {
	if m == nil {
		return
	}
	m.DetailFailures.WithLabelValues(site).Inc()
}

func (m *Metrics) ObserveSiteDuration(site string, seconds float64) {
	if m == nil {
		return
	}
	m.SiteDuration.WithLabelValues(site).Observe(seconds)
}

func (m *Metrics) SetMerged(added, updated, kept int) {
	if m == nil {
		return
	}
	m.MergedRecords.WithLabelValues("added").Set(float64(added))
	m.MergedRecords.WithLabelValues("updated").Set(float64(updated))
	m.MergedRecords.WithLabelValues("kept").Set(float64(kept))
}

func (m *Metrics) AddRowsUpserted(n int) {
	if m == nil {
		return
	}
	m.RowsUpserted.Add(float64(n))
}

func (m *Metrics) IncBatchFailure() {
	if m == nil {
		return
	}
	m.BatchFailures.Inc()
}

func (m *Metrics) SetSpreadsheetRows(n int) {
	if m == nil {
		return
	}
	m.SpreadsheetRows.Set(float64(n))
}

func (m *Metrics) MarkRunFinished(unix int64) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(unix))
}

// Push sends every series to a Prometheus Pushgateway. A batch run has no
// scrape endpoint, so this is the only way its metrics leave the process.
func (m *Metrics) Push(url string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
