package prometheus

// AppMetrics holds every metric handle the risk engine exposes.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Scoring layer
	PriceChecksTotal    CounterVec
	PriceCheckDuration  HistogramVec
	BatchChecksTotal    CounterVec
	BatchCheckDuration  HistogramVec
	AnomaliesTotal      CounterVec
	HighRiskBatchGauge  GaugeVec

	// Complaint layer
	ComplaintsTotal   CounterVec
	ComplaintLogDepth GaugeVec

	// Catalog layer
	CatalogReloadsTotal CounterVec
	CatalogDrugCount    GaugeVec
	CatalogBatchCount   GaugeVec

	// Infrastructure
	ArchiveWritesTotal CounterVec
	EventPublishTotal  CounterVec
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
}

var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultScoringDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5}
)

// NewAppMetrics registers the engine's metrics on the given collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// Scoring
	m.PriceChecksTotal = collector.RegisterCounter("price_checks_total", "Price anomaly checks", "anomaly_type", "risk_level")
	m.PriceCheckDuration = collector.RegisterHistogram("price_check_duration_seconds", "Price check duration", DefaultScoringDurationBuckets, "strategy")
	m.BatchChecksTotal = collector.RegisterCounter("batch_checks_total", "Batch risk checks", "risk_level")
	m.BatchCheckDuration = collector.RegisterHistogram("batch_check_duration_seconds", "Batch check duration", DefaultScoringDurationBuckets)
	m.AnomaliesTotal = collector.RegisterCounter("price_anomalies_total", "Prices flagged as anomalous", "anomaly_type")
	m.HighRiskBatchGauge = collector.RegisterGauge("high_risk_batches", "Batches at potential_risk or above at last fleet scan")

	// Complaints
	m.ComplaintsTotal = collector.RegisterCounter("complaints_submitted_total", "Adverse-event complaints submitted", "severity")
	m.ComplaintLogDepth = collector.RegisterGauge("complaint_log_entries", "Complaint log size")

	// Catalog
	m.CatalogReloadsTotal = collector.RegisterCounter("catalog_reloads_total", "Reference catalog reloads", "status")
	m.CatalogDrugCount = collector.RegisterGauge("catalog_drugs", "Drugs in the installed catalog")
	m.CatalogBatchCount = collector.RegisterGauge("catalog_batches", "Batches in the installed catalog")

	// Infrastructure
	m.ArchiveWritesTotal = collector.RegisterCounter("complaint_archive_writes_total", "Durable complaint archive writes", "status")
	m.EventPublishTotal = collector.RegisterCounter("event_publish_total", "Domain events published", "topic", "status")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	return m
}
