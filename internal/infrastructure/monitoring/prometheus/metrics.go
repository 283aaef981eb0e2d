package prometheus

import (
	"strconv"
	"time"
)

// Score outcome labels.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusError    = "error"
	StatusNoModel  = "no_model"
	SourceHTTP     = "http"
	SourceWorker   = "worker"
	SourceCLI      = "cli"
	CacheHit       = "hit"
	CacheMiss      = "miss"
	CacheError     = "error"
	BuildSucceeded = "succeeded"
	BuildFailed    = "failed"
)

// Default buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultScoreDurationBuckets = []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1}
	DefaultBuildDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900, 3600}
	// SAScoreBuckets spans the (1, 10) score range.
	SAScoreBuckets = []float64{1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 6, 7, 8, 9}
)

// ScoringMetrics holds every metric the service records.
type ScoringMetrics struct {
	ScoresTotal        CounterVec
	ScoreDuration      HistogramVec
	ScoreValue         HistogramVec
	CacheLookupsTotal  CounterVec
	ModelBuildsTotal   CounterVec
	ModelBuildDuration HistogramVec
	ModelFragments     GaugeVec
	ModelFrequentTypes GaugeVec
	CorpusSkipped      CounterVec
	HTTPRequestsTotal  CounterVec
	HTTPDuration       HistogramVec
	MessagesTotal      CounterVec
}

// NewScoringMetrics registers all metrics on collector.
func NewScoringMetrics(collector MetricsCollector) *ScoringMetrics {
	if collector == nil {
		collector = NewNoopCollector()
	}
	return &ScoringMetrics{
		ScoresTotal: collector.RegisterCounter("scores_total",
			"Molecules scored, by request source and outcome.", "source", "status"),
		ScoreDuration: collector.RegisterHistogram("score_duration_seconds",
			"Time to parse and score one molecule.", DefaultScoreDurationBuckets, "source"),
		ScoreValue: collector.RegisterHistogram("score_value",
			"Distribution of SA scores produced.", SAScoreBuckets),
		CacheLookupsTotal: collector.RegisterCounter("cache_lookups_total",
			"Score cache lookups by result.", "result"),
		ModelBuildsTotal: collector.RegisterCounter("model_builds_total",
			"Contribution model builds by outcome.", "status"),
		ModelBuildDuration: collector.RegisterHistogram("model_build_duration_seconds",
			"Time to build a contribution model from a corpus.", DefaultBuildDurationBuckets),
		ModelFragments: collector.RegisterGauge("model_fragments",
			"Distinct fragments in the active model.", "model"),
		ModelFrequentTypes: collector.RegisterGauge("model_frequent_types",
			"Size of the frequent fragment set of the active model.", "model"),
		CorpusSkipped: collector.RegisterCounter("corpus_skipped_total",
			"Corpus entries skipped because they could not be parsed."),
		HTTPRequestsTotal: collector.RegisterCounter("http_requests_total",
			"HTTP requests by route, method and status code.", "route", "method", "code"),
		HTTPDuration: collector.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency by route.", DefaultHTTPDurationBuckets, "route", "method"),
		MessagesTotal: collector.RegisterCounter("messages_total",
			"Kafka messages handled by topic and outcome.", "topic", "status"),
	}
}

// NewNoopScoringMetrics returns metrics that record nothing.
func NewNoopScoringMetrics() *ScoringMetrics {
	return NewScoringMetrics(NewNoopCollector())
}

// RecordScore records one scoring attempt.  value is ignored unless status
// is StatusOK.
func (m *ScoringMetrics) RecordScore(source, status string, value float64, d time.Duration) {
	m.ScoresTotal.WithLabelValues(source, status).Inc()
	m.ScoreDuration.WithLabelValues(source).Observe(d.Seconds())
	if status == StatusOK {
		m.ScoreValue.WithLabelValues().Observe(value)
	}
}

// RecordCacheLookup records one cache lookup result.
func (m *ScoringMetrics) RecordCacheLookup(result string) {
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordModelBuild records a finished model build.
func (m *ScoringMetrics) RecordModelBuild(status string, d time.Duration) {
	m.ModelBuildsTotal.WithLabelValues(status).Inc()
	if status == BuildSucceeded {
		m.ModelBuildDuration.WithLabelValues().Observe(d.Seconds())
	}
}

// SetActiveModel publishes the size of the model now serving requests.
func (m *ScoringMetrics) SetActiveModel(name string, fragments, frequentTypes int) {
	m.ModelFragments.WithLabelValues(name).Set(float64(fragments))
	m.ModelFrequentTypes.WithLabelValues(name).Set(float64(frequentTypes))
}

// RecordCorpusSkipped counts unparseable corpus entries.
func (m *ScoringMetrics) RecordCorpusSkipped(n int) {
	if n > 0 {
		m.CorpusSkipped.WithLabelValues().Add(float64(n))
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *ScoringMetrics) RecordHTTPRequest(route, method string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordMessage records one consumed or produced Kafka message.
func (m *ScoringMetrics) RecordMessage(topic, status string) {
	m.MessagesTotal.WithLabelValues(topic, status).Inc()
}

//Personal.AI order the ending
