package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type histogram struct {
	buckets []float64
	counts  []uint64
	count   uint64
	sum     float64
}

func newHistogram(buckets []float64) *histogram {
	copyBuckets := make([]float64, len(buckets))
	copy(copyBuckets, buckets)
	return &histogram{
		buckets: copyBuckets,
		counts:  make([]uint64, len(copyBuckets)),
	}
}

func (h *histogram) observe(value float64) {
	if h == nil {
		return
	}
	if value < 0 {
		value = 0
	}
	for idx, bucket := range h.buckets {
		if value <= bucket {
			h.counts[idx]++
			break
		}
	}
	h.count++
	h.sum += value
}

type apiRequestKey struct {
	route  string
	method string
	status string
}

type apiDurationKey struct {
	route  string
	method string
}

type oracleRequestKey struct {
	persona      string
	responseType string
}

type APIMetrics struct {
	mu             sync.RWMutex
	httpRequests   map[apiRequestKey]uint64
	httpDurations  map[apiDurationKey]*histogram
	dbQuery        *histogram
	oracleRequests map[oracleRequestKey]uint64
	generationFail map[string]uint64
	enhancements   map[string]uint64
}

func NewAPIMetrics() *APIMetrics {
	return &APIMetrics{
		httpRequests:   map[apiRequestKey]uint64{},
		httpDurations:  map[apiDurationKey]*histogram{},
		dbQuery:        newHistogram(defaultDurationBuckets),
		oracleRequests: map[oracleRequestKey]uint64{},
		generationFail: map[string]uint64{},
		enhancements:   map[string]uint64{},
	}
}

func (m *APIMetrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := apiRequestKey{
		route:  normalizeMetricValue(route, "unknown"),
		method: normalizeMetricValue(strings.ToUpper(strings.TrimSpace(method)), "UNKNOWN"),
		status: normalizeMetricValue(strconv.Itoa(status), "0"),
	}
	durationKey := apiDurationKey{route: key.route, method: key.method}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpRequests[key]++
	h, exists := m.httpDurations[durationKey]
	if !exists {
		h = newHistogram(defaultDurationBuckets)
		m.httpDurations[durationKey] = h
	}
	h.observe(duration.Seconds())
}

func (m *APIMetrics) ObserveDBQuery(duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbQuery.observe(duration.Seconds())
}

func (m *APIMetrics) IncOracleRequest(persona, responseType string) {
	if m == nil {
		return
	}
	key := oracleRequestKey{
		persona:      normalizeMetricValue(persona, "unknown"),
		responseType: normalizeMetricValue(responseType, "unknown"),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oracleRequests[key]++
}

func (m *APIMetrics) IncGenerationFailure(reason string) {
	if m == nil {
		return
	}
	clean := normalizeMetricValue(reason, "unknown")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generationFail[clean]++
}

func (m *APIMetrics) IncEnhancementLevel(level string) {
	if m == nil {
		return
	}
	clean := normalizeMetricValue(level, "standard")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enhancements[clean]++
}

func (m *APIMetrics) Render() string {
	if m == nil {
		return ""
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder

	sb.WriteString("# HELP http_requests_total Total HTTP requests handled by API.\n")
	sb.WriteString("# TYPE http_requests_total counter\n")
	httpRequestKeys := make([]apiRequestKey, 0, len(m.httpRequests))
	for key := range m.httpRequests {
		httpRequestKeys = append(httpRequestKeys, key)
	}
	sort.Slice(httpRequestKeys, func(i, j int) bool {
		if httpRequestKeys[i].route != httpRequestKeys[j].route {
			return httpRequestKeys[i].route < httpRequestKeys[j].route
		}
		if httpRequestKeys[i].method != httpRequestKeys[j].method {
			return httpRequestKeys[i].method < httpRequestKeys[j].method
		}
		return httpRequestKeys[i].status < httpRequestKeys[j].status
	})
	for _, key := range httpRequestKeys {
		labels := map[string]string{
			"route":  key.route,
			"method": key.method,
			"status": key.status,
		}
		sb.WriteString("http_requests_total")
		sb.WriteString(formatLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(m.httpRequests[key], 10))
		sb.WriteString("\n")
	}

	sb.WriteString("# HELP http_request_duration_seconds HTTP request latency in seconds.\n")
	sb.WriteString("# TYPE http_request_duration_seconds histogram\n")
	httpDurationKeys := make([]apiDurationKey, 0, len(m.httpDurations))
	for key := range m.httpDurations {
		httpDurationKeys = append(httpDurationKeys, key)
	}
	sort.Slice(httpDurationKeys, func(i, j int) bool {
		if httpDurationKeys[i].route != httpDurationKeys[j].route {
			return httpDurationKeys[i].route < httpDurationKeys[j].route
		}
		return httpDurationKeys[i].method < httpDurationKeys[j].method
	})
	for _, key := range httpDurationKeys {
		labels := map[string]string{
			"route":  key.route,
			"method": key.method,
		}
		renderHistogramSeries(&sb, "http_request_duration_seconds", labels, m.httpDurations[key])
	}

	sb.WriteString("# HELP db_query_duration_seconds Database query duration in seconds.\n")
	sb.WriteString("# TYPE db_query_duration_seconds histogram\n")
	renderHistogramSeries(&sb, "db_query_duration_seconds", map[string]string{}, m.dbQuery)

	sb.WriteString("# HELP oracle_requests_total Oracle questions answered by persona and response type.\n")
	sb.WriteString("# TYPE oracle_requests_total counter\n")
	oracleKeys := make([]oracleRequestKey, 0, len(m.oracleRequests))
	for key := range m.oracleRequests {
		oracleKeys = append(oracleKeys, key)
	}
	sort.Slice(oracleKeys, func(i, j int) bool {
		if oracleKeys[i].persona != oracleKeys[j].persona {
			return oracleKeys[i].persona < oracleKeys[j].persona
		}
		return oracleKeys[i].responseType < oracleKeys[j].responseType
	})
	for _, key := range oracleKeys {
		labels := map[string]string{
			"persona":       key.persona,
			"response_type": key.responseType,
		}
		sb.WriteString("oracle_requests_total")
		sb.WriteString(formatLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(m.oracleRequests[key], 10))
		sb.WriteString("\n")
	}

	sb.WriteString("# HELP generation_failures_total Upstream text generation failures by reason.\n")
	sb.WriteString("# TYPE generation_failures_total counter\n")
	failReasons := make([]string, 0, len(m.generationFail))
	for reason := range m.generationFail {
		failReasons = append(failReasons, reason)
	}
	sort.Strings(failReasons)
	for _, reason := range failReasons {
		labels := map[string]string{"reason": reason}
		sb.WriteString("generation_failures_total")
		sb.WriteString(formatLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(m.generationFail[reason], 10))
		sb.WriteString("\n")
	}

	sb.WriteString("# HELP enhancement_requests_total Oracle questions by resolved enhancement level.\n")
	sb.WriteString("# TYPE enhancement_requests_total counter\n")
	levels := make([]string, 0, len(m.enhancements))
	for level := range m.enhancements {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		labels := map[string]string{"level": level}
		sb.WriteString("enhancement_requests_total")
		sb.WriteString(formatLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(m.enhancements[level], 10))
		sb.WriteString("\n")
	}

	return sb.String()
}

type statsRunKey struct {
	status string
}

type WorkerMetrics struct {
	mu           sync.RWMutex
	statsRuns    map[statsRunKey]uint64
	runDurations *histogram
	dbQuery      *histogram
}

func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		statsRuns:    map[statsRunKey]uint64{},
		runDurations: newHistogram(defaultDurationBuckets),
		dbQuery:      newHistogram(defaultDurationBuckets),
	}
}

func (m *WorkerMetrics) ObserveStatsRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	clean := normalizeMetricValue(status, "unknown")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsRuns[statsRunKey{status: clean}]++
	m.runDurations.observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveDBQuery(duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbQuery.observe(duration.Seconds())
}

func (m *WorkerMetrics) Render() string {
	if m == nil {
		return ""
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder

	sb.WriteString("# HELP stats_runs_total Daily stats aggregation runs by status.\n")
	sb.WriteString("# TYPE stats_runs_total counter\n")
	runKeys := make([]statsRunKey, 0, len(m.statsRuns))
	for key := range m.statsRuns {
		runKeys = append(runKeys, key)
	}
	sort.Slice(runKeys, func(i, j int) bool {
		return runKeys[i].status < runKeys[j].status
	})
	for _, key := range runKeys {
		labels := map[string]string{"status": key.status}
		sb.WriteString("stats_runs_total")
		sb.WriteString(formatLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(m.statsRuns[key], 10))
		sb.WriteString("\n")
	}

	sb.WriteString("# HELP stats_run_duration_seconds Stats aggregation latency in seconds.\n")
	sb.WriteString("# TYPE stats_run_duration_seconds histogram\n")
	renderHistogramSeries(&sb, "stats_run_duration_seconds", map[string]string{}, m.runDurations)

	sb.WriteString("# HELP db_query_duration_seconds Database query duration in seconds.\n")
	sb.WriteString("# TYPE db_query_duration_seconds histogram\n")
	renderHistogramSeries(&sb, "db_query_duration_seconds", map[string]string{}, m.dbQuery)

	return sb.String()
}

func renderHistogramSeries(sb *strings.Builder, metricName string, labels map[string]string, h *histogram) {
	if sb == nil || h == nil {
		return
	}

	cumulative := uint64(0)
	for idx, bucket := range h.buckets {
		cumulative += h.counts[idx]
		withLE := cloneLabels(labels)
		withLE["le"] = strconv.FormatFloat(bucket, 'g', -1, 64)
		sb.WriteString(metricName)
		sb.WriteString("_bucket")
		sb.WriteString(formatLabels(withLE))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(cumulative, 10))
		sb.WriteString("\n")
	}

	withInf := cloneLabels(labels)
	withInf["le"] = "+Inf"
	sb.WriteString(metricName)
	sb.WriteString("_bucket")
	sb.WriteString(formatLabels(withInf))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatUint(h.count, 10))
	sb.WriteString("\n")

	sb.WriteString(metricName)
	sb.WriteString("_sum")
	sb.WriteString(formatLabels(labels))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(h.sum, 'g', -1, 64))
	sb.WriteString("\n")

	sb.WriteString(metricName)
	sb.WriteString("_count")
	sb.WriteString(formatLabels(labels))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatUint(h.count, 10))
	sb.WriteString("\n")
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+`="`+escapeLabelValue(labels[key])+`"`)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func cloneLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for key, value := range labels {
		out[key] = value
	}
	return out
}

func escapeLabelValue(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
	return replacer.Replace(value)
}

func normalizeMetricValue(value, fallback string) string {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return fallback
	}
	return clean
}
