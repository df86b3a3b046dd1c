package infrastructure

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"leadscope/pkg/contracts/domain"
)

// Recommendation cache outcomes recorded by RecordRecommendation.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

// BusinessMetrics holds the application instruments. A nil *BusinessMetrics
// records nothing.
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	RowsParsed       metric.Int64Counter
	ValidationErrors metric.Int64Counter

	ClassificationRequests metric.Int64Counter
	ClassificationDuration metric.Float64Histogram
	ClassifiedLeads        metric.Int64Counter

	RecommendationRequests metric.Int64Counter
	RecommendationDuration metric.Float64Histogram

	ExportsTotal     metric.Int64Counter
	WebSocketClients metric.Int64UpDownCounter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m    BusinessMetrics
		errs []error
	)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		errs = append(errs, err)
		return h
	}
	gauge := func(name, desc string) metric.Int64UpDownCounter {
		g, err := meter.Int64UpDownCounter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return g
	}

	m.HTTPRequestsTotal = counter("http_requests_total", "Total number of HTTP requests")
	m.HTTPRequestDuration = seconds("http_request_duration_seconds", "HTTP request duration in seconds")
	m.HTTPActiveRequests = gauge("http_active_requests", "Number of active HTTP requests")

	m.RowsParsed = counter("leads_rows_parsed_total", "Data rows read from uploads, by validity")
	m.ValidationErrors = counter("leads_validation_errors_total", "Field validation errors, by field")

	m.ClassificationRequests = counter("classification_requests_total", "Classification calls, by status")
	m.ClassificationDuration = seconds("classification_duration_seconds", "Classification call duration in seconds")
	m.ClassifiedLeads = counter("classified_leads_total", "Leads returned by the classifier")

	m.RecommendationRequests = counter("recommendation_requests_total", "3S recommendation requests, by cache outcome")
	m.RecommendationDuration = seconds("recommendation_duration_seconds", "3S generation duration in seconds")

	m.ExportsTotal = counter("exports_total", "Classification exports, by format and status")
	m.WebSocketClients = gauge("websocket_clients", "Connected websocket clients")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordHTTPRequest records one finished HTTP request.
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", code),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), attrs)
}

// TrackActiveRequest adjusts the in-flight request gauge by delta.
func (m *BusinessMetrics) TrackActiveRequest(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}

// RecordParse records the row and error counts of a parse.
func (m *BusinessMetrics) RecordParse(ctx context.Context, res *domain.CsvParseResult) {
	if m == nil || res == nil {
		return
	}
	m.RowsParsed.Add(ctx, int64(res.ValidRows), metric.WithAttributes(attribute.String("validity", "valid")))
	m.RowsParsed.Add(ctx, int64(res.TotalRows-res.ValidRows), metric.WithAttributes(attribute.String("validity", "invalid")))
	for _, e := range res.Errors {
		m.ValidationErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("field", e.Field)))
	}
}

// RecordClassification records one classifier call.
func (m *BusinessMetrics) RecordClassification(ctx context.Context, leads int, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(status(err))
	m.ClassificationRequests.Add(ctx, 1, attrs)
	m.ClassificationDuration.Record(ctx, d.Seconds(), attrs)
	if err == nil {
		m.ClassifiedLeads.Add(ctx, int64(leads))
	}
}

// RecordRecommendation records one 3S request and how the cache served it.
func (m *BusinessMetrics) RecordRecommendation(ctx context.Context, outcome string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RecommendationRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", outcome), status(err)))
	if outcome == CacheMiss {
		m.RecommendationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(status(err)))
	}
}

// RecordExport records one export in format.
func (m *BusinessMetrics) RecordExport(ctx context.Context, format string, err error) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format), status(err)))
}

// TrackWebSocketClient adjusts the connected client gauge by delta.
func (m *BusinessMetrics) TrackWebSocketClient(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketClients.Add(ctx, delta)
}
