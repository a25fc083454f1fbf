package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	spanAttrRowsAffected = "rows_affected"

	labelStatus = "status"

	operationQuery  = "query"
	operationAppend = "append"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery   = "build_query"
	errorTypeDatabase     = "database_query"
	errorTypeScan         = "row_scan"
	errorTypeBuildEvent   = "build_event"
	errorTypeDatabaseExec = "database_exec"
	errorTypeRowsAffected = "rows_affected"
	errorTypeConcurrency  = "concurrency_conflict"
)

func (es EventStore) logDebug(ctx context.Context, msg string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if es.logger != nil {
		es.logger.Debug(msg, args...)
	}
}

func (es EventStore) logInfo(ctx context.Context, msg string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func (es EventStore) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if es.logger != nil {
		es.logger.Error(msg, allArgs...)
	}
}

func (es EventStore) recordDuration(ctx context.Context, metric string, d time.Duration, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}
	if c, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		c.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, d, labels)
}

func (es EventStore) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: statusSuccess}
	if c, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		c.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if c, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		c.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

// operationObserver bundles span, timing and metrics of one Query or Append call.
type operationObserver struct {
	es        EventStore
	ctx       context.Context
	span      eventstore.SpanContext
	operation string
	metric    string
	start     time.Time
}

func (es EventStore) observe(ctx context.Context, operation, spanName, metric string, attrs map[string]string) (*operationObserver, context.Context) {
	var span eventstore.SpanContext

	attrs[spanAttrOperation] = operation
	if es.tracingCollector != nil {
		ctx, span = es.tracingCollector.StartSpan(ctx, spanName, attrs)
	}

	return &operationObserver{
		es:        es,
		ctx:       ctx,
		span:      span,
		operation: operation,
		metric:    metric,
		start:     time.Now(),
	}, ctx
}

func (o *operationObserver) fail(errorType string) {
	duration := time.Since(o.start)
	o.es.recordDuration(o.ctx, o.metric, duration, o.operation, statusError)

	if errorType == errorTypeConcurrency {
		o.es.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: o.operation})
	} else {
		o.es.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
			spanAttrOperation: o.operation,
			labelStatus:       statusError,
			spanAttrErrorType: errorType,
		})
	}

	o.finish(statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (o *operationObserver) succeed(countMetric string, count int, attrs map[string]string) {
	duration := time.Since(o.start)
	o.es.recordDuration(o.ctx, o.metric, duration, o.operation, statusSuccess)
	o.es.recordValue(o.ctx, countMetric, float64(count), o.operation)

	attrs[spanAttrDurationMS] = formatMilliseconds(duration)
	o.finish(statusSuccess, attrs)
}

func (o *operationObserver) finish(status string, attrs map[string]string) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(status)
	for k, v := range attrs {
		o.span.AddAttribute(k, v)
	}

	o.es.tracingCollector.FinishSpan(o.span, status, attrs)
}

func (o *operationObserver) elapsedMS() float64 {
	return toMilliseconds(time.Since(o.start))
}

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 3, 64)
}
