package oteladapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
)

func Test_MetricsCollector_CreatesOneInstrumentPerName(t *testing.T) {
	// arrange
	collector := NewMetricsCollector(noop.NewMeterProvider().Meter("circulation"))
	labels := map[string]string{"operation": "borrow"}

	// act
	collector.RecordDuration("command_duration_seconds", time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "command_duration_seconds", time.Second, labels)
	collector.IncrementCounter("commands_total", labels)
	collector.IncrementCounterContext(context.Background(), "commands_total", labels)
	collector.RecordValue("events_queried", 3, labels)
	collector.RecordValueContext(context.Background(), "events_queried", 4, labels)

	// assert
	assert.Equal(t, 3, collector.instrumentCount())
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	collector := NewMetricsCollector(noop.NewMeterProvider().Meter("circulation"))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("conflicts_total", nil)
			collector.RecordDuration("append_duration_seconds", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, collector.instrumentCount())
}
