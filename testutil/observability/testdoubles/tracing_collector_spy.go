package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// SpanRecord is a started span; Status and FinishAttrs are set once it is finished.
type SpanRecord struct {
	Name        string
	StartAttrs  map[string]string
	Status      string
	FinishAttrs map[string]string
	Finished    bool
}

type spySpan struct {
	spy   *TracingCollectorSpy
	index int
}

func (s spySpan) SetStatus(status string) {
	s.spy.mu.Lock()
	defer s.spy.mu.Unlock()

	s.spy.spans[s.index].Status = status
}

func (s spySpan) AddAttribute(key, value string) {
	s.spy.mu.Lock()
	defer s.spy.mu.Unlock()

	if s.spy.spans[s.index].FinishAttrs == nil {
		s.spy.spans[s.index].FinishAttrs = map[string]string{}
	}
	s.spy.spans[s.index].FinishAttrs[key] = value
}

// TracingCollectorSpy captures spans. It implements eventstore.TracingCollector.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []SpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, SpanRecord{Name: name, StartAttrs: maps.Clone(attrs)})

	return ctx, spySpan{spy: s, index: len(s.spans) - 1}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(spySpan)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := &s.spans[span.index]
	record.Status = status
	record.Finished = true
	if record.FinishAttrs == nil {
		record.FinishAttrs = map[string]string{}
	}
	maps.Copy(record.FinishAttrs, attrs)
}

// Spans returns a copy of all captured spans.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpanRecord(nil), s.spans...)
}

// FinishedSpan returns the first finished span named name.
func (s *TracingCollectorSpy) FinishedSpan(name string) (SpanRecord, bool) {
	for _, span := range s.Spans() {
		if span.Name == name && span.Finished {
			return span, true
		}
	}

	return SpanRecord{}, false
}
