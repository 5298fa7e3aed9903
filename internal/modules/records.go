package modules

import (
	"context"
	"sync"
)

// recordSink collects the structured records behind a tool's text output so
// the batch executor can resolve ${id.results[i].field} references against
// real field values instead of formatted text.
type recordSink struct {
	mu      sync.Mutex
	records []map[string]any
}

type recordSinkKey struct{}

// withRecordSink attaches a fresh sink to the context. The batch executor
// installs one per task before dispatching.
func withRecordSink(ctx context.Context) (context.Context, *recordSink) {
	s := &recordSink{}
	return context.WithValue(ctx, recordSinkKey{}, s), s
}

// PublishRecords exposes the records backing a handler's formatted output.
// Handlers call it with their final records, after any anonymization, so a
// reference can never surface a value the text output would hide. Outside a
// batch there is no sink and the call is a no-op.
func PublishRecords(ctx context.Context, records []map[string]any) {
	s, ok := ctx.Value(recordSinkKey{}).(*recordSink)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// PublishRecord is PublishRecords for single-record tools; the record is
// addressable as results[0].
func PublishRecord(ctx context.Context, record map[string]any) {
	if record == nil {
		return
	}
	PublishRecords(ctx, []map[string]any{record})
}

func (s *recordSink) take() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}
