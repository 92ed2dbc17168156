package tracing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

type recordingExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (r *recordingExporter) ExportSpan(s *trace.SpanData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, s)
}

func (r *recordingExporter) byName(name string) *trace.SpanData {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.spans {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func withRecorder(t *testing.T) *recordingExporter {
	t.Helper()
	rec := &recordingExporter{}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(rec)
	t.Cleanup(func() {
		trace.UnregisterExporter(rec)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1e-4)})
	})
	return rec
}

func TestTraceMethod(t *testing.T) {
	rec := withRecorder(t)

	called := false
	err := TraceMethod(context.Background(), "EditorService", "MoveBlock", func(ctx context.Context) error {
		called = true
		assert.NotNil(t, trace.FromContext(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	testErr := errors.New("boom")
	err = TraceMethod(context.Background(), "EditorService", "DeleteBlock", func(ctx context.Context) error {
		return testErr
	})
	assert.Same(t, testErr, err)

	ok := rec.byName("EditorService.MoveBlock")
	require.NotNil(t, ok)
	assert.Equal(t, int32(trace.StatusCodeOK), ok.Status.Code)

	failed := rec.byName("EditorService.DeleteBlock")
	require.NotNil(t, failed)
	assert.Equal(t, int32(trace.StatusCodeUnknown), failed.Status.Code)
	assert.Equal(t, "boom", failed.Status.Message)
}

func TestTraceMethodWithResult(t *testing.T) {
	withRecorder(t)

	result, err := TraceMethodWithResult(context.Background(), "svc", "ok", func(ctx context.Context) (string, error) {
		return "success", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result)

	testErr := errors.New("failure")
	n, err := TraceMethodWithResult(context.Background(), "svc", "fail", func(ctx context.Context) (int, error) {
		return 7, testErr
	})
	assert.Same(t, testErr, err)
	assert.Equal(t, 7, n)
}

func TestAddAttribute(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpanWithAttributes(context.Background(), "attrs", trace.StringAttribute("preset", "yes"))
	AddAttribute(ctx, "document_id", "doc-1")
	AddAttribute(ctx, "index", 3)
	AddAttribute(ctx, "version", int64(9))
	AddAttribute(ctx, "changed", true)
	AddAttribute(ctx, "direction", struct{ Dir string }{"up"})
	span.End()

	// no span in context
	AddAttribute(context.Background(), "key", "value")

	data := rec.byName("attrs")
	require.NotNil(t, data)
	assert.Equal(t, "yes", data.Attributes["preset"])
	assert.Equal(t, "doc-1", data.Attributes["document_id"])
	assert.Equal(t, int64(3), data.Attributes["index"])
	assert.Equal(t, int64(9), data.Attributes["version"])
	assert.Equal(t, true, data.Attributes["changed"])
	assert.Equal(t, "{up}", data.Attributes["direction"])
}

func TestMarkSpanError(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := trace.StartSpan(context.Background(), "marked")
	MarkSpanError(ctx, nil)
	MarkSpanError(ctx, errors.New("bad thing"))
	span.End()

	MarkSpanError(context.Background(), errors.New("ignored"))

	data := rec.byName("marked")
	require.NotNil(t, data)
	assert.Equal(t, "bad thing", data.Status.Message)
}

func TestEndSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartServiceSpan(context.Background(), "svc", "clean")
	EndSpan(span, nil)
	_, span = StartServiceSpan(context.Background(), "svc", "dirty")
	EndSpan(span, errors.New("dirty"))

	assert.Empty(t, rec.byName("svc.clean").Status.Message)
	assert.Equal(t, "dirty", rec.byName("svc.dirty").Status.Message)
}
