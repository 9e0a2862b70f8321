package tracing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/draftmark/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.TracingConfig{Enabled: true, Exporter: "file", FilePath: "/tmp/t.jsonl", SampleRate: 0.5})
	require.True(t, cfg.Enabled)
	require.Equal(t, "/tmp/t.jsonl", cfg.FilePath)
	require.Equal(t, 0.5, cfg.SampleRate)
	require.Equal(t, DefaultServiceName, cfg.ServiceName)

	cfg = FromConfig(config.TracingConfig{})
	require.Equal(t, config.DefaultTracesFilePath(), cfg.FilePath)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), SpanDispatch)
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid(), "no-op spans carry no ids")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: tracePath, SampleRate: 1})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	ctx, parent := provider.Tracer().Start(context.Background(), SpanDispatch)
	parent.SetAttributes(attribute.String(AttrTrigger, "space"))
	_, child := provider.Tracer().Start(ctx, SpanInline)
	child.AddEvent(EventRuleMatched)
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	records, err := ReadSpanRecords(tracePath)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]SpanRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	require.Equal(t, "space", byName[SpanDispatch].Attributes[AttrTrigger])
	require.Equal(t, byName[SpanDispatch].SpanID, byName[SpanInline].ParentSpanID)
	require.Equal(t, []string{EventRuleMatched}, byName[SpanInline].Events)
}

func TestNewProvider_NoExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanReplay)
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported exporter type")
}
