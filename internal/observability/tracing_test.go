package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("ETC_TRACING_ENABLED", "TRUE")
	t.Setenv("ETC_TRACING_EXPORTER", "OTLP")
	t.Setenv("ETC_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("ETC_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("ETC_TRACING_SERVICE_NAME", "")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.Endpoint != "collector:4317" {
		t.Fatalf("TracingConfigFromEnv = %+v", cfg)
	}
	if cfg.SampleRatio != 0.25 {
		t.Fatalf("SampleRatio = %v, want 0.25", cfg.SampleRatio)
	}
	if cfg.ServiceName != "thermal-etc" {
		t.Fatalf("ServiceName = %q, want thermal-etc", cfg.ServiceName)
	}

	t.Setenv("ETC_TRACING_SAMPLE_RATIO", "7")
	if got := TracingConfigFromEnv().SampleRatio; got != 1 {
		t.Fatalf("out-of-range ratio accepted: %v", got)
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitTracingStdoutWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		ServiceName: "thermal-etc-test",
		Exporter:    "stdout",
		SampleRatio: 1,
	}, &buf, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)

	if !strings.Contains(buf.String(), "unit-span") {
		t.Fatalf("stdout exporter output missing span: %q", buf.String())
	}

	// Restore a noop provider for other tests.
	if _, err := InitTracing(context.Background(), TracingConfig{}, nil, nil); err != nil {
		t.Fatalf("reset tracing: %v", err)
	}
}

func TestInitTracingUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported tracing exporter") {
		t.Fatalf("err = %v, want unsupported exporter", err)
	}
}

func TestTracingConfigDefaults(t *testing.T) {
	cfg := tracingConfig(func(string) string { return "" })
	want := TracingConfig{ServiceName: "thermal-etc", Exporter: ExporterStdout, SampleRatio: 1}
	if cfg != want {
		t.Fatalf("tracingConfig = %+v, want %+v", cfg, want)
	}
}

func TestInitTracingRejectsExporterAlias(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "otlpgrpc"}, nil, nil)
	if err == nil {
		t.Fatalf("otlpgrpc accepted, want only %s or %s", ExporterStdout, ExporterOTLP)
	}
}

func TestShutdownWithTimeoutNil(t *testing.T) {
	ShutdownWithTimeout(context.Background(), nil, nil)
}
