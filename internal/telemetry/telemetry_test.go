package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func validConfig() Config {
	return Config{
		ServiceName:    "orderctl-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		SampleRate:     1.0,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(c *Config)
		wantErr error
	}{
		{name: "valid", mut: func(*Config) {}},
		{name: "missing service name", mut: func(c *Config) { c.ServiceName = "" }, wantErr: ErrMissingServiceName},
		{name: "missing version", mut: func(c *Config) { c.ServiceVersion = "" }, wantErr: ErrMissingServiceVersion},
		{name: "negative sample rate", mut: func(c *Config) { c.SampleRate = -0.1 }, wantErr: ErrInvalidSampleRate},
		{name: "sample rate above one", mut: func(c *Config) { c.SampleRate = 1.5 }, wantErr: ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mut(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected %v wrapped in ErrInvalidConfig, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInitialize_TracingDisabled(t *testing.T) {
	tel, err := Initialize(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if tel.Enabled() {
		t.Fatal("tracing should be disabled")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitialize_TracingRequiresEndpointWithoutExporter(t *testing.T) {
	cfg := validConfig()
	cfg.EnableTracing = true

	_, err := Initialize(context.Background(), cfg)
	if !errors.Is(err, ErrMissingEndpoint) {
		t.Fatalf("expected ErrMissingEndpoint, got %v", err)
	}
}

func TestInitialize_WithExporter(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	cfg := validConfig()
	cfg.EnableTracing = true
	exp := tracetest.NewInMemoryExporter()

	tel, err := Initialize(context.Background(), cfg, WithTraceExporter(exp))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !tel.Enabled() {
		t.Fatal("tracing should be enabled")
	}

	_, span := StartSpan(context.Background(), "exported-span")
	span.End()

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "exported-span" {
		t.Fatalf("unexpected exported spans: %+v", spans)
	}
}

func TestStartSpanAndHelpers(t *testing.T) {
	exp := setupTracerProvider(t)

	ctx, span := StartSpan(context.Background(), "test-operation")
	if TraceID(ctx) == "" {
		t.Error("expected trace id in context")
	}
	AddSpanAttributes(span, attribute.Int64("order.id", 7))
	RecordSpanError(span, errors.New("boom"))
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "test-operation" {
		t.Errorf("unexpected span name %s", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Attributes) != 1 || spans[0].Attributes[0].Key != "order.id" {
		t.Errorf("unexpected attributes: %v", spans[0].Attributes)
	}
}

func TestHelpersToleratesNil(t *testing.T) {
	AddSpanAttributes(nil)
	RecordSpanError(nil, errors.New("ignored"))
	SetSpanSuccess(nil)

	if TraceID(context.Background()) != "" {
		t.Fatal("expected empty trace id without span")
	}
}

func TestCreateSampler(t *testing.T) {
	if s := createSampler(0).Description(); s != "AlwaysOffSampler" {
		t.Errorf("unexpected sampler for 0: %s", s)
	}
	if s := createSampler(1).Description(); s != "AlwaysOnSampler" {
		t.Errorf("unexpected sampler for 1: %s", s)
	}
}
