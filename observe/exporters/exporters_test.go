package exporters

import (
	"context"
	"strings"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  string
	}{
		{"stdout", "stdout", ""},
		{"none", "none", ""},
		{"empty means none", "", ""},
		{"unknown", "invalid", "unknown exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := NewTracingExporter(context.Background(), tt.exporter)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("NewTracingExporter(%q) error = %v, want %q", tt.exporter, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTracingExporter(%q) error = %v", tt.exporter, err)
			}
			if exp == nil {
				t.Errorf("NewTracingExporter(%q) = nil, want an exporter", tt.exporter)
			}
		})
	}
}

func TestNewTracingExporter_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "otlp")
	if err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("NewTracingExporter(otlp) error = %v, want endpoint error", err)
	}
}

func TestNewTracingExporter_OTLPWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")

	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("NewTracingExporter(otlp) error = %v", err)
	}
	if exp == nil {
		t.Error("NewTracingExporter(otlp) = nil, want an exporter")
	}
}

func TestNewMetricsReader(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  string
	}{
		{"stdout", "stdout", ""},
		{"prometheus", "prometheus", ""},
		{"none", "none", ""},
		{"empty means none", "", ""},
		{"unknown", "badvalue", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewMetricsReader(context.Background(), tt.exporter)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("NewMetricsReader(%q) error = %v, want %q", tt.exporter, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMetricsReader(%q) error = %v", tt.exporter, err)
			}
			if reader == nil {
				t.Errorf("NewMetricsReader(%q) = nil, want a reader", tt.exporter)
			}
		})
	}
}

func TestNewMetricsReader_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	_, err := NewMetricsReader(context.Background(), "otlp")
	if err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("NewMetricsReader(otlp) error = %v, want endpoint error", err)
	}
}
