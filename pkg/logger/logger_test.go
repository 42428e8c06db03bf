package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwrk-planet/epanel/pkg/logger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDetectEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if got := logger.DetectEnv(); got != logger.EnvDev {
		t.Fatalf("default should be dev, got %q", got)
	}

	t.Setenv("APP_ENV", "staging")
	if got := logger.DetectEnv(); got != logger.EnvStage {
		t.Fatalf("expected stage, got %q", got)
	}

	t.Setenv("APP_ENV", "Production")
	if got := logger.DetectEnv(); got != logger.EnvProd {
		t.Fatalf("expected prod, got %q", got)
	}
}

func TestNew_DevStd_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{
		Service: "epanel",
		Version: "v0.0.1",
		Env:     logger.EnvDev,
		Backend: logger.BackendStd,
		Level:   slog.LevelDebug,
		Output:  &buf,
	})

	l.Info("carousel started", "period", "4s")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	for _, want := range []string{"carousel started", "service=epanel", "env=dev", "period=4s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q missing: %s", want, out)
		}
	}
}

func TestNew_ProdZap_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{
		Service: "epanel",
		Env:     logger.EnvProd,
		Backend: logger.BackendZap,
		Output:  &buf,
	})

	l.Error("qr encode failed", "panel_id", 3)

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", line, err)
	}
	if rec["msg"] != "qr encode failed" {
		t.Fatalf("unexpected msg: %v", rec["msg"])
	}
	if rec["service"] != "epanel" {
		t.Fatalf("service attr missing: %v", rec)
	}
}

func TestNew_DebugFlagLowersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: logger.EnvDev, Backend: logger.BackendStd, Debug: true, Output: &buf})

	l.Debug("tick")
	if !strings.Contains(buf.String(), "tick") {
		t.Fatalf("debug record dropped: %q", buf.String())
	}
}

func TestAttrsFromCtx(t *testing.T) {
	if attrs := logger.AttrsFromCtx(context.Background()); attrs != nil {
		t.Fatalf("expected no attrs without span, got %v", attrs)
	}

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	attrs := logger.AttrsFromCtx(ctx)
	if len(attrs) != 2 {
		t.Fatalf("expected trace and span ids, got %v", attrs)
	}
	if attrs[0].Value.String() != span.SpanContext().TraceID().String() {
		t.Fatalf("trace id mismatch: %v", attrs[0])
	}
}
