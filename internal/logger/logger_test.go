package logger

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Errorf("expected req-42, got %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithContext_NoRequestIDReturnsSameLogger(t *testing.T) {
	l := Nop()
	if l.WithContext(context.Background()) != l {
		t.Error("expected the same logger when no request id is present")
	}
}

func TestNew_Production(t *testing.T) {
	l := New("test-service", "production")
	if l.serviceName != "test-service" {
		t.Errorf("expected service name test-service, got %q", l.serviceName)
	}
	if l.Named("other").serviceName != "other" {
		t.Error("expected Named to change the service name")
	}
}
