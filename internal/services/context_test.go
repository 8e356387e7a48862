package services_test

import (
	"context"
	"testing"

	"fetchd/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id on empty context")
	}

	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithStage(ctx, "transcribe")
	ctx = services.WithSourceURL(ctx, "https://example.com/watch?v=abc")

	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-123" {
		t.Fatalf("request id = %q, ok = %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("stage = %q, ok = %v", stage, ok)
	}
	if url, ok := services.SourceURLFromContext(ctx); !ok || url != "https://example.com/watch?v=abc" {
		t.Fatalf("url = %q, ok = %v", url, ok)
	}
}

func TestEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
}
