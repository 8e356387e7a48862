package services_test

import (
	"errors"
	"fmt"
	"testing"

	"fetchd/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := services.Wrap(services.ErrMetadataFetch, "probe", "yt-dlp", "query failed", base)
	if !errors.Is(err, services.ErrMetadataFetch) {
		t.Fatalf("expected ErrMetadataFetch, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "stage", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default ErrExternalTool marker, got %v", err)
	}
}

func TestRecoverableClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing credential", services.Wrap(services.ErrMissingCredential, "transcribe", "", "no key", nil), true},
		{"tool failure", services.Wrap(services.ErrExternalTool, "manual_subs", "yt-dlp", "boom", nil), true},
		{"caption parse", services.Wrap(services.ErrCaptionParse, "manual_subs", "", "zero cues", nil), true},
		{"terminal", services.Wrap(services.ErrTranscriptionUnavailable, "pipeline", "", "exhausted", nil), false},
		{
			"terminal wrapping recoverable",
			services.Wrap(services.ErrTranscriptionUnavailable, "manual_subs", "parse_captions", "caption file unreadable",
				services.Wrap(services.ErrCaptionParse, "manual_subs", "", "zero cues", nil)),
			false,
		},
		{"invalid type", services.Wrap(services.ErrInvalidMediaType, "process", "", "subtitle", nil), false},
	}
	for _, tc := range cases {
		if got := services.Recoverable(tc.err); got != tc.want {
			t.Errorf("%s: Recoverable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMessageStripsSentinelPrefix(t *testing.T) {
	err := services.Wrap(services.ErrTranscriptionUnavailable, "", "", "no subtitles found", nil)
	if got := services.Message(err); got != "no subtitles found" {
		t.Fatalf("Message = %q", got)
	}
	if got := services.Message(nil); got != "" {
		t.Fatalf("Message(nil) = %q", got)
	}
}
