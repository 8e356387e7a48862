package media_test

import (
	"errors"
	"testing"

	"fetchd/internal/media"
	"fetchd/internal/services"
)

func TestSelectFormatPrefersBest(t *testing.T) {
	formats := []media.Format{
		{ID: "18", HasVideo: true, HasAudio: true, Quality: "medium"},
		{ID: "22", HasVideo: true, HasAudio: true, Quality: media.QualityBest},
		{ID: "140", HasAudio: true},
	}
	got, err := media.SelectFormat(formats, true)
	if err != nil {
		t.Fatalf("SelectFormat: %v", err)
	}
	if got.ID != "22" {
		t.Fatalf("selected %q, want 22", got.ID)
	}
}

func TestSelectFormatAudioOnlyPredicate(t *testing.T) {
	formats := []media.Format{
		{ID: "22", HasVideo: true, HasAudio: true, Quality: media.QualityBest},
		{ID: "140", HasAudio: true},
	}
	got, err := media.SelectFormat(formats, false)
	if err != nil {
		t.Fatalf("SelectFormat: %v", err)
	}
	if got.ID != "140" || got.HasVideo {
		t.Fatalf("selected %+v, want audio-only 140", got)
	}
}

func TestSelectFormatFailsWithZeroMatches(t *testing.T) {
	formats := []media.Format{{ID: "v", HasVideo: true}}
	if _, err := media.SelectFormat(formats, false); !errors.Is(err, services.ErrNoSuitableFormat) {
		t.Fatalf("expected ErrNoSuitableFormat, got %v", err)
	}
	if _, err := media.SelectFormat(nil, true); !errors.Is(err, services.ErrNoSuitableFormat) {
		t.Fatalf("expected ErrNoSuitableFormat for empty list, got %v", err)
	}
}

func TestSelectFormatFailsWhenTieHasNoBest(t *testing.T) {
	formats := []media.Format{
		{ID: "18", HasVideo: true, HasAudio: true, Quality: "medium"},
		{ID: "22", HasVideo: true, HasAudio: true, Quality: "high"},
	}
	_, err := media.SelectFormat(formats, true)
	if !errors.Is(err, services.ErrNoSuitableFormat) {
		t.Fatalf("expected ErrNoSuitableFormat on ambiguous tie, got %v", err)
	}
}

func TestSelectFormatSingleMatchWinsWithoutBestMark(t *testing.T) {
	formats := []media.Format{
		{ID: "140", HasAudio: true, Quality: "medium"},
		{ID: "22", HasVideo: true, HasAudio: true, Quality: "high"},
	}
	got, err := media.SelectFormat(formats, false)
	if err != nil {
		t.Fatalf("SelectFormat: %v", err)
	}
	if got.ID != "140" {
		t.Fatalf("selected %q, want 140", got.ID)
	}
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"video", "audio", "text", " VIDEO "} {
		if _, err := media.ParseKind(value); err != nil {
			t.Errorf("ParseKind(%q): %v", value, err)
		}
	}
	if _, err := media.ParseKind("subtitle"); !errors.Is(err, services.ErrInvalidMediaType) {
		t.Fatalf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestKindArtifact(t *testing.T) {
	if media.KindText.Artifact() != media.ArtifactDocument {
		t.Fatal("text requests should produce documents")
	}
	if media.KindVideo.Extension() != ".mp4" || media.KindAudio.Extension() != ".mp3" || media.KindText.Extension() != ".docx" {
		t.Fatal("unexpected artifact extensions")
	}
}
