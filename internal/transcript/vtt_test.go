package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fetchd/internal/media"
	"fetchd/internal/services"
	"fetchd/internal/transcript"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

1
00:00:01.000 --> 00:00:04.500
Welcome to the show.

2
00:00:05.000 --> 00:00:09.250 position:50%
Today we talk about fjords.
They are deep.

NOTE internal marker

00:01:05.000 --> 00:01:09.000
Closing remarks.
`

func TestParseExtractsCues(t *testing.T) {
	cues, err := transcript.Parse(sampleVTT)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if cues[0].Start != 1 || cues[0].End != 4.5 {
		t.Fatalf("first cue timing = %v-%v", cues[0].Start, cues[0].End)
	}
	if cues[0].Text != "Welcome to the show." {
		t.Fatalf("first cue text = %q", cues[0].Text)
	}
	if cues[1].Text != "Today we talk about fjords.\nThey are deep." {
		t.Fatalf("multi-line cue text = %q", cues[1].Text)
	}
	if cues[2].Start != 65 || cues[2].End != 69 {
		t.Fatalf("last cue timing = %v-%v", cues[2].Start, cues[2].End)
	}
}

func TestParseMinimalSingleCue(t *testing.T) {
	content := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello world\n"
	cues, err := transcript.Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 2 || cues[0].Text != "Hello world" {
		t.Fatalf("cue = %+v, want {0 2 Hello world}", cues[0])
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	content := strings.ReplaceAll(sampleVTT, "\n", "\r\n")
	cues, err := transcript.Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
}

func TestParseRejectsCuelessContent(t *testing.T) {
	_, err := transcript.Parse("WEBVTT\n\nNOTE nothing here\n")
	if !errors.Is(err, services.ErrCaptionParse) {
		t.Fatalf("err = %v, want ErrCaptionParse", err)
	}
}

func TestRenderTextSkipsEmptyBodies(t *testing.T) {
	cues := []media.Cue{
		{Start: 0, End: 1, Text: "First line."},
		{Start: 1, End: 2, Text: "   "},
		{Start: 2, End: 3, Text: "Second line."},
	}
	got := transcript.RenderText(cues)
	if got != "First line.\nSecond line." {
		t.Fatalf("RenderText = %q", got)
	}
}

func TestWriteSingleCueVTTRoundTrips(t *testing.T) {
	content := transcript.WriteSingleCueVTT("Full transcript body.", 125.5)
	cues, err := transcript.Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 125.5 {
		t.Fatalf("cue timing = %v-%v", cues[0].Start, cues[0].End)
	}
	if cues[0].Text != "Full transcript body." {
		t.Fatalf("cue text = %q", cues[0].Text)
	}
}

func TestFormatCueSpan(t *testing.T) {
	got := transcript.FormatCueSpan(media.Cue{Start: 65, End: 69.9})
	if got != "[00:01:05 - 00:01:09] " {
		t.Fatalf("FormatCueSpan = %q", got)
	}
}

func TestWriteDocumentCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "transcript.docx")
	cues := []media.Cue{
		{Start: 0, End: 4, Text: "Hello."},
		{Start: 4, End: 8, Text: "Goodbye."},
	}
	if err := transcript.WriteDocument(cues, path); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat document: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("document is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	// Word documents are zip archives.
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("unexpected document magic: %x", data[:4])
	}
}
