package textextract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fetchd/internal/media"
	"fetchd/internal/services"
	"fetchd/internal/testsupport"
	"fetchd/internal/textextract"
	"fetchd/internal/transcript"
)

const captionFixture = `WEBVTT

00:00:00.000 --> 00:00:03.000
Manual caption line.

00:00:03.000 --> 00:00:06.000
Second line.
`

type fakeDownloader struct {
	downloadDir string

	audioErr     error
	audioCalls   int
	subErrManual error
	subErrAuto   error
	manualFiles  map[string]string
	autoFiles    map[string]string
	manualCalls  int
	autoCalls    int
}

func (f *fakeDownloader) Probe(ctx context.Context, url string) (*media.Info, error) {
	return nil, errors.New("not used")
}

func (f *fakeDownloader) DownloadVideo(ctx context.Context, url, outputPath string) error {
	return errors.New("not used")
}

func (f *fakeDownloader) DownloadAudio(ctx context.Context, url, outputPath string) error {
	f.audioCalls++
	if f.audioErr != nil {
		return f.audioErr
	}
	return os.WriteFile(outputPath, []byte("audio"), 0o644)
}

func (f *fakeDownloader) DownloadSubtitles(ctx context.Context, url, outputTemplate string, auto bool) error {
	files := f.manualFiles
	if auto {
		f.autoCalls++
		if f.subErrAuto != nil {
			return f.subErrAuto
		}
		files = f.autoFiles
	} else {
		f.manualCalls++
		if f.subErrManual != nil {
			return f.subErrManual
		}
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(f.downloadDir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type fakeTranscriber struct {
	configured bool
	text       string
	err        error
	calls      int
}

func (f *fakeTranscriber) Configured() bool { return f.configured }

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newPipeline(t *testing.T) (*textextract.Pipeline, *fakeDownloader, *fakeTranscriber, string) {
	t.Helper()
	dir := t.TempDir()
	downloader := &fakeDownloader{downloadDir: dir}
	transcriber := &fakeTranscriber{}
	pipeline := textextract.New(downloader, transcriber, dir, nil)
	return pipeline, downloader, transcriber, dir
}

func TestRunTranscribeSuccess(t *testing.T) {
	pipeline, downloader, transcriber, dir := newPipeline(t)
	transcriber.configured = true
	transcriber.text = "spoken words"

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34", Duration: 120}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Stage != textextract.StageTranscribe {
		t.Fatalf("stage = %q", outcome.Stage)
	}
	if len(outcome.Cues) != 1 || outcome.Cues[0].End != 120 || outcome.Cues[0].Text != "spoken words" {
		t.Fatalf("cues = %+v", outcome.Cues)
	}
	if downloader.manualCalls != 0 || downloader.autoCalls != 0 {
		t.Fatal("caption stages ran despite transcription success")
	}

	for _, name := range []string{"talk_ab12cd34.txt", "talk_ab12cd34.vtt", "talk_ab12cd34.docx"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}
	vtt, err := os.ReadFile(filepath.Join(dir, "talk_ab12cd34.vtt"))
	if err != nil {
		t.Fatalf("read vtt: %v", err)
	}
	cues, err := transcript.Parse(string(vtt))
	if err != nil || len(cues) != 1 {
		t.Fatalf("single-cue vtt unparseable: %v (%d cues)", err, len(cues))
	}
}

func TestRunFallsBackToManualCaptions(t *testing.T) {
	pipeline, downloader, transcriber, _ := newPipeline(t)
	transcriber.configured = false
	downloader.manualFiles = map[string]string{"talk_ab12cd34.en.vtt": captionFixture}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Stage != textextract.StageManualSubs {
		t.Fatalf("stage = %q", outcome.Stage)
	}
	if len(outcome.Cues) != 2 {
		t.Fatalf("got %d cues", len(outcome.Cues))
	}
	if transcriber.calls != 0 {
		t.Fatal("transcriber called without credential")
	}
	if downloader.autoCalls != 0 {
		t.Fatal("auto stage ran after manual success")
	}
}

func TestRunFallsBackToAutoCaptions(t *testing.T) {
	pipeline, downloader, _, _ := newPipeline(t)
	downloader.subErrManual = services.Wrap(services.ErrExternalTool, "download", "download_subtitles", "no subs", nil)
	downloader.autoFiles = map[string]string{"talk_ab12cd34.en.vtt": captionFixture}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Stage != textextract.StageAutoSubs {
		t.Fatalf("stage = %q", outcome.Stage)
	}
}

func TestRunTranscriberFailureAdvancesChain(t *testing.T) {
	pipeline, downloader, transcriber, _ := newPipeline(t)
	transcriber.configured = true
	transcriber.err = services.Wrap(services.ErrExternalTool, "transcribe", "call_api", "rate limited", nil)
	downloader.manualFiles = map[string]string{"talk_ab12cd34.en.vtt": captionFixture}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Stage != textextract.StageManualSubs {
		t.Fatalf("stage = %q", outcome.Stage)
	}
	if transcriber.calls != 1 {
		t.Fatalf("transcriber calls = %d", transcriber.calls)
	}
}

func TestRunExhaustedChainIsTerminal(t *testing.T) {
	pipeline, downloader, _, _ := newPipeline(t)
	downloader.subErrManual = services.Wrap(services.ErrExternalTool, "download", "download_subtitles", "no subs", nil)
	downloader.subErrAuto = services.Wrap(services.ErrExternalTool, "download", "download_subtitles", "no auto subs", nil)

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	_, err := pipeline.Run(context.Background(), req)
	if !errors.Is(err, services.ErrTranscriptionUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptionUnavailable", err)
	}
	if !strings.Contains(err.Error(), "credential") {
		t.Fatalf("terminal error should carry guidance: %v", err)
	}
	if downloader.autoCalls != 1 {
		t.Fatalf("auto stage calls = %d", downloader.autoCalls)
	}
}

func TestRunUnparseableManualCaptionsSkipAutoStage(t *testing.T) {
	pipeline, downloader, _, _ := newPipeline(t)
	downloader.manualFiles = map[string]string{"talk_ab12cd34.en.vtt": "WEBVTT\n\ngarbage without timings\n"}
	downloader.autoFiles = map[string]string{"talk_ab12cd34.en.vtt": captionFixture}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	_, err := pipeline.Run(context.Background(), req)
	if !errors.Is(err, services.ErrTranscriptionUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptionUnavailable", err)
	}
	if downloader.autoCalls != 0 {
		t.Fatal("auto stage ran despite manual captions being produced")
	}
}

func TestRunPicksFirstCaptionFileDeterministically(t *testing.T) {
	pipeline, downloader, _, _ := newPipeline(t)
	downloader.manualFiles = map[string]string{
		"talk_ab12cd34.en.vtt": captionFixture,
		"talk_ab12cd34.de.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nDeutsche Zeile.\n",
	}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// .de sorts before .en.
	if len(outcome.Cues) != 1 || outcome.Cues[0].Text != "Deutsche Zeile." {
		t.Fatalf("unexpected cue pick: %+v", outcome.Cues)
	}
}

func TestRunRequiresStem(t *testing.T) {
	pipeline, _, _, _ := newPipeline(t)
	if _, err := pipeline.Run(context.Background(), textextract.Request{URL: "https://example.com/v"}); err == nil {
		t.Fatal("expected error for missing stem")
	}
}

func TestRunIgnoresTranscriptVTTLeftovers(t *testing.T) {
	pipeline, downloader, _, dir := newPipeline(t)
	// A single-cue transcript from a previous run of the same source.
	testsupport.WriteFile(t, filepath.Join(dir, "talk_ab12cd34.vtt"), []byte(transcript.WriteSingleCueVTT("old run", 10)))
	downloader.manualFiles = map[string]string{"talk_ab12cd34.en.vtt": captionFixture}

	req := textextract.Request{URL: "https://example.com/v", Stem: "talk_ab12cd34"}
	outcome, err := pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.Cues) != 2 || outcome.Cues[0].Text != "Manual caption line." {
		t.Fatalf("leftover transcript captions were picked: %+v", outcome.Cues)
	}
}
