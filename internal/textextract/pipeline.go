package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fetchd/internal/fileutil"
	"fetchd/internal/logging"
	"fetchd/internal/media"
	"fetchd/internal/services"
	"fetchd/internal/services/ytdlp"
	"fetchd/internal/transcript"
)

// Stage names, in attempt order.
const (
	StageTranscribe = "transcribe"
	StageManualSubs = "manual_subs"
	StageAutoSubs   = "auto_subs"
)

// Transcriber is the speech-to-text surface the pipeline depends on.
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, path string) (string, error)
}

// Request carries the probed source details into the pipeline.
type Request struct {
	URL      string
	Stem     string
	Title    string
	Duration float64
}

// Outcome reports the rendered document and which stage produced it.
type Outcome struct {
	DocumentPath string
	Stage        string
	Cues         []media.Cue
}

// Pipeline runs the ordered extraction stages against one source.
type Pipeline struct {
	downloader  ytdlp.Client
	transcriber Transcriber
	downloadDir string
	logger      *slog.Logger
}

// New constructs a Pipeline writing artifacts under downloadDir.
func New(downloader ytdlp.Client, transcriber Transcriber, downloadDir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		downloader:  downloader,
		transcriber: transcriber,
		downloadDir: downloadDir,
		logger:      logging.NewComponentLogger(logger, "textextract"),
	}
}

type stage struct {
	name string
	run  func(ctx context.Context, req Request) ([]media.Cue, error)
}

// Run attempts each stage in order until one yields cues, then renders
// them into a Word document. Recoverable stage failures advance the
// chain; anything else is terminal.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.Stem) == "" {
		return nil, fmt.Errorf("artifact stem required")
	}
	log := logging.WithContext(ctx, p.logger)

	stages := []stage{
		{name: StageTranscribe, run: p.transcribeStage},
		{name: StageManualSubs, run: func(ctx context.Context, req Request) ([]media.Cue, error) {
			return p.captionStage(ctx, req, false)
		}},
		{name: StageAutoSubs, run: func(ctx context.Context, req Request) ([]media.Cue, error) {
			return p.captionStage(ctx, req, true)
		}},
	}

	var lastErr error
	for _, s := range stages {
		cues, err := s.run(services.WithStage(ctx, s.name), req)
		if err == nil {
			log.Info("text extraction succeeded", logging.String("stage", s.name))
			return p.finish(req, s.name, cues)
		}
		if !services.Recoverable(err) {
			return nil, err
		}
		log.Warn("extraction stage failed, trying next",
			logging.String("stage", s.name),
			logging.Error(err))
		lastErr = err
	}

	return nil, services.Wrap(
		services.ErrTranscriptionUnavailable,
		"extract_text",
		"exhaust_stages",
		"no transcript available; configure a speech-to-text credential or choose a source with captions",
		lastErr,
	)
}

func (p *Pipeline) finish(req Request, stageName string, cues []media.Cue) (*Outcome, error) {
	documentPath := filepath.Join(p.downloadDir, req.Stem+".docx")
	if err := transcript.WriteDocument(cues, documentPath); err != nil {
		return nil, fmt.Errorf("render transcript document: %w", err)
	}
	return &Outcome{DocumentPath: documentPath, Stage: stageName, Cues: cues}, nil
}

// transcribeStage downloads the audio track and runs speech-to-text.
// The transcript is persisted as plain text and as a single-cue caption
// file alongside the audio.
func (p *Pipeline) transcribeStage(ctx context.Context, req Request) ([]media.Cue, error) {
	if p.transcriber == nil || !p.transcriber.Configured() {
		return nil, services.Wrap(services.ErrMissingCredential, StageTranscribe, "check_credential", "no speech-to-text credential configured", nil)
	}

	audioPath := filepath.Join(p.downloadDir, req.Stem+".mp3")
	if err := p.downloader.DownloadAudio(ctx, req.URL, audioPath); err != nil {
		return nil, err
	}

	text, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	if err := fileutil.WriteFileAtomic(filepath.Join(p.downloadDir, req.Stem+".txt"), []byte(text+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript text: %w", err)
	}
	vtt := transcript.WriteSingleCueVTT(text, req.Duration)
	if err := fileutil.WriteFileAtomic(filepath.Join(p.downloadDir, req.Stem+".vtt"), []byte(vtt), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript captions: %w", err)
	}

	return []media.Cue{{Start: 0, End: req.Duration, Text: text}}, nil
}

// captionStage fetches caption files and parses the first one. A parse
// failure on a real caption file is terminal: the source has captions,
// they just could not be read, and machine-generated ones would not fare
// better.
func (p *Pipeline) captionStage(ctx context.Context, req Request, auto bool) ([]media.Cue, error) {
	template := filepath.Join(p.downloadDir, req.Stem)
	if err := p.downloader.DownloadSubtitles(ctx, req.URL, template, auto); err != nil {
		return nil, err
	}

	files, err := p.findCaptionFiles(req.Stem)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrCaptionParse, stageName(auto), "find_captions", "no caption files produced", nil)
	}

	content, err := os.ReadFile(files[0])
	if err != nil {
		return nil, fmt.Errorf("read caption file: %w", err)
	}
	cues, err := transcript.Parse(string(content))
	if err != nil {
		return nil, services.Wrap(services.ErrTranscriptionUnavailable, stageName(auto), "parse_captions", "caption file unreadable", err)
	}
	return cues, nil
}

func stageName(auto bool) string {
	if auto {
		return StageAutoSubs
	}
	return StageManualSubs
}

// findCaptionFiles lists caption files the downloader produced for the
// stem, sorted so the pick is deterministic.
func (p *Pipeline) findCaptionFiles(stem string) ([]string, error) {
	entries, err := os.ReadDir(p.downloadDir)
	if err != nil {
		return nil, fmt.Errorf("list download directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, stem+".") || !strings.HasSuffix(name, ".vtt") {
			continue
		}
		// The single-cue transcript artifact is not downloader output.
		if name == stem+".vtt" {
			continue
		}
		files = append(files, filepath.Join(p.downloadDir, name))
	}
	sort.Strings(files)
	return files, nil
}
