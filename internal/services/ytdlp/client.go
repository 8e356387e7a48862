package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"fetchd/internal/media"
	"fetchd/internal/services"
)

var commandContext = exec.CommandContext

// Client defines the downloader behaviour the pipeline depends on.
type Client interface {
	Probe(ctx context.Context, url string) (*media.Info, error)
	DownloadVideo(ctx context.Context, url, outputPath string) error
	DownloadAudio(ctx context.Context, url, outputPath string) error
	DownloadSubtitles(ctx context.Context, url, outputTemplate string, auto bool) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds each tool invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the yt-dlp command-line downloader.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// videoFormat asks for an mp4 container with merged audio, falling back
// to the muxer's best pick when no mp4 track pair exists.
const videoFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

type probePayload struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail"`
	FormatID  string  `json:"format_id"`
	Formats   []struct {
		FormatID   string `json:"format_id"`
		Ext        string `json:"ext"`
		VCodec     string `json:"vcodec"`
		ACodec     string `json:"acodec"`
		FormatNote string `json:"format_note"`
		URL        string `json:"url"`
	} `json:"formats"`
}

// Probe fetches source metadata without downloading anything.
func (c *CLI) Probe(ctx context.Context, url string) (*media.Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, services.Wrap(services.ErrMetadataFetch, "probe", "validate_url", "source url required", nil)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()
	cmd := commandContext(ctx, c.binary, "-J", "--no-playlist", url) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, services.Wrap(services.ErrMetadataFetch, "probe", "run_tool", toolMessage(&stderr), err)
	}

	var payload probePayload
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return nil, services.Wrap(services.ErrMetadataFetch, "probe", "decode_metadata", "unparseable metadata payload", err)
	}
	if payload.Title == "" && len(payload.Formats) == 0 {
		return nil, services.Wrap(services.ErrMetadataFetch, "probe", "decode_metadata", "empty metadata payload", nil)
	}

	preferred := preferredFormatIDs(payload.FormatID)
	info := &media.Info{
		Title:     payload.Title,
		Duration:  payload.Duration,
		Thumbnail: payload.Thumbnail,
	}
	for _, f := range payload.Formats {
		format := media.Format{
			ID:       f.FormatID,
			HasVideo: f.VCodec != "" && f.VCodec != "none",
			HasAudio: f.ACodec != "" && f.ACodec != "none",
			Ext:      f.Ext,
			URL:      f.URL,
			Quality:  f.FormatNote,
		}
		if preferred[f.FormatID] {
			format.Quality = media.QualityBest
		}
		info.Formats = append(info.Formats, format)
	}
	return info, nil
}

// preferredFormatIDs splits yt-dlp's selected format expression, which
// joins merged tracks with "+".
func preferredFormatIDs(selection string) map[string]bool {
	ids := make(map[string]bool)
	for _, id := range strings.Split(selection, "+") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids[id] = true
		}
	}
	return ids
}

// DownloadVideo fetches the source as an mp4 file at outputPath.
func (c *CLI) DownloadVideo(ctx context.Context, url, outputPath string) error {
	if outputPath == "" {
		return errors.New("output path required")
	}
	return c.run(ctx, "download_video", "-f", videoFormat, "-o", outputPath, "--no-playlist", url)
}

// DownloadAudio extracts the source audio track as an mp3 at outputPath.
func (c *CLI) DownloadAudio(ctx context.Context, url, outputPath string) error {
	if outputPath == "" {
		return errors.New("output path required")
	}
	return c.run(ctx, "download_audio", "-x", "--audio-format", "mp3", "-o", outputPath, "--no-playlist", url)
}

// DownloadSubtitles fetches caption files next to outputTemplate without
// downloading the media itself. auto selects machine-generated captions
// instead of uploader-provided ones.
func (c *CLI) DownloadSubtitles(ctx context.Context, url, outputTemplate string, auto bool) error {
	if outputTemplate == "" {
		return errors.New("output template required")
	}
	subFlag := "--write-sub"
	if auto {
		subFlag = "--write-auto-sub"
	}
	return c.run(ctx, "download_subtitles", subFlag, "--skip-download", "--sub-format", "vtt", "-o", outputTemplate, "--no-playlist", url)
}

func (c *CLI) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *CLI) run(ctx context.Context, operation string, args ...string) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "download", operation, toolMessage(&stderr), err)
	}
	return nil
}

func toolMessage(stderr *bytes.Buffer) string {
	text := strings.TrimSpace(stderr.String())
	if text == "" {
		return "downloader exited with an error"
	}
	lines := strings.Split(text, "\n")
	return fmt.Sprintf("downloader failed: %s", strings.TrimSpace(lines[len(lines)-1]))
}

var _ Client = (*CLI)(nil)
