package media

import (
	"fmt"
	"strings"

	"fetchd/internal/services"
)

// Kind identifies the requested output type of a processing request.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindText  Kind = "text"
)

// ParseKind validates a request type tag. Unknown values fail with
// services.ErrInvalidMediaType before any work starts.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindVideo:
		return KindVideo, nil
	case KindAudio:
		return KindAudio, nil
	case KindText:
		return KindText, nil
	default:
		return "", services.Wrap(services.ErrInvalidMediaType, "process", "", fmt.Sprintf("unknown media type %q", strings.TrimSpace(value)), nil)
	}
}

// ArtifactKind describes what kind of file a processing run produced.
type ArtifactKind string

const (
	ArtifactVideo    ArtifactKind = "video"
	ArtifactAudio    ArtifactKind = "audio"
	ArtifactDocument ArtifactKind = "document"
)

// Artifact maps a request kind to the artifact it produces. The text path
// always ends in a rendered transcript document.
func (k Kind) Artifact() ArtifactKind {
	switch k {
	case KindVideo:
		return ArtifactVideo
	case KindAudio:
		return ArtifactAudio
	default:
		return ArtifactDocument
	}
}

// Extension returns the artifact file extension for the request kind.
func (k Kind) Extension() string {
	switch k {
	case KindVideo:
		return ".mp4"
	case KindAudio:
		return ".mp3"
	default:
		return ".docx"
	}
}

// Format describes one available encoding of the source media.
type Format struct {
	ID       string
	HasVideo bool
	HasAudio bool
	Quality  string
	Ext      string
	URL      string
}

// QualityBest marks the encoding the extraction tool itself would pick.
const QualityBest = "best"

// Info is the resolved metadata for a source URL. Created once per request
// by the metadata resolver and immutable thereafter.
type Info struct {
	Title     string
	Duration  float64
	Thumbnail string
	Formats   []Format
}

// Cue is one timed caption unit. End is never before Start; Text may be
// empty but the cue still renders.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Result is the uniform output of the orchestrator.
type Result struct {
	ArtifactPath string
	Kind         ArtifactKind
	Message      string
	Info         Info
}
