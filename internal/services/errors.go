package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for pipeline failures. Callers classify errors with
// errors.Is against these rather than matching message text.
var (
	// ErrMetadataFetch tags failures while resolving media metadata from the
	// extraction tool.
	ErrMetadataFetch = errors.New("metadata fetch error")
	// ErrNoSuitableFormat tags format selection failures.
	ErrNoSuitableFormat = errors.New("no suitable format")
	// ErrMissingCredential tags a transcription attempt made without a
	// configured API credential. It is a recoverable fallback trigger inside
	// the text-extraction pipeline, not a fatal condition.
	ErrMissingCredential = errors.New("missing credential")
	// ErrCaptionParse tags caption documents that yield zero parsable cues.
	ErrCaptionParse = errors.New("caption parse error")
	// ErrTranscriptionUnavailable tags the terminal failure of the
	// text-extraction fallback chain.
	ErrTranscriptionUnavailable = errors.New("transcription unavailable")
	// ErrInvalidMediaType tags requests carrying an unknown output type.
	ErrInvalidMediaType = errors.New("invalid media type")
	// ErrDelivery tags webhook artifact delivery failures. Delivery errors
	// are logged and swallowed; they never fail the overall request.
	ErrDelivery = errors.New("delivery error")
	// ErrExternalTool tags external command invocations that exited with an
	// error.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether an error should advance the text-extraction
// fallback chain instead of aborting the request. A terminal
// ErrTranscriptionUnavailable wrap stays terminal even when the failure it
// wraps carried a recoverable marker.
func Recoverable(err error) bool {
	if errors.Is(err, ErrTranscriptionUnavailable) {
		return false
	}
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrExternalTool) || errors.Is(err, ErrCaptionParse)
}

// Message extracts the human-readable portion of a wrapped pipeline error,
// stripping the sentinel prefix so API responses stay readable.
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, marker := range []error{
		ErrMetadataFetch,
		ErrNoSuitableFormat,
		ErrMissingCredential,
		ErrCaptionParse,
		ErrTranscriptionUnavailable,
		ErrInvalidMediaType,
		ErrDelivery,
		ErrExternalTool,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	return text
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
