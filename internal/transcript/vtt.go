package transcript

import (
	"fmt"
	"strings"

	"fetchd/internal/media"
	"fetchd/internal/services"
)

// Parse extracts timed cues from WebVTT content. Cue blocks are separated
// by blank lines; a block contributes a cue when it contains a timing line
// of the form "HH:MM:SS.mmm --> HH:MM:SS.mmm". Header lines and bare cue
// indexes are discarded.
func Parse(content string) ([]media.Cue, error) {
	var cues []media.Cue
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		cue, ok := parseBlock(block)
		if !ok {
			continue
		}
		cues = append(cues, cue)
	}
	if len(cues) == 0 {
		return nil, services.Wrap(services.ErrCaptionParse, "convert", "parse_vtt", "no cues found in caption content", nil)
	}
	return cues, nil
}

func parseBlock(block string) (media.Cue, bool) {
	var cue media.Cue
	timed := false
	var text []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") {
			continue
		}
		if strings.Contains(line, "-->") {
			start, end, err := parseTimingLine(line)
			if err != nil {
				continue
			}
			cue.Start = start
			cue.End = end
			timed = true
			continue
		}
		if !timed {
			// Cue identifier or numeric index preceding the timing line.
			continue
		}
		text = append(text, line)
	}
	if !timed {
		return media.Cue{}, false
	}
	cue.Text = strings.Join(text, "\n")
	return cue, true
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	// Trailing cue settings (position, align) follow the end timestamp.
	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := media.ParseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := media.ParseClock(endField[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// RenderText joins cue bodies into a plain-text transcript, one cue per
// line. Empty cue bodies are skipped.
func RenderText(cues []media.Cue) string {
	lines := make([]string, 0, len(cues))
	for _, cue := range cues {
		body := strings.TrimSpace(cue.Text)
		if body == "" {
			continue
		}
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}

// WriteSingleCueVTT renders a minimal WebVTT file wrapping the full
// transcript text in one cue spanning the given duration.
func WriteSingleCueVTT(text string, duration float64) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	b.WriteString(media.FormatCaptionTimestamp(0))
	b.WriteString(" --> ")
	b.WriteString(media.FormatCaptionTimestamp(duration))
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")
	return b.String()
}

// FormatCueSpan renders the bracketed clock range prefixed to each
// document paragraph, e.g. "[00:01:05 - 00:01:09] ".
func FormatCueSpan(cue media.Cue) string {
	return fmt.Sprintf("[%s - %s] ", media.FormatClock(cue.Start), media.FormatClock(cue.End))
}
