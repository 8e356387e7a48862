package media

import (
	"fmt"

	"fetchd/internal/services"
)

// SelectFormat picks the encoding the downloader should request. When
// wantVideo is set the format must carry both video and audio streams;
// otherwise it must be audio-only.
//
// Selection is deterministic and never guesses: a single predicate match is
// returned as-is, multiple matches require one marked with QualityBest, and
// everything else fails with services.ErrNoSuitableFormat.
func SelectFormat(formats []Format, wantVideo bool) (Format, error) {
	matches := make([]Format, 0, len(formats))
	for _, f := range formats {
		if wantVideo {
			if f.HasVideo && f.HasAudio {
				matches = append(matches, f)
			}
			continue
		}
		if !f.HasVideo && f.HasAudio {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return Format{}, services.Wrap(services.ErrNoSuitableFormat, "select", "", describeWant(wantVideo), nil)
	case 1:
		return matches[0], nil
	}

	for _, f := range matches {
		if f.Quality == QualityBest {
			return f, nil
		}
	}
	return Format{}, services.Wrap(
		services.ErrNoSuitableFormat,
		"select", "",
		fmt.Sprintf("no preferred format among %d candidates", len(matches)),
		nil,
	)
}

func describeWant(wantVideo bool) string {
	if wantVideo {
		return "no format with both video and audio streams"
	}
	return "no audio-only format"
}
