package media_test

import (
	"testing"

	"fetchd/internal/media"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{3661, "01:01:01"},
		{59, "00:00:59"},
		{0, "00:00:00"},
		{60, "00:01:00"},
		{3599.9, "00:59:59"},
		{7322.4, "02:02:02"},
		{-5, "00:00:00"},
	}
	for _, tc := range cases {
		if got := media.FormatClock(tc.seconds); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseClockRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 59, 61, 3661, 86399} {
		parsed, err := media.ParseClock(media.FormatClock(seconds))
		if err != nil {
			t.Fatalf("ParseClock: %v", err)
		}
		if parsed != seconds {
			t.Errorf("round trip %v -> %v", seconds, parsed)
		}
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "12:34", "aa:bb:cc", "1:2:3:4"} {
		if _, err := media.ParseClock(value); err == nil {
			t.Errorf("ParseClock(%q) should fail", value)
		}
	}
}

func TestFormatCaptionTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{2, "00:00:02.000"},
		{83.5, "00:01:23.500"},
		{3661.042, "01:01:01.042"},
	}
	for _, tc := range cases {
		if got := media.FormatCaptionTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatCaptionTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
