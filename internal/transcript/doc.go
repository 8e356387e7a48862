// Package transcript converts WebVTT caption text into transcript
// artifacts: parsed cues, plain text, and formatted Word documents.
package transcript
