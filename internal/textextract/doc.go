// Package textextract turns a media source into a transcript document,
// trying speech-to-text first and falling back to uploader captions and
// machine-generated captions in order.
package textextract
