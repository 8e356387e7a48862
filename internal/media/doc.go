// Package media holds the domain model shared across the processing
// pipeline: resolved metadata, format descriptors, transcript cues, the
// uniform processing result, and the derived artifact naming helpers.
//
// Everything here is a plain value type; resolution, download, and rendering
// live in the service packages. Keep this package free of I/O so the
// selection and naming rules stay trivially testable.
package media
