// Package services defines shared utilities consumed by the processing
// pipeline and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and stage names for
//     logging and tracing.
//   - The structured error markers plus the Wrap helper that give every
//     pipeline failure a stable classification (metadata fetch, missing
//     credential, caption parse, and so on).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
