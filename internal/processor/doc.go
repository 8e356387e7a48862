// Package processor orchestrates a single media request end to end:
// metadata probe, per-type download or transcript extraction, history
// recording, and optional webhook delivery.
package processor
