// Package daemon runs the long-lived fetchd service: it owns the HTTP
// surface, serializes processing requests, and enforces single-instance
// execution with a flock-based lock file.
package daemon
