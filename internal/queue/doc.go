// Package queue persists processing requests in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages the database connection, schema initialization, and the
// pending → processing → completed/failed transitions the orchestrator
// records for every request. Rows capture the source URL, requested kind,
// resolved title, artifact path, and failure message so the API and the CLI
// history command can report past runs.
//
// The database is a request history, not a work queue: requests are
// processed synchronously by the caller that inserted them. Schema changes
// bump the version in schema.go; users clear the database to adopt the new
// schema.
package queue
