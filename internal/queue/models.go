package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a processing request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(value string) bool {
	_, ok := statusSet[Status(strings.TrimSpace(value))]
	return ok
}

// Request represents one processing request persisted in SQLite.
type Request struct {
	ID           int64
	URL          string
	Kind         string
	Status       Status
	Title        string
	Duration     float64
	ArtifactPath string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetFailed marks the request failed with the supplied message.
func (r *Request) SetFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = strings.TrimSpace(message)
}

// SetCompleted marks the request completed with the produced artifact.
func (r *Request) SetCompleted(artifactPath string) {
	r.Status = StatusCompleted
	r.ArtifactPath = artifactPath
	r.ErrorMessage = ""
}

// Summary describes aggregated request counts per lifecycle state.
type Summary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}
