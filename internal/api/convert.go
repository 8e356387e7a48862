package api

import (
	"strconv"
	"time"

	"fetchd/internal/media"
	"fetchd/internal/queue"
)

// FromRequest converts a history row into its transport form.
func FromRequest(req *queue.Request) RequestItem {
	if req == nil {
		return RequestItem{}
	}
	item := RequestItem{
		ID:           req.ID,
		URL:          req.URL,
		Kind:         req.Kind,
		Status:       string(req.Status),
		Title:        req.Title,
		Duration:     req.Duration,
		ArtifactPath: req.ArtifactPath,
		ErrorMessage: req.ErrorMessage,
	}
	if !req.CreatedAt.IsZero() {
		item.CreatedAt = req.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !req.UpdatedAt.IsZero() {
		item.UpdatedAt = req.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return item
}

// FromRequests converts history rows, preserving order.
func FromRequests(requests []*queue.Request) []RequestItem {
	items := make([]RequestItem, 0, len(requests))
	for _, req := range requests {
		items = append(items, FromRequest(req))
	}
	return items
}

// FromSummary converts store counts into the transport summary.
func FromSummary(summary queue.Summary) QueueSummary {
	return QueueSummary{
		Total:      summary.Total,
		Pending:    summary.Pending,
		Processing: summary.Processing,
		Completed:  summary.Completed,
		Failed:     summary.Failed,
	}
}

// FromResult builds the success response for a processing run.
func FromResult(result *media.Result, fileURL string) ProcessMediaResponse {
	resp := ProcessMediaResponse{
		Success: true,
		Message: result.Message,
		FileURL: fileURL,
	}
	resp.MediaInfo = &MediaInfo{
		Title:     result.Info.Title,
		Duration:  strconv.FormatFloat(result.Info.Duration, 'f', -1, 64),
		Thumbnail: result.Info.Thumbnail,
	}
	return resp
}
