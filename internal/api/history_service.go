package api

import (
	"context"

	"fetchd/internal/queue"
)

// HistoryReader abstracts the history persistence the API queries.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]*queue.Request, error)
	Summarize(ctx context.Context) (queue.Summary, error)
}

// HistoryService exposes read-only request history returning API DTOs.
type HistoryService struct {
	store HistoryReader
}

// NewHistoryService constructs a HistoryService around the reader.
func NewHistoryService(store HistoryReader) *HistoryService {
	if store == nil {
		return nil
	}
	return &HistoryService{store: store}
}

// List returns recent requests, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]RequestItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	requests, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromRequests(requests), nil
}

// Summary returns aggregate history counts.
func (s *HistoryService) Summary(ctx context.Context) (QueueSummary, error) {
	if s == nil || s.store == nil {
		return QueueSummary{}, nil
	}
	summary, err := s.store.Summarize(ctx)
	if err != nil {
		return QueueSummary{}, err
	}
	return FromSummary(summary), nil
}
