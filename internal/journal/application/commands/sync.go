package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Flusher saves the current entry immediately.
type Flusher interface {
	Flush(ctx context.Context) error
}

// HistoryResyncer re-pushes history entries the remote never acknowledged.
type HistoryResyncer interface {
	ResyncPending(ctx context.Context) (int, error)
}

// SyncStateProvider exposes the outcome of the last saves.
type SyncStateProvider interface {
	State() services.SyncState
}

// SyncNowResult reports a manual sync.
type SyncNowResult struct {
	State         services.SyncState
	HistoryPushed int
	// HistoryError is set when the history re-push stopped early.
	HistoryError string
}

// SyncNowHandler runs a full autosave and re-pushes pending history.
type SyncNowHandler struct {
	saver   Flusher
	history HistoryResyncer
	status  SyncStateProvider
	logger  *slog.Logger
}

// NewSyncNowHandler creates a new SyncNowHandler.
func NewSyncNowHandler(saver Flusher, history HistoryResyncer, status SyncStateProvider, logger *slog.Logger) *SyncNowHandler {
	return &SyncNowHandler{
		saver:   saver,
		history: history,
		status:  status,
		logger:  observability.OrDefault(logger).With("component", "sync"),
	}
}

// Handle returns an error only when the local save fails. Remote outcomes
// are in the result.
func (h *SyncNowHandler) Handle(ctx context.Context) (*SyncNowResult, error) {
	if err := h.saver.Flush(ctx); err != nil {
		return nil, err
	}

	result := &SyncNowResult{}
	pushed, err := h.history.ResyncPending(ctx)
	result.HistoryPushed = pushed
	if err != nil {
		h.logger.WarnContext(ctx, "history re-push stopped", "pushed", pushed, "error", err)
		result.HistoryError = err.Error()
	}
	result.State = h.status.State()
	return result, nil
}
