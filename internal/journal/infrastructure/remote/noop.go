package remote

import (
	"context"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// NoopMirror is used when no remote store is configured.
type NoopMirror struct{}

func (NoopMirror) Enabled() bool { return false }

func (NoopMirror) SaveEntry(context.Context, string, domain.EntrySnapshot) error { return nil }

func (NoopMirror) GetEntry(context.Context, string, domain.LocalDate) (*domain.EntrySnapshot, error) {
	return nil, nil
}

func (NoopMirror) ListEntries(context.Context, string) ([]domain.EntrySnapshot, error) {
	return nil, nil
}

func (NoopMirror) AppendHistory(context.Context, string, domain.HistoryEntry) error { return nil }

func (NoopMirror) ListHistory(context.Context, string, domain.HistoryKind) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (NoopMirror) SaveProfile(context.Context, domain.Profile) error { return nil }

func (NoopMirror) Ping(context.Context) error { return nil }

func (NoopMirror) Close(context.Context) error { return nil }
