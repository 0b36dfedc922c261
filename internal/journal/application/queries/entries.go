package queries

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// ProfileProvider returns the current user profile.
type ProfileProvider interface {
	Profile() domain.Profile
}

// EntryReader reads entries from the local cache and, when a user is
// known, from the remote mirror.
type EntryReader struct {
	entries domain.EntryRepository
	mirror  domain.RemoteMirror
	profile ProfileProvider
	timeout time.Duration
	logger  *slog.Logger
}

// NewEntryReader creates an EntryReader.
func NewEntryReader(entries domain.EntryRepository, mirror domain.RemoteMirror, profile ProfileProvider, remoteTimeout time.Duration, logger *slog.Logger) *EntryReader {
	return &EntryReader{
		entries: entries,
		mirror:  mirror,
		profile: profile,
		timeout: remoteTimeout,
		logger:  observability.OrDefault(logger).With("component", "entry_reader"),
	}
}

func (r *EntryReader) owner() string {
	if !r.mirror.Enabled() {
		return ""
	}
	return r.profile.Profile().Email
}

func (r *EntryReader) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// ListEntries returns every known entry, newest first. Remote entries
// fill in dates the local cache lacks; on conflict the local copy wins.
// A remote failure falls back to local entries only.
func (r *EntryReader) ListEntries(ctx context.Context) ([]domain.EntrySnapshot, error) {
	local, err := r.entries.List(ctx)
	if err != nil {
		return nil, err
	}

	owner := r.owner()
	if owner == "" {
		return local, nil
	}

	remoteCtx, cancel := r.remoteContext(ctx)
	defer cancel()
	remote, err := r.mirror.ListEntries(remoteCtx, owner)
	if err != nil {
		r.logger.WarnContext(ctx, "remote entries unavailable, showing local only", "error", err)
		return local, nil
	}

	byDate := make(map[domain.LocalDate]domain.EntrySnapshot, len(local)+len(remote))
	for _, s := range remote {
		byDate[s.Date] = s
	}
	for _, s := range local {
		byDate[s.Date] = s
	}

	merged := make([]domain.EntrySnapshot, 0, len(byDate))
	for _, s := range byDate {
		merged = append(merged, s)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date > merged[j].Date })
	return merged, nil
}

// GetEntry returns the entry for date from the local cache, then from the
// remote. It returns domain.ErrEntryNotFound when neither has it.
func (r *EntryReader) GetEntry(ctx context.Context, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	snap, err := r.entries.FindByDate(ctx, date)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	owner := r.owner()
	if owner == "" {
		return nil, domain.ErrEntryNotFound
	}
	remoteCtx, cancel := r.remoteContext(ctx)
	defer cancel()
	snap, err = r.mirror.GetEntry(remoteCtx, owner, date)
	if err != nil {
		r.logger.WarnContext(ctx, "remote entry unavailable", "date", date, "error", err)
		return nil, domain.ErrEntryNotFound
	}
	if snap == nil {
		return nil, domain.ErrEntryNotFound
	}
	return snap, nil
}
