package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// EntrySourceKind says where the current entry came from at startup.
type EntrySourceKind string

const (
	SourceNew    EntrySourceKind = "new"
	SourceLocal  EntrySourceKind = "local"
	SourceRemote EntrySourceKind = "remote"
	SourceReset  EntrySourceKind = "reset"
)

// BootstrapResult describes a startup.
type BootstrapResult struct {
	Reset  bool
	Source EntrySourceKind
}

// Bootstrapper loads state at process start.
type Bootstrapper struct {
	Store    *DayStore
	Monitor  *DayBoundaryMonitor
	History  *HistoryRecorder
	Profiles *ProfileService
	Status   *SyncStatus
	Entries  domain.EntryRepository
	Flags    domain.FlagRepository
	Mirror   domain.RemoteMirror
	Clock    domain.Clock
	Logger   *slog.Logger
	// RemoteTimeout bounds the remote fetch of today's entry.
	RemoteTimeout time.Duration
}

// Run loads the profile, runs the day-boundary check, installs today's
// entry from the local cache (or the remote when the cache has none) and
// loads the history journal.
func (b *Bootstrapper) Run(ctx context.Context) (BootstrapResult, error) {
	logger := observability.OrDefault(b.Logger).With("component", "bootstrap")

	if err := b.Profiles.Load(ctx); err != nil {
		return BootstrapResult{}, err
	}
	if err := b.Status.Load(ctx); err != nil {
		return BootstrapResult{}, fmt.Errorf("load sync status: %w", err)
	}

	result := BootstrapResult{Source: SourceNew}
	reset, err := b.Monitor.Check(ctx)
	if err != nil {
		return BootstrapResult{}, err
	}
	if reset {
		result = BootstrapResult{Reset: true, Source: SourceReset}
	} else {
		source, err := b.loadToday(ctx, logger)
		if err != nil {
			return BootstrapResult{}, err
		}
		result.Source = source
	}

	if err := b.History.Load(ctx); err != nil {
		return BootstrapResult{}, err
	}
	logger.DebugContext(ctx, "bootstrapped", "source", result.Source, "reset", result.Reset)
	return result, nil
}

func (b *Bootstrapper) loadToday(ctx context.Context, logger *slog.Logger) (EntrySourceKind, error) {
	today := b.Clock.Today()
	checkedIn, err := b.checkedInToday(ctx, today)
	if err != nil {
		return "", err
	}

	snap, err := b.Entries.FindByDate(ctx, today)
	switch {
	case err == nil:
		entry, err := domain.RestoreDayEntry(*snap)
		if err != nil {
			return "", fmt.Errorf("restore entry %s: %w", today, err)
		}
		b.Store.Replace(entry, checkedIn)
		return SourceLocal, nil
	case !errors.Is(err, domain.ErrEntryNotFound):
		return "", fmt.Errorf("load entry %s: %w", today, err)
	}

	owner := b.Profiles.Profile().Email
	if owner == "" || !b.Mirror.Enabled() {
		b.Store.Replace(domain.NewDayEntry(today), checkedIn)
		return SourceNew, nil
	}

	remoteCtx, cancel := withTimeout(ctx, b.RemoteTimeout)
	defer cancel()
	remoteSnap, err := b.Mirror.GetEntry(remoteCtx, owner, today)
	if err != nil {
		logger.WarnContext(ctx, "remote entry unavailable, starting empty", "date", today, "error", err)
	}
	if remoteSnap == nil {
		b.Store.Replace(domain.NewDayEntry(today), checkedIn)
		return SourceNew, nil
	}

	entry, err := domain.RestoreDayEntry(*remoteSnap)
	if err != nil {
		return "", fmt.Errorf("restore remote entry %s: %w", today, err)
	}
	if err := b.Entries.Save(ctx, today, entry.Snapshot()); err != nil {
		return "", fmt.Errorf("cache remote entry %s: %w", today, err)
	}
	b.Store.Replace(entry, checkedIn)
	return SourceRemote, nil
}

func (b *Bootstrapper) checkedInToday(ctx context.Context, today domain.LocalDate) (bool, error) {
	last, err := b.Flags.Get(ctx, domain.FlagLastCheckinDate)
	if err != nil {
		return false, fmt.Errorf("read check-in date: %w", err)
	}
	return last == today.String(), nil
}
