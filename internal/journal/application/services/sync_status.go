package services

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// SyncState is a point-in-time view of persistence health.
type SyncState struct {
	LastLocalSave  time.Time
	LastRemoteSync time.Time
	// Pending is true while the newest entry has not reached the remote.
	Pending        bool
	LastError      string
	LastLocalError string
}

// SyncStatus tracks local and remote save outcomes. The pending marker and
// the last remote sync time are kept in flags so they survive restarts.
type SyncStatus struct {
	mu    sync.RWMutex
	state SyncState
	flags domain.FlagRepository
}

// NewSyncStatus creates a SyncStatus. flags may be nil.
func NewSyncStatus(flags domain.FlagRepository) *SyncStatus {
	return &SyncStatus{flags: flags}
}

// Load restores the persisted part of the state.
func (s *SyncStatus) Load(ctx context.Context) error {
	if s.flags == nil {
		return nil
	}
	pending, err := s.flags.Get(ctx, domain.FlagSyncPending)
	if err != nil {
		return err
	}
	last, err := s.flags.Get(ctx, domain.FlagLastRemoteSync)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pending = pending == "true"
	if t, err := time.Parse(time.RFC3339, last); err == nil {
		s.state.LastRemoteSync = t
	}
	return nil
}

func (s *SyncStatus) State() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SyncStatus) localSaved(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastLocalSave = at
	s.state.LastLocalError = ""
}

func (s *SyncStatus) localFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastLocalError = err.Error()
}

func (s *SyncStatus) remoteSynced(ctx context.Context, at time.Time) error {
	s.mu.Lock()
	wasPending := s.state.Pending
	s.state.LastRemoteSync = at
	s.state.Pending = false
	s.state.LastError = ""
	s.mu.Unlock()

	if s.flags == nil {
		return nil
	}
	if wasPending {
		if err := s.flags.Delete(ctx, domain.FlagSyncPending); err != nil {
			return err
		}
	}
	return s.flags.Set(ctx, domain.FlagLastRemoteSync, at.UTC().Format(time.RFC3339))
}

func (s *SyncStatus) remoteFailed(ctx context.Context, cause error) error {
	s.mu.Lock()
	s.state.Pending = true
	s.state.LastError = cause.Error()
	s.mu.Unlock()

	if s.flags == nil {
		return nil
	}
	return s.flags.Set(ctx, domain.FlagSyncPending, "true")
}
