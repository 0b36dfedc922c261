package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/application"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// ProfileProvider returns the current user profile.
type ProfileProvider interface {
	Profile() domain.Profile
}

// ProfileService caches the profile stored in flags and mirrors changes.
type ProfileService struct {
	mu      sync.RWMutex
	profile domain.Profile

	flags   domain.FlagRepository
	uow     application.UnitOfWork
	mirror  domain.RemoteMirror
	timeout time.Duration
	logger  *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(flags domain.FlagRepository, uow application.UnitOfWork, mirror domain.RemoteMirror, remoteTimeout time.Duration, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		flags:   flags,
		uow:     uow,
		mirror:  mirror,
		timeout: remoteTimeout,
		logger:  observability.OrDefault(logger).With("component", "profile"),
	}
}

// Load reads the profile from flags.
func (s *ProfileService) Load(ctx context.Context) error {
	name, err := s.flags.Get(ctx, domain.FlagUserName)
	if err != nil {
		return fmt.Errorf("load user name: %w", err)
	}
	email, err := s.flags.Get(ctx, domain.FlagUserEmail)
	if err != nil {
		return fmt.Errorf("load user email: %w", err)
	}

	s.mu.Lock()
	s.profile = domain.Profile{Name: name, Email: email}
	s.mu.Unlock()
	return nil
}

func (s *ProfileService) Profile() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Update stores p locally, then mirrors it. It reports whether the remote
// write happened; remote failures are logged, not returned.
func (s *ProfileService) Update(ctx context.Context, p domain.Profile) (bool, error) {
	err := application.WithUnitOfWork(ctx, s.uow, func(ctx context.Context) error {
		if err := s.flags.Set(ctx, domain.FlagUserName, p.Name); err != nil {
			return err
		}
		return s.flags.Set(ctx, domain.FlagUserEmail, p.Email)
	})
	if err != nil {
		return false, fmt.Errorf("save profile: %w", err)
	}

	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()

	if !p.HasRemoteIdentity() || !s.mirror.Enabled() {
		return false, nil
	}
	remoteCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.mirror.SaveProfile(remoteCtx, p); err != nil {
		s.logger.WarnContext(ctx, "profile not mirrored", "error", err)
		return false, nil
	}
	return true, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
