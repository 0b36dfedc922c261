package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// DefaultHealthTimeout bounds each health probe.
const DefaultHealthTimeout = 3 * time.Second

// SyncStateProvider exposes the outcome of the last saves.
type SyncStateProvider interface {
	State() services.SyncState
}

// StatusView reports persistence health.
type StatusView struct {
	Today          domain.LocalDate
	LastActiveDate string
	Profile        domain.Profile
	RemoteEnabled  bool
	Sync           services.SyncState
	Health         []observability.HealthCheckResult
	Overall        observability.HealthStatus
}

// GetStatusHandler handles the status query.
type GetStatusHandler struct {
	status  SyncStateProvider
	profile ProfileProvider
	flags   domain.FlagRepository
	mirror  domain.RemoteMirror
	clock   domain.Clock
	health  *observability.HealthRegistry
}

// NewGetStatusHandler creates a new GetStatusHandler. health may be nil.
func NewGetStatusHandler(
	status SyncStateProvider,
	profile ProfileProvider,
	flags domain.FlagRepository,
	mirror domain.RemoteMirror,
	clock domain.Clock,
	health *observability.HealthRegistry,
) *GetStatusHandler {
	return &GetStatusHandler{
		status:  status,
		profile: profile,
		flags:   flags,
		mirror:  mirror,
		clock:   clock,
		health:  health,
	}
}

func (h *GetStatusHandler) Handle(ctx context.Context) (*StatusView, error) {
	lastActive, err := h.flags.Get(ctx, domain.FlagLastActiveDate)
	if err != nil {
		return nil, fmt.Errorf("read last active date: %w", err)
	}

	view := &StatusView{
		Today:          h.clock.Today(),
		LastActiveDate: lastActive,
		Profile:        h.profile.Profile(),
		RemoteEnabled:  h.mirror.Enabled(),
		Sync:           h.status.State(),
		Overall:        observability.HealthStatusHealthy,
	}
	if h.health != nil {
		view.Health = h.health.Check(ctx, DefaultHealthTimeout)
		view.Overall = observability.Overall(view.Health)
	}
	return view, nil
}
