package cli

import (
	"context"

	internalApp "github.com/felixgeelhaar/daylog/internal/app"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Watcher runs the day-boundary check on a schedule.
type Watcher interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context) bool
}

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	AddActivityHandler            *commands.AddActivityHandler
	RemoveActivityHandler         *commands.RemoveActivityHandler
	UpdateActivityDurationHandler *commands.UpdateActivityDurationHandler
	UpdateActivityFacetsHandler   *commands.UpdateActivityFacetsHandler
	TaskHandler                   *commands.TaskHandler
	JournalHandler                *commands.JournalHandler
	UpdateProfileHandler          *commands.UpdateProfileHandler
	SyncNowHandler                *commands.SyncNowHandler
	DayHandler                    *commands.DayHandler

	// Query Handlers
	GetTodayHandler     *queries.GetTodayHandler
	EntryReader         *queries.EntryReader
	GetHistoryHandler   *queries.GetHistoryHandler
	GetDashboardHandler *queries.GetDashboardHandler
	GetHeatmapHandler   *queries.GetHeatmapHandler
	GetStatusHandler    *queries.GetStatusHandler

	Health  *observability.HealthRegistry
	Watcher Watcher
	Clock   domain.Clock
}

// NewApp creates the CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		AddActivityHandler:            c.AddActivityHandler,
		RemoveActivityHandler:         c.RemoveActivityHandler,
		UpdateActivityDurationHandler: c.UpdateActivityDurationHandler,
		UpdateActivityFacetsHandler:   c.UpdateActivityFacetsHandler,
		TaskHandler:                   c.TaskHandler,
		JournalHandler:                c.JournalHandler,
		UpdateProfileHandler:          c.UpdateProfileHandler,
		SyncNowHandler:                c.SyncNowHandler,
		DayHandler:                    c.DayHandler,
		GetTodayHandler:               c.GetTodayHandler,
		EntryReader:                   c.EntryReader,
		GetHistoryHandler:             c.GetHistoryHandler,
		GetDashboardHandler:           c.GetDashboardHandler,
		GetHeatmapHandler:             c.GetHeatmapHandler,
		GetStatusHandler:              c.GetStatusHandler,
		Health:                        c.Health,
		Watcher:                       c.BoundaryWatcher,
		Clock:                         c.Clock,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the App or an error when it was never built.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}
