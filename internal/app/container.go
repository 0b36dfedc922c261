package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/infrastructure/remote"
	"github.com/felixgeelhaar/daylog/internal/journal/infrastructure/scheduler"
	sharedApplication "github.com/felixgeelhaar/daylog/internal/shared/application"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database/sqlite" // Register SQLite driver
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/daylog/pkg/config"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Clock   domain.Clock

	// Database
	DBConn database.Connection

	// Repositories
	EntryRepo   domain.EntryRepository
	HistoryRepo domain.HistoryRepository
	FlagRepo    domain.FlagRepository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Remote mirror and publishers
	Remote         remote.Remote
	EventPublisher eventbus.Publisher
	Health         *observability.HealthRegistry

	// Services
	Profiles        *services.ProfileService
	SyncStatus      *services.SyncStatus
	HistoryRecorder *services.HistoryRecorder
	DayStore        *services.DayStore
	Autosaver       *services.Autosaver
	BoundaryMonitor *services.DayBoundaryMonitor
	Bootstrapper    *services.Bootstrapper
	BoundaryWatcher *scheduler.BoundaryWatcher

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
}

// NewContainer opens the local cache, connects the remote mirror and wires
// every service on the wall clock of the configured zone.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return newContainer(ctx, cfg, logger, domain.NewSystemClock(loc))
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock domain.Clock) (*Container, error) {
	logger = observability.OrDefault(logger)
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Clock:   clock,
	}

	conn, err := initSQLiteConnection(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	c.DBConn = conn

	if err := c.initRepositories(); err != nil {
		c.Close()
		return nil, err
	}
	c.UnitOfWork = database.NewUnitOfWork(conn)

	mirror, err := remote.Open(ctx, remote.Config{
		URL:      cfg.Remote.URL,
		Database: cfg.Remote.Database,
		Table:    cfg.Remote.Table,
		Timeout:  cfg.Remote.Timeout,
		Breaker: remote.BreakerConfig{
			MaxFailures: uint32(cfg.Remote.Breaker.MaxFailures),
			OpenTimeout: cfg.Remote.Breaker.Timeout,
		},
	}, clock, logger, c.Metrics)
	if err != nil {
		// The journal stays usable offline.
		logger.Warn("remote mirror not available, running local-only", "error", err)
		mirror = remote.NoopMirror{}
	}
	c.Remote = mirror

	publisher, err := eventbus.NewPublisher(eventbus.Config{
		Enabled:      cfg.Events.Enabled,
		RabbitMQURL:  cfg.Events.RabbitMQURL,
		KafkaBrokers: cfg.Events.Kafka.Brokers,
		KafkaTopic:   cfg.Events.Kafka.Topic,
	}, logger, c.Metrics)
	if err != nil {
		if !cfg.IsDevelopment() {
			c.Close()
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
		logger.Warn("event broker not available, using noop publisher", "error", err)
		publisher = eventbus.NewNoopPublisher(logger)
	}
	c.EventPublisher = publisher

	c.Health = observability.NewHealthRegistry()
	c.Health.Register("local_cache", observability.PingChecker(conn.Ping, true))
	if mirror.Enabled() {
		c.Health.Register("remote_mirror", observability.PingChecker(mirror.Ping, false))
	}

	c.initServices(cfg)
	c.initHandlers()

	c.BoundaryWatcher = scheduler.NewBoundaryWatcher(c.BoundaryMonitor, cfg.Boundary.Schedule, clock.Now().Location(), logger)
	c.BoundaryWatcher.OnReset(func(ctx context.Context) {
		if err := c.Autosaver.Flush(ctx); err != nil {
			logger.Warn("save after day reset failed", "error", err)
		}
	})

	logger.Info("container initialized",
		"database", cfg.Storage.SQLitePath,
		"remote_enabled", mirror.Enabled(),
		"events_enabled", cfg.Events.Enabled,
	)
	return c, nil
}

func (c *Container) initRepositories() error {
	factory := NewRepositoryFactory(c.DBConn)

	entryRepo, err := factory.EntryRepository()
	if err != nil {
		return fmt.Errorf("failed to create entry repository: %w", err)
	}
	c.EntryRepo = entryRepo

	historyRepo, err := factory.HistoryRepository()
	if err != nil {
		return fmt.Errorf("failed to create history repository: %w", err)
	}
	c.HistoryRepo = historyRepo

	flagRepo, err := factory.FlagRepository()
	if err != nil {
		return fmt.Errorf("failed to create flag repository: %w", err)
	}
	c.FlagRepo = flagRepo
	return nil
}

func (c *Container) initServices(cfg *config.Config) {
	timeout := cfg.Remote.Timeout

	c.Profiles = services.NewProfileService(c.FlagRepo, c.UnitOfWork, c.Remote, timeout, c.Logger)
	c.SyncStatus = services.NewSyncStatus(c.FlagRepo)
	c.HistoryRecorder = services.NewHistoryRecorder(c.HistoryRepo, c.Remote, c.Profiles, c.Clock, timeout, c.Logger, c.Metrics)
	c.DayStore = services.NewDayStore(c.Clock, c.FlagRepo, c.UnitOfWork, c.HistoryRecorder, services.Delays{
		Default: cfg.Autosave.Delay,
		Diary:   cfg.Autosave.DiaryDelay,
	}, c.Logger)
	c.Autosaver = services.NewAutosaver(services.AutosaverDeps{
		Source:        c.DayStore,
		Entries:       c.EntryRepo,
		Flags:         c.FlagRepo,
		UoW:           c.UnitOfWork,
		Mirror:        c.Remote,
		Profile:       c.Profiles,
		Publisher:     c.EventPublisher,
		Status:        c.SyncStatus,
		Clock:         c.Clock,
		Logger:        c.Logger,
		Metrics:       c.Metrics,
		RemoteTimeout: timeout,
	})
	c.DayStore.SetAutosaver(c.Autosaver)
	c.BoundaryMonitor = services.NewDayBoundaryMonitor(c.FlagRepo, c.DayStore, c.Clock, c.Logger, c.Metrics)
	c.Bootstrapper = &services.Bootstrapper{
		Store:         c.DayStore,
		Monitor:       c.BoundaryMonitor,
		History:       c.HistoryRecorder,
		Profiles:      c.Profiles,
		Status:        c.SyncStatus,
		Entries:       c.EntryRepo,
		Flags:         c.FlagRepo,
		Mirror:        c.Remote,
		Clock:         c.Clock,
		Logger:        c.Logger,
		RemoteTimeout: timeout,
	}
}

func (c *Container) initHandlers() {
	c.AddActivityHandler = commands.NewAddActivityHandler(c.DayStore)
	c.RemoveActivityHandler = commands.NewRemoveActivityHandler(c.DayStore)
	c.UpdateActivityDurationHandler = commands.NewUpdateActivityDurationHandler(c.DayStore)
	c.UpdateActivityFacetsHandler = commands.NewUpdateActivityFacetsHandler(c.DayStore)
	c.TaskHandler = commands.NewTaskHandler(c.DayStore)
	c.JournalHandler = commands.NewJournalHandler(c.DayStore)
	c.UpdateProfileHandler = commands.NewUpdateProfileHandler(c.Profiles)
	c.SyncNowHandler = commands.NewSyncNowHandler(c.Autosaver, c.HistoryRecorder, c.SyncStatus, c.Logger)
	c.DayHandler = commands.NewDayHandler(c.DayStore, c.BoundaryMonitor, c.Autosaver)

	c.GetTodayHandler = queries.NewGetTodayHandler(c.DayStore)
	c.EntryReader = queries.NewEntryReader(c.EntryRepo, c.Remote, c.Profiles, c.Config.Remote.Timeout, c.Logger)
	c.GetHistoryHandler = queries.NewGetHistoryHandler(c.HistoryRecorder)
	c.GetDashboardHandler = queries.NewGetDashboardHandler(c.EntryRepo, c.Clock)
	c.GetHeatmapHandler = queries.NewGetHeatmapHandler(c.EntryRepo)
	c.GetStatusHandler = queries.NewGetStatusHandler(c.SyncStatus, c.Profiles, c.FlagRepo, c.Remote, c.Clock, c.Health)
}

// Bootstrap loads persisted state into the day store. Call it once before
// issuing commands.
func (c *Container) Bootstrap(ctx context.Context) (services.BootstrapResult, error) {
	return c.Bootstrapper.Run(ctx)
}

// Close flushes pending saves and releases resources in reverse order.
func (c *Container) Close() {
	if c.BoundaryWatcher != nil {
		c.BoundaryWatcher.Stop()
	}

	if c.Autosaver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.closeTimeout())
		if err := c.Autosaver.Close(ctx); err != nil {
			c.Logger.Warn("error flushing pending save", "error", err)
		}
		cancel()
	}

	if c.HistoryRecorder != nil {
		c.HistoryRecorder.Wait()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.closeTimeout())
		if err := c.Remote.Close(ctx); err != nil {
			c.Logger.Warn("error closing remote mirror", "error", err)
		}
		cancel()
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Debug("SQLite connection closed")
		}
	}
}

func (c *Container) closeTimeout() time.Duration {
	if c.Config != nil && c.Config.Remote.Timeout > 0 {
		return c.Config.Remote.Timeout
	}
	return 10 * time.Second
}

// initSQLiteConnection opens the local cache and applies migrations.
func initSQLiteConnection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	path := cfg.Storage.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	path, err := security.ValidateDatabasePath(path)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureDirectory(path); err != nil {
		return nil, err
	}

	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite connection: %w", err)
	}

	logger.Debug("running SQLite migrations")
	if err := migrations.RunSQLite(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return conn, nil
}
