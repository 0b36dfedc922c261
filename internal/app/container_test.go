package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/config"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.App.Env = "test"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "journal", "daylog.db")
	cfg.Autosave.Delay = 0
	cfg.Autosave.DiaryDelay = 0
	cfg.Remote.Timeout = time.Second
	return cfg
}

func openContainer(t *testing.T, cfg *config.Config, clock domain.Clock) *Container {
	t.Helper()
	c, err := newContainer(context.Background(), cfg, nil, clock)
	require.NoError(t, err)
	return c
}

func TestContainer_LocalOnlyWorkflow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	clock := domain.ClockAt("2024-03-10")

	c := openContainer(t, cfg, clock)
	assert.False(t, c.Remote.Enabled())

	result, err := c.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.SourceNew, result.Source)

	activity, err := c.AddActivityHandler.Handle(ctx, commands.AddActivityCommand{
		Icon:     "exercise",
		Label:    "Run",
		Duration: 45,
		Facets:   map[string]string{"energy": "4"},
	})
	require.NoError(t, err)
	_, err = c.TaskHandler.Add(ctx, "Buy bread")
	require.NoError(t, err)
	require.NoError(t, c.JournalHandler.SetDiaryNote(ctx, "Good day"))

	synced, err := c.SyncNowHandler.Handle(ctx)
	require.NoError(t, err)
	assert.False(t, synced.State.LastLocalSave.IsZero())
	c.Close()

	reopened := openContainer(t, cfg, clock)
	defer reopened.Close()
	result, err = reopened.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.SourceLocal, result.Source)

	today := reopened.GetTodayHandler.Handle()
	require.Len(t, today.Entry.Activities, 1)
	assert.Equal(t, activity.ID, today.Entry.Activities[0].ID)
	assert.Equal(t, 45, today.TotalMinutes)
	assert.Equal(t, domain.MaxDayMinutes-45, today.CapacityLeft)
	assert.Equal(t, "Good day", today.Entry.DiaryNote)
	require.Len(t, today.Entry.Tasks, 1)

	history := reopened.GetHistoryHandler.Handle(queries.GetHistoryQuery{Kind: domain.HistoryActivity, Days: 7})
	assert.Len(t, history.Entries, 1)
}

func TestContainer_MemoryRemoteMirrorsSignedInUser(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Remote.URL = "memory://"
	clock := domain.ClockAt("2024-03-10")

	c := openContainer(t, cfg, clock)
	defer c.Close()
	require.True(t, c.Remote.Enabled())

	_, err := c.Bootstrap(ctx)
	require.NoError(t, err)

	updated, err := c.UpdateProfileHandler.Handle(ctx, commands.UpdateProfileCommand{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, updated.Mirrored)

	_, err = c.AddActivityHandler.Handle(ctx, commands.AddActivityCommand{Icon: "work", Duration: 90})
	require.NoError(t, err)
	require.NoError(t, c.Autosaver.Flush(ctx))

	remoteEntry, err := c.Remote.GetEntry(ctx, "ada@example.com", "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, remoteEntry)
	assert.Equal(t, 90, remoteEntry.TotalMinutes)

	status, err := c.GetStatusHandler.Handle(ctx)
	require.NoError(t, err)
	assert.True(t, status.RemoteEnabled)
	assert.False(t, status.Sync.Pending)
	assert.Equal(t, observability.HealthStatusHealthy, status.Overall)
}

func TestContainer_BoundaryWatcherResetsStaleDay(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	clock := domain.ClockAt("2024-03-10")

	c := openContainer(t, cfg, clock)
	defer c.Close()
	_, err := c.Bootstrap(ctx)
	require.NoError(t, err)
	_, err = c.AddActivityHandler.Handle(ctx, commands.AddActivityCommand{Icon: "study", Duration: 30})
	require.NoError(t, err)
	require.NoError(t, c.Autosaver.Flush(ctx))

	clock.Advance(24 * time.Hour)
	assert.True(t, c.BoundaryWatcher.RunOnce(ctx))

	today := c.GetTodayHandler.Handle()
	assert.Equal(t, domain.LocalDate("2024-03-11"), today.Entry.Date)
	assert.Empty(t, today.Entry.Activities)

	stored, err := c.EntryRepo.FindByDate(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, today.Entry.ID, stored.ID)

	previous, err := c.EntryRepo.FindByDate(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 30, previous.TotalMinutes)
}

func TestNewContainer_InvalidTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clock.Timezone = "Nowhere/Special"

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "invalid timezone")
}
