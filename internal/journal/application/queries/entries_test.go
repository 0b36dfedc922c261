package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

var signedIn = staticProfile{Name: "Ada", Email: "ada@example.com"}

func TestEntryReader_ListEntriesMergesLocalWins(t *testing.T) {
	localMarch9 := entryWith("2024-03-09", 30)
	remoteMarch9 := entryWith("2024-03-09", 999)
	remoteMarch8 := entryWith("2024-03-08", 60)
	local := newMemEntries(localMarch9, entryWith("2024-03-10", 15))
	mirror := &stubMirror{enabled: true, entries: []domain.EntrySnapshot{remoteMarch9, remoteMarch8}}

	got, err := NewEntryReader(local, mirror, signedIn, 0, nil).ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []domain.LocalDate{"2024-03-10", "2024-03-09", "2024-03-08"}, []domain.LocalDate{got[0].Date, got[1].Date, got[2].Date})
	assert.Equal(t, localMarch9.ID, got[1].ID)
	assert.Equal(t, 30, got[1].TotalMinutes)
}

func TestEntryReader_ListEntriesFallsBackToLocal(t *testing.T) {
	local := newMemEntries(entryWith("2024-03-10", 15))
	mirror := &stubMirror{enabled: true, fail: true}

	got, err := NewEntryReader(local, mirror, signedIn, 0, nil).ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEntryReader_ListEntriesLocalOnly(t *testing.T) {
	local := newMemEntries(entryWith("2024-03-10", 15))
	mirror := &stubMirror{enabled: true, entries: []domain.EntrySnapshot{entryWith("2024-03-01", 5)}}

	got, err := NewEntryReader(local, mirror, staticProfile{}, 0, nil).ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1, "no email means no remote read")
}

func TestEntryReader_GetEntry(t *testing.T) {
	ctx := context.Background()
	local := newMemEntries(entryWith("2024-03-10", 15))
	remote := entryWith("2024-03-01", 45)
	mirror := &stubMirror{enabled: true, entries: []domain.EntrySnapshot{remote}}
	reader := NewEntryReader(local, mirror, signedIn, 0, nil)

	got, err := reader.GetEntry(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 15, got.TotalMinutes)

	got, err = reader.GetEntry(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, remote.ID, got.ID)

	_, err = reader.GetEntry(ctx, "2024-02-01")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	mirror.fail = true
	_, err = reader.GetEntry(ctx, "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
