package domain

import (
	"context"
	"errors"
)

// ErrEntryNotFound is returned when no entry is stored for a date.
var ErrEntryNotFound = errors.New("entry not found")

// EntryRepository is the local durable cache of day entries, one per date.
type EntryRepository interface {
	// Save inserts or replaces the entry keyed by date.
	Save(ctx context.Context, date LocalDate, snap EntrySnapshot) error
	// FindByDate returns ErrEntryNotFound when nothing is stored.
	FindByDate(ctx context.Context, date LocalDate) (*EntrySnapshot, error)
	// List returns every stored entry, newest date first.
	List(ctx context.Context) ([]EntrySnapshot, error)
	// ListRange returns entries with from <= date <= to, newest first.
	ListRange(ctx context.Context, from, to LocalDate) ([]EntrySnapshot, error)
}

// HistoryRepository is the local append-only journal.
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context) ([]HistoryEntry, error)
	// ListUnsynced returns entries the remote has not acknowledged.
	ListUnsynced(ctx context.Context) ([]HistoryEntry, error)
	MarkSynced(ctx context.Context, entry HistoryEntry) error
}

// Flag names scalar settings.
type Flag string

const (
	FlagLastCheckinDate Flag = "lastCheckinDate"
	FlagLastActiveDate  Flag = "lastActiveDate"
	FlagUserName        Flag = "userName"
	FlagUserEmail       Flag = "userEmail"

	// FlagSyncPending is "true" while the last remote entry write failed.
	FlagSyncPending    Flag = "syncPending"
	FlagLastRemoteSync Flag = "lastRemoteSync"
)

// FlagRepository stores scalar settings. Get returns "" for unset flags.
type FlagRepository interface {
	Get(ctx context.Context, flag Flag) (string, error)
	Set(ctx context.Context, flag Flag, value string) error
	Delete(ctx context.Context, flag Flag) error
}

// Profile identifies the user. Email is the remote owner key; an empty
// email means the engine runs local-only.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HasRemoteIdentity reports whether remote sync can run.
func (p Profile) HasRemoteIdentity() bool { return p.Email != "" }

// RemoteMirror replicates entries and history off-device. Implementations
// are best-effort; callers decide whether an error matters.
type RemoteMirror interface {
	SaveEntry(ctx context.Context, owner string, snap EntrySnapshot) error
	GetEntry(ctx context.Context, owner string, date LocalDate) (*EntrySnapshot, error)
	ListEntries(ctx context.Context, owner string) ([]EntrySnapshot, error)
	AppendHistory(ctx context.Context, owner string, entry HistoryEntry) error
	ListHistory(ctx context.Context, owner string, kind HistoryKind) ([]HistoryEntry, error)
	SaveProfile(ctx context.Context, profile Profile) error
	Enabled() bool
}
