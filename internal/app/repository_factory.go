package app

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/infrastructure/persistence"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

// RepositoryFactory creates the local cache repositories for a connection.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// EntryRepository creates the per-day entry cache.
func (f *RepositoryFactory) EntryRepository() (domain.EntryRepository, error) {
	if err := f.requireSQLite(); err != nil {
		return nil, err
	}
	return persistence.NewSQLiteEntryRepository(f.conn), nil
}

// HistoryRepository creates the append-only history log.
func (f *RepositoryFactory) HistoryRepository() (domain.HistoryRepository, error) {
	if err := f.requireSQLite(); err != nil {
		return nil, err
	}
	return persistence.NewSQLiteHistoryRepository(f.conn), nil
}

// FlagRepository creates the key/value flag store.
func (f *RepositoryFactory) FlagRepository() (domain.FlagRepository, error) {
	if err := f.requireSQLite(); err != nil {
		return nil, err
	}
	return persistence.NewSQLiteFlagRepository(f.conn), nil
}

// The local cache is SQLite only. PostgreSQL serves as a remote store.
func (f *RepositoryFactory) requireSQLite() error {
	if f.driver != database.DriverSQLite {
		return fmt.Errorf("unsupported local cache driver: %s", f.driver)
	}
	return nil
}
