package database

import "strings"

// Driver identifies a database backend.
type Driver string

const (
	// DriverPostgres is PostgreSQL, used as a remote document store.
	DriverPostgres Driver = "postgres"
	// DriverSQLite is the local journal cache.
	DriverSQLite Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// DetectDriver infers the driver from a connection string. An empty string
// means the local SQLite file.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"), strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return ""
	}
}

// IsValid reports whether the driver is supported.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}
