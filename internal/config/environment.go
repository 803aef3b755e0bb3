package config

import "strings"

const (
	StorageBackendPostgres = "postgresql"
	StorageBackendMySQL    = "mysql"
	StorageBackendSQLite   = "sqlite"
)

// StorageBackendKind guesses the kind of relational store from its
// connection string. It is a descriptor for humans only; anything that is
// neither recognisably PostgreSQL nor MySQL is reported as sqlite.
func StorageBackendKind(connection string) string {
	lower := strings.ToLower(connection)

	switch {
	case strings.Contains(lower, "postgres"):
		return StorageBackendPostgres
	case strings.Contains(lower, "mysql"), strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return StorageBackendMySQL
	default:
		return StorageBackendSQLite
	}
}
