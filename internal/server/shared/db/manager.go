// Package db wires the concrete repositories to a database handle.
package db

import (
	"context"
	"database/sql"

	"github.com/avolkovs/daykeeper/internal/dbx"
	"github.com/avolkovs/daykeeper/internal/server/entries"
	"github.com/avolkovs/daykeeper/internal/server/tokens"
	"github.com/avolkovs/daykeeper/internal/server/users"
)

// RepositoryManager builds repositories over an arbitrary handle, so the
// same repository code runs on the shared pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Entries(db dbx.DBTX) entries.Repository
}
