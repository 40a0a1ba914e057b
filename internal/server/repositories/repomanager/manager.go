package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmkoval/metools/internal/dbx"
	"github.com/dmkoval/metools/internal/server/repositories/tasks"
	"github.com/dmkoval/metools/internal/server/repositories/users"
	"github.com/dmkoval/metools/internal/server/repositories/verifytokens"
)

// RepositoryManager vends repositories bound to a DBTX handle, so the same
// repository code runs against either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VerifyTokens(db dbx.DBTX) verifytokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
