package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/tasks"
)

// RepositoryManager hands out repositories bound to a connection or an
// open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	PendingAccounts(db dbx.DBTX) accounts.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
