package accounts

import (
	"context"

	"github.com/dmitrijs2005/tasknest/internal/server/models"
)

// Repository stores accounts. The same contract serves confirmed accounts
// and pending signups; they live in separate tables.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	MarkConfirmed(ctx context.Context, id string) (*models.Account, error)
}
