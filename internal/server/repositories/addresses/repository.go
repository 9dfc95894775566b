package addresses

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	SelectByUser(ctx context.Context, userID string) ([]*models.Address, error)
	Create(ctx context.Context, userID string, fields json.RawMessage) (string, error)
	// Delete removes the address only when it is owned by userID;
	// zero affected rows yield common.ErrorNotFound.
	Delete(ctx context.Context, userID, addressID string) error
}
