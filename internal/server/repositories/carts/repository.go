package carts

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	// Get returns the user's cart document, or common.ErrorNotFound when the
	// user has no cart row at all.
	Get(ctx context.Context, userID string) (*models.CartDocument, error)
	// Upsert writes the whole document back as one unit, inserting the row
	// if absent and replacing it otherwise.
	Upsert(ctx context.Context, userID string, doc *models.CartDocument) error
}
