// Package carts provides a PostgreSQL-backed repository for per-user cart
// documents. The whole cart is stored as a single JSON value and always
// replaced as one unit.
package carts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// PostgresRepository implements cart storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get loads the user's cart document. A missing row is common.ErrorNotFound;
// a row whose JSON cannot be parsed is a plain error so callers surface it
// instead of masking corruption with an empty cart.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.CartDocument, error) {
	query :=
		`SELECT cart_data FROM carts
		 WHERE user_id = $1
		 `

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var items []models.CartLine
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("cart data parse error: %w", err)
	}

	return &models.CartDocument{Items: items}, nil
}

// Upsert persists the whole document, inserting the row if absent and
// overwriting it otherwise. The statement itself is atomic; the surrounding
// read-modify-write is serialized by the cart service.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, doc *models.CartDocument) error {
	items := doc.Items
	if items == nil {
		items = []models.CartLine{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart data marshal error: %w", err)
	}

	query := `
		INSERT INTO carts (user_id, cart_data)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET cart_data = EXCLUDED.cart_data, updated_at = now();
	`
	if _, err := r.db.ExecContext(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
