// Package addresses provides a PostgreSQL-backed repository for saved
// user addresses. The address body is opaque JSON supplied by the client.
package addresses

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// PostgresRepository implements address storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByUser returns all addresses owned by userID, oldest first.
func (r *PostgresRepository) SelectByUser(ctx context.Context, userID string) ([]*models.Address, error) {
	query :=
		`SELECT id, address FROM user_addresses
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Address
	for rows.Next() {
		item := &models.Address{UserID: userID}
		var raw []byte
		if err := rows.Scan(&item.ID, &raw); err != nil {
			return nil, err
		}
		item.Fields = json.RawMessage(raw)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a new address row under a freshly generated id and
// returns that id.
func (r *PostgresRepository) Create(ctx context.Context, userID string, fields json.RawMessage) (string, error) {
	query :=
		`INSERT INTO user_addresses (id, user_id, address)
		 VALUES ($1, $2, $3)
		 `

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, id, userID, []byte(fields)); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Delete removes an address scoped to its owner. Deleting an address that
// does not exist, or that belongs to someone else, is common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, addressID string) error {
	query :=
		`DELETE FROM user_addresses
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, addressID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
