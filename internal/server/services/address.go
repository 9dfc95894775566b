package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// AddressService manages the per-user address book. Address bodies are
// opaque JSON; the server only attaches ownership and identity.
type AddressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAddressService constructs an AddressService using repositories.
func NewAddressService(db *sql.DB, m repomanager.RepositoryManager) *AddressService {
	return &AddressService{db: db, repomanager: m}
}

// List returns all addresses saved by the user, oldest first.
func (s *AddressService) List(ctx context.Context, userID string) ([]*models.Address, error) {
	result, err := s.repomanager.Addresses(s.db).SelectByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading addresses: %w", err)
	}
	return result, nil
}

// Add stores a new address document and returns its id.
func (s *AddressService) Add(ctx context.Context, userID string, fields json.RawMessage) (string, error) {
	if len(fields) == 0 || !json.Valid(fields) {
		return "", common.ErrorValidation
	}

	id, err := s.repomanager.Addresses(s.db).Create(ctx, userID, fields)
	if err != nil {
		return "", fmt.Errorf("error adding address: %w", err)
	}
	return id, nil
}

// Remove deletes an address owned by the user. Unknown ids and addresses
// owned by someone else both come back as ErrorNotFound, so the response
// does not reveal whether the row exists.
func (s *AddressService) Remove(ctx context.Context, userID, addressID string) error {
	if addressID == "" {
		return common.ErrorValidation
	}

	err := s.repomanager.Addresses(s.db).Delete(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting address: %w", err)
	}
	return nil
}
