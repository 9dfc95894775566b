package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// CartService owns the read-modify-write protocol over per-user cart
// documents. Its invariant: a cart never holds two lines for the same
// (productId, size) pair; adding the same pair again merges quantities.
//
// The select-then-upsert sequence is not atomic at the storage level. A
// per-user mutex serializes mutations within this process, so concurrent
// requests through one server cannot lose updates; across processes the
// window remains and last write wins, which is accepted for this system.
type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService constructs a CartService using repositories.
func NewCartService(db *sql.DB, m repomanager.RepositoryManager) *CartService {
	return &CartService{
		db:          db,
		repomanager: m,
		locks:       make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing cart mutations for one user.
func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Get returns the user's cart. A user with no cart row gets an empty
// document, not an error.
func (s *CartService) Get(ctx context.Context, userID string) (*models.CartDocument, error) {
	doc, err := s.repomanager.Carts(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &models.CartDocument{Items: []models.CartLine{}}, nil
		}
		return nil, fmt.Errorf("error loading cart: %w", err)
	}
	return doc, nil
}

// AddItem merges (productID, size, quantity) into the cart and persists the
// whole document back as one unit. An existing line for the exact pair has
// its quantity incremented; otherwise a new line is appended, preserving
// insertion order.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int, size string) (*models.CartDocument, error) {
	if productID == "" || quantity <= 0 {
		return nil, common.ErrorValidation
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	repo := s.repomanager.Carts(s.db)

	doc, err := repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error loading cart: %w", err)
		}
		doc = &models.CartDocument{}
	}

	if i := doc.Find(productID, size); i >= 0 {
		doc.Items[i].Quantity += quantity
	} else {
		doc.Items = append(doc.Items, models.CartLine{ProductID: productID, Quantity: quantity, Size: size})
	}

	if err := repo.Upsert(ctx, userID, doc); err != nil {
		return nil, fmt.Errorf("error updating cart: %w", err)
	}

	return doc, nil
}

// RemoveItem filters the (productID, size) line out of the cart. A user
// with no cart document at all gets ErrorNotFound; a cart that simply has
// no matching line is left unchanged and persisted again, since filtering
// by predicate is idempotent.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) (*models.CartDocument, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	repo := s.repomanager.Carts(s.db)

	doc, err := repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading cart: %w", err)
	}

	kept := doc.Items[:0]
	for _, line := range doc.Items {
		if !(line.ProductID == productID && line.Size == size) {
			kept = append(kept, line)
		}
	}
	doc.Items = kept

	if err := repo.Upsert(ctx, userID, doc); err != nil {
		return nil, fmt.Errorf("error updating cart: %w", err)
	}

	return doc, nil
}
