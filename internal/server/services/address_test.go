package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
)

func newAddressService() (*AddressService, *fakeAddressesRepo) {
	a := newFakeAddressesRepo()
	rm := &fakeRepoManager{u: newFakeUsersRepo(), c: newFakeCartsRepo(), a: a}
	return NewAddressService(nil, rm), a
}

func TestAddressAdd_StoresOpaqueDocument(t *testing.T) {
	s, _ := newAddressService()
	ctx := context.Background()

	fields := json.RawMessage(`{"street":"1 Main St","city":"Riga","zip":"LV-1010"}`)
	id, err := s.Add(ctx, "u-1", fields)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty address id")
	}

	list, err := s.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || string(list[0].Fields) != string(fields) {
		t.Fatalf("unexpected list: %#v", list)
	}
}

func TestAddressAdd_RejectsEmptyAndInvalidJSON(t *testing.T) {
	s, _ := newAddressService()
	ctx := context.Background()

	if _, err := s.Add(ctx, "u-1", nil); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("nil fields: want common.ErrorValidation, got %v", err)
	}
	if _, err := s.Add(ctx, "u-1", json.RawMessage(`{"street":`)); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("broken JSON: want common.ErrorValidation, got %v", err)
	}
}

func TestAddressList_PreservesInsertionOrder(t *testing.T) {
	s, _ := newAddressService()
	ctx := context.Background()

	if _, err := s.Add(ctx, "u-1", json.RawMessage(`{"n":1}`)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := s.Add(ctx, "u-1", json.RawMessage(`{"n":2}`)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	list, err := s.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || string(list[0].Fields) != `{"n":1}` || string(list[1].Fields) != `{"n":2}` {
		t.Fatalf("unexpected order: %#v", list)
	}
}

func TestAddressRemove_UnknownAndForeignIDsAreNotFound(t *testing.T) {
	s, _ := newAddressService()
	ctx := context.Background()

	id, err := s.Add(ctx, "u-1", json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if err := s.Remove(ctx, "u-1", "a-404"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown id: want common.ErrorNotFound, got %v", err)
	}
	// another user's id looks exactly like a missing one
	if err := s.Remove(ctx, "u-2", id); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign id: want common.ErrorNotFound, got %v", err)
	}
	if err := s.Remove(ctx, "u-1", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("empty id: want common.ErrorValidation, got %v", err)
	}
}

func TestAddressRemove_DeletesOwnedAddress(t *testing.T) {
	s, _ := newAddressService()
	ctx := context.Background()

	id, err := s.Add(ctx, "u-1", json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if err := s.Remove(ctx, "u-1", id); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	list, err := s.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("address not removed: %#v", list)
	}
}
