package service_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

// fakeDB runs transaction bodies inline; the in-memory repositories apply
// writes immediately, so nothing is rolled back.
type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	return fn(f)
}

type memory struct {
	mu        sync.Mutex
	users     []model.User
	stores    []model.Store
	products  []model.Product
	inventory []model.Inventory
	outbox    []repository.CreateOutboxMsgParams

	failAccumulate error
	suggestCalls   int
}

func newMemory() *memory {
	return &memory{}
}

type productRepo struct {
	repository.ProductRepository
	s *memory
}

func (r productRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r productRepo) CreateIfAbsent(_ context.Context, p model.Product) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if strings.EqualFold(existing.Name, p.Name) {
			return false, nil
		}
	}
	r.s.products = append(r.s.products, p)
	return true, nil
}

func (r productRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (r productRepo) FindByName(_ context.Context, name string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (r productRepo) SuggestByName(_ context.Context, query string, limit int) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suggestCalls++
	var out []model.Product
	for _, p := range r.s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.Product) int { return strings.Compare(a.Name, b.Name) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r productRepo) UpdateProduct(_ context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.products {
		if other.ID != p.ID && strings.EqualFold(other.Name, p.Name) {
			return model.Product{}, repository.ErrConflict
		}
	}
	for i := range r.s.products {
		if r.s.products[i].ID == p.ID {
			r.s.products[i] = p
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (r productRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.products)
	r.s.products = slices.DeleteFunc(r.s.products, func(p model.Product) bool { return p.ID == id })
	if len(r.s.products) == n {
		return repository.ErrNotFound
	}
	r.s.inventory = slices.DeleteFunc(r.s.inventory, func(i model.Inventory) bool { return i.ProductID == id })
	return nil
}

func (r productRepo) ListWithInventory(_ context.Context, ownerID uuid.UUID) ([]model.ProductStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owned := map[uuid.UUID]bool{}
	for _, st := range r.s.stores {
		if st.UserID == ownerID {
			owned[st.ID] = true
		}
	}
	out := make([]model.ProductStock, 0, len(r.s.products))
	for i := len(r.s.products) - 1; i >= 0; i-- {
		p := r.s.products[i]
		ps := model.ProductStock{Product: p}
		for _, inv := range r.s.inventory {
			if inv.ProductID == p.ID && owned[inv.StoreID] {
				ps.Inventory = append(ps.Inventory, inv)
			}
		}
		out = append(out, ps)
	}
	return out, nil
}

type storeRepo struct {
	repository.StoreRepository
	s *memory
}

func (r storeRepo) WithDB(db.DB) repository.StoreRepository { return r }

func (r storeRepo) CreateStore(_ context.Context, st model.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stores = append(r.s.stores, st)
	return nil
}

func (r storeRepo) GetOwnedStore(_ context.Context, id, ownerID uuid.UUID) (model.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.stores {
		if st.ID == id && st.UserID == ownerID {
			return st, nil
		}
	}
	return model.Store{}, repository.ErrNotFound
}

func (r storeRepo) ListStoresByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Store{}
	for _, st := range r.s.stores {
		if st.UserID == ownerID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r storeRepo) DeleteOwnedStore(_ context.Context, id, ownerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.stores)
	r.s.stores = slices.DeleteFunc(r.s.stores, func(st model.Store) bool { return st.ID == id && st.UserID == ownerID })
	if len(r.s.stores) == n {
		return repository.ErrNotFound
	}
	r.s.inventory = slices.DeleteFunc(r.s.inventory, func(i model.Inventory) bool { return i.StoreID == id })
	return nil
}

type inventoryRepo struct {
	repository.InventoryRepository
	s *memory
}

func (r inventoryRepo) WithDB(db.DB) repository.InventoryRepository { return r }

func (r inventoryRepo) Accumulate(_ context.Context, inv model.Inventory) (model.Inventory, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAccumulate != nil {
		return model.Inventory{}, false, r.s.failAccumulate
	}
	for i := range r.s.inventory {
		existing := &r.s.inventory[i]
		if existing.ProductID == inv.ProductID && existing.StoreID == inv.StoreID {
			existing.Quantity += inv.Quantity
			existing.UpdatedAt = inv.UpdatedAt
			return *existing, false, nil
		}
	}
	r.s.inventory = append(r.s.inventory, inv)
	return inv, true, nil
}

func (r inventoryRepo) SetQuantity(_ context.Context, inv model.Inventory) (model.Inventory, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.inventory {
		existing := &r.s.inventory[i]
		if existing.ProductID == inv.ProductID && existing.StoreID == inv.StoreID {
			previous := existing.Quantity
			existing.Quantity = inv.Quantity
			existing.UpdatedAt = inv.UpdatedAt
			return *existing, previous, nil
		}
	}
	r.s.inventory = append(r.s.inventory, inv)
	return inv, 0, nil
}

func (r inventoryRepo) GetInventory(_ context.Context, productID, storeID uuid.UUID) (model.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.inventory {
		if inv.ProductID == productID && inv.StoreID == storeID {
			return inv, nil
		}
	}
	return model.Inventory{}, repository.ErrNotFound
}

type outboxRepo struct {
	repository.OutboxMsgRepository
	s *memory
}

func (r outboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r outboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

type userRepo struct {
	repository.UserRepository
	s *memory
}

func (r userRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r userRepo) CreateUser(_ context.Context, u model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	r.s.users = append(r.s.users, u)
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memory) inventoryFor(productID, storeID uuid.UUID) []model.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Inventory
	for _, inv := range s.inventory {
		if inv.ProductID == productID && inv.StoreID == storeID {
			out = append(out, inv)
		}
	}
	return out
}

func (s *memory) topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, m := range s.outbox {
		out = append(out, m.Topic)
	}
	return out
}

var errWriteFailed = errors.New("connection reset by peer")
