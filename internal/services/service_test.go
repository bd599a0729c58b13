package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stocktrail/backend/internal/models"
)

// fakeUserRepo is an in-memory implementation of UserRepository and UserCounter
type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return models.ErrUserExists
		}
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.users), nil
}

// fakeUserTokenRepo is an in-memory implementation of UserTokenRepository
type fakeUserTokenRepo struct {
	tokens map[string]*models.UserToken
	err    error
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
	return &fakeUserTokenRepo{tokens: make(map[string]*models.UserToken)}
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, userToken *models.UserToken) error {
	if f.err != nil {
		return f.err
	}
	f.tokens[userToken.Token] = userToken
	return nil
}

func (f *fakeUserTokenRepo) GetByToken(ctx context.Context, tokenString string) (*models.UserToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("token not found")
	}
	return t, nil
}

func (f *fakeUserTokenRepo) Rotate(ctx context.Context, oldToken, newToken string, userID int) error {
	if f.err != nil {
		return f.err
	}
	t, ok := f.tokens[oldToken]
	if !ok || t.UserID != userID {
		return fmt.Errorf("token not found")
	}
	delete(f.tokens, oldToken)
	t.Token = newToken
	f.tokens[newToken] = t
	return nil
}

func (f *fakeUserTokenRepo) DeleteByToken(ctx context.Context, tokenString string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.tokens, tokenString)
	return nil
}

// fakeItemRepo is an in-memory implementation of ItemRepository and ItemAggregator.
// It mirrors the owner-scoped writes and unique-SKU behavior of the real store.
type fakeItemRepo struct {
	items  map[int]*models.InventoryItem
	users  *fakeUserRepo
	nextID int
	err    error
}

func newFakeItemRepo(users *fakeUserRepo) *fakeItemRepo {
	return &fakeItemRepo{items: make(map[int]*models.InventoryItem), users: users, nextID: 1}
}

func (f *fakeItemRepo) withOwner(item models.InventoryItem) *models.InventoryItem {
	if u, ok := f.users.users[item.OwnerID]; ok {
		item.Owner = models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return &item
}

func (f *fakeItemRepo) skuTaken(sku string, excludeID int) bool {
	for _, it := range f.items {
		if it.ID != excludeID && strings.EqualFold(it.SKU, sku) {
			return true
		}
	}
	return false
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if f.err != nil {
		return f.err
	}
	if f.skuTaken(item.SKU, 0) {
		return models.ErrDuplicateSKU
	}
	item.ID = f.nextID
	f.nextID++
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, itemID int) (*models.InventoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[itemID]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	return f.withOwner(*it), nil
}

func (f *fakeItemRepo) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(func(*models.InventoryItem) bool { return true }), nil
}

func (f *fakeItemRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.InventoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(func(it *models.InventoryItem) bool { return it.OwnerID == ownerID }), nil
}

func (f *fakeItemRepo) list(keep func(*models.InventoryItem) bool) []models.InventoryItem {
	out := make([]models.InventoryItem, 0)
	for _, it := range f.items {
		if keep(it) {
			out = append(out, *f.withOwner(*it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeItemRepo) Update(ctx context.Context, itemID int, patch *models.UpdateItemRequest, ownerScope *int) error {
	if f.err != nil {
		return f.err
	}
	it, ok := f.items[itemID]
	if !ok || (ownerScope != nil && it.OwnerID != *ownerScope) {
		return models.ErrItemNotFound
	}
	if patch.SKU != nil && f.skuTaken(*patch.SKU, itemID) {
		return models.ErrDuplicateSKU
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.SKU != nil {
		it.SKU = *patch.SKU
	}
	it.UpdatedAt = time.Now()
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, itemID int, ownerScope *int) error {
	if f.err != nil {
		return f.err
	}
	it, ok := f.items[itemID]
	if !ok || (ownerScope != nil && it.OwnerID != *ownerScope) {
		return models.ErrItemNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeItemRepo) Count(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.items), nil
}

func (f *fakeItemRepo) TotalValue(ctx context.Context) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var total float64
	for _, it := range f.items {
		total += float64(it.Quantity) * it.Price
	}
	return total, nil
}
