package routes

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/repository"
)

// In-memory repositories with the same error contract as the Mongo ones.

type memUsers struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.docs {
		if existing.Email == u.Email {
			return apperrors.ErrConflict
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.docs[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.docs {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) FindAll(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.docs))
	for _, u := range m.docs {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.docs[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}

type memCategories struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Category
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	m.docs[c.ID] = *c
	return nil
}

func (m *memCategories) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (m *memCategories) FindAll(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.docs))
	for _, c := range m.docs {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[c.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.docs[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memProducts struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Product
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.docs[p.ID] = *p
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) Find(_ context.Context, f repository.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.docs {
		if len(f.Categories) > 0 && !containsID(f.Categories, p.Category) {
			continue
		}
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memProducts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.docs[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memItems struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.OrderItem
}

func (m *memItems) Create(_ context.Context, it *models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	m.docs[it.ID] = *it
	return nil
}

func (m *memItems) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.docs[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memItems) DeleteMany(_ context.Context, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

type memOrders struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Order
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.docs[o.ID] = *o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) FindAll(_ context.Context, userID *primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.docs {
		if userID == nil || o.User == *userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOrdered.After(out[j].DateOrdered) })
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	o.Status = status
	m.docs[id] = o
	return &o, nil
}

func (m *memOrders) Delete(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(m.docs, id)
	return &o, nil
}

func (m *memOrders) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}

func (m *memOrders) TotalSales(_ context.Context) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, o := range m.docs {
		total += o.TotalPrice
	}
	return total, int64(len(m.docs)), nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
