package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashrajoria/catalog-service/internal/models"
)

// Repositories translate storage failures into application errors: a missing
// document is ErrNotFound, a unique-key violation ErrConflict and anything
// else ErrStorage.

// UserRepo is the credential store.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductFilter narrows product listings. Zero values mean no constraint.
type ProductFilter struct {
	Categories []primitive.ObjectID
	Featured   *bool
	MinPrice   *float64
	MaxPrice   *float64
	Limit      int64
}

type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderItemRepo interface {
	Create(ctx context.Context, item *models.OrderItem) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.OrderItem, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindAll returns orders newest first, optionally restricted to one buyer.
	FindAll(ctx context.Context, userID *primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	// Delete removes the order and returns it so callers can clean up its
	// line items.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
	// TotalSales sums totalPrice over all orders. n is the number of orders
	// aggregated.
	TotalSales(ctx context.Context) (total float64, n int64, err error)
}

// Transactor runs fn as one unit of work.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
