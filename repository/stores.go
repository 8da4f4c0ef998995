package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/models"
)

// Sentinel errors returned by the stores. Controllers map them to
// HTTP statuses.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate unique field")
)

// ProductFilter enumerates the supported catalog query fields. Empty
// strings and nil pointers mean "not filtered".
type ProductFilter struct {
	Name       string // case-insensitive substring
	Category   string
	Brand      string
	PriceExact *float64
	PriceMin   *float64 // inclusive
	PriceMax   *float64 // inclusive
}

// ProductUpdate is a partial update descriptor; nil fields are left
// untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Brand       *string
	Stock       *int
	Image       *string
}

// UserStore persists user records.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// ProductStore persists catalog records.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartStore persists the single active cart per user.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

// OrderStore persists order snapshots.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}
