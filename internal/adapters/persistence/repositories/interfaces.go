package repositories

import (
	"context"
	"time"

	"librahub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddRole(ctx context.Context, user *models.User, role *models.Role) error
	RemoveRole(ctx context.Context, user *models.User, role *models.Role) error
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
}

// BookFilter narrows book listings. Zero values mean "no filter".
type BookFilter struct {
	Genre  string
	Type   string
	Author string
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter BookFilter, sort string, offset, limit int) ([]*models.Book, int64, error)
}

// OrderRepository defines order repository interface.
// CreateForAvailableBook and the *AndRelease methods run the dual write
// (order row + availability flag) inside a single transaction.
type OrderRepository interface {
	CreateForAvailableBook(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateStatusAndRelease(ctx context.Context, order *models.Order, status string, returnedAt *time.Time) error
	DeleteAndRelease(ctx context.Context, order *models.Order) error
	List(ctx context.Context, status string, offset, limit int) ([]*models.Order, int64, error)
	ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Order, int64, error)
	CountByBook(ctx context.Context, bookID uint) (int64, error)
	ListStalePending(ctx context.Context, before time.Time) ([]*models.Order, error)
}
