package repositories

import (
	"context"
	"time"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/core/domain"

	"gorm.io/gorm"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateForAvailableBook inserts the order and flips the book to
// unavailable in one transaction. The flip is a compare-and-swap on the
// availability flag, so of two concurrent orders for the same book
// exactly one succeeds; the loser gets domain.ErrBookNotAvailable.
func (r *orderRepository) CreateForAvailableBook(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND is_available = ?", order.BookID, true).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookNotAvailable
		}

		return tx.Create(order).Error
	})
}

// GetByID gets an order by ID with book and user preloaded
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Book").Preload("User").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update updates an order
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Book", "User").Save(order).Error
}

// UpdateStatusAndRelease sets the order status and restores the book's
// availability in one transaction.
func (r *orderRepository) UpdateStatusAndRelease(ctx context.Context, order *models.Order, status string, returnedAt *time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Status = status
		order.ReturnedAt = returnedAt
		if err := tx.Omit("Book", "User").Save(order).Error; err != nil {
			return err
		}

		return tx.Model(&models.Book{}).
			Where("id = ?", order.BookID).
			Update("is_available", true).Error
	})
}

// DeleteAndRelease hard deletes an order; if it was still open, the
// book becomes available again in the same transaction.
func (r *orderRepository) DeleteAndRelease(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return err
		}

		if order.IsOpen() {
			return tx.Model(&models.Book{}).
				Where("id = ?", order.BookID).
				Update("is_available", true).Error
		}
		return nil
	})
}

// List lists orders with optional status filter and pagination
func (r *orderRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Book").Preload("User").Order("id desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListByUser lists a user's orders with optional status filter and pagination
func (r *orderRepository) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Book").Order("id desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// CountByBook counts all orders referencing a book (any status)
func (r *orderRepository) CountByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// ListStalePending lists PENDING orders older than the given time
func (r *orderRepository) ListStalePending(ctx context.Context, before time.Time) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND ordered_at < ?", models.OrderStatusPending, before).
		Find(&orders).Error
	return orders, err
}
