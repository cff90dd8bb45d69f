package services

import (
	"context"
	"errors"
	"log"
	"time"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/adapters/persistence/repositories"
	"librahub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService handles ordering business logic
type OrderService struct {
	orderRepo repositories.OrderRepository
	bookRepo  repositories.BookRepository
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	bookRepo repositories.BookRepository,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
	}
}

// ListOrdersInput represents list orders input
type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
}

// ListOrdersOutput represents list orders output
type ListOrdersOutput struct {
	Orders     []*models.OrderResponse `json:"orders"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}

// Create orders a book for a user. Preconditions: the book exists and
// is available. The availability flip and the order insert commit
// together; a concurrent order for the same book loses the
// compare-and-swap and gets the not-available condition.
func (s *OrderService) Create(ctx context.Context, bookID, userID uint) (*models.Order, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	if !book.IsAvailable {
		return nil, domain.ErrBookNotAvailable
	}

	order := &models.Order{
		OrderNumber: uuid.New().String(),
		BookID:      bookID,
		UserID:      userID,
		Status:      models.OrderStatusPending,
		OrderedAt:   time.Now(),
	}

	if err := s.orderRepo.CreateForAvailableBook(ctx, order); err != nil {
		return nil, err
	}

	order.Book = book
	log.Printf("✅ Order %s created: book %d by user %d", order.OrderNumber, bookID, userID)
	return order, nil
}

// GetByID gets an order. Non-staff requesters may only see their own.
func (s *OrderService) GetByID(ctx context.Context, id, requesterID uint, staff bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	if !staff && order.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// List lists all orders (staff)
func (s *OrderService) List(ctx context.Context, input *ListOrdersInput) (*ListOrdersOutput, error) {
	normalizeListInput(input)

	orders, total, err := s.orderRepo.List(ctx, input.Status, (input.Page-1)*input.Limit, input.Limit)
	if err != nil {
		return nil, err
	}
	return buildListOutput(orders, total, input), nil
}

// ListByUser lists a user's own orders
func (s *OrderService) ListByUser(ctx context.Context, userID uint, input *ListOrdersInput) (*ListOrdersOutput, error) {
	normalizeListInput(input)

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, input.Status, (input.Page-1)*input.Limit, input.Limit)
	if err != nil {
		return nil, err
	}
	return buildListOutput(orders, total, input), nil
}

// Approve moves a PENDING order to APPROVED
func (s *OrderService) Approve(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, domain.ErrInvalidOrderStatus
	}

	order.Status = models.OrderStatusApproved
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Complete moves an APPROVED order to COMPLETED (book returned);
// the book becomes available again.
func (s *OrderService) Complete(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusApproved {
		return nil, domain.ErrInvalidOrderStatus
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatusAndRelease(ctx, order, models.OrderStatusCompleted, &now); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s completed: book %d returned", order.OrderNumber, order.BookID)
	return order, nil
}

// Cancel cancels an open order and restores the book's availability.
// Non-staff requesters may only cancel their own orders.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID uint, staff bool) (*models.Order, error) {
	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if !staff && order.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	if !order.IsOpen() {
		return nil, domain.ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatusAndRelease(ctx, order, models.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s cancelled: book %d released", order.OrderNumber, order.BookID)
	return order, nil
}

// Delete hard deletes an order (staff). An open order releases its book.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return err
	}

	return s.orderRepo.DeleteAndRelease(ctx, order)
}

// ExpireStaleHolds cancels PENDING orders older than the hold window
// and restores availability. Returns the number of cancelled orders.
func (s *OrderService) ExpireStaleHolds(ctx context.Context, holdDays int) (int, error) {
	before := time.Now().AddDate(0, 0, -holdDays)

	stale, err := s.orderRepo.ListStalePending(ctx, before)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range stale {
		if err := s.orderRepo.UpdateStatusAndRelease(ctx, order, models.OrderStatusCancelled, nil); err != nil {
			log.Printf("❌ Failed to expire order %s: %v", order.OrderNumber, err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *OrderService) getForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func normalizeListInput(input *ListOrdersInput) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
}

func buildListOutput(orders []*models.Order, total int64, input *ListOrdersInput) *ListOrdersOutput {
	responses := make([]*models.OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = o.ToResponse()
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListOrdersOutput{
		Orders:     responses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}
}
