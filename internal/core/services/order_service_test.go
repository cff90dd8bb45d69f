package services

import (
	"context"
	"testing"
	"time"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/adapters/persistence/repositories"
	"librahub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	bookRepo := repositories.NewBookRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	return NewOrderService(orderRepo, bookRepo), db
}

func bookAvailability(t *testing.T, db *gorm.DB, bookID uint) bool {
	t.Helper()

	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)
	return book.IsAvailable
}

func TestCreateOrder(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Wanted")
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, user.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, book.ID, order.BookID)
	assert.Equal(t, user.ID, order.UserID)
	assert.False(t, bookAvailability(t, db, book.ID), "ordering flips the book to unavailable")
}

func TestCreateOrder_BookNotFound(t *testing.T) {
	svc, db := newOrderService(t)
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	_, err := svc.Create(context.Background(), 9999, user.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestCreateOrder_BookNotAvailable(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Contested")
	alice := createTestUser(t, db, "alice@x.com", models.RoleUser)
	bob := createTestUser(t, db, "bob@x.com", models.RoleUser)

	_, err := svc.Create(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	// Second order for the same book hits the availability guard
	_, err = svc.Create(ctx, book.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	// Exactly one order row exists
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("book_id = ?", book.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrder_CompareAndSwapLosesWhenFlagAlreadyFlipped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Raced")
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	// Simulate a concurrent winner that flipped the flag after this
	// request's pre-check would have passed: the transactional
	// compare-and-swap is the backstop.
	orderRepo := repositories.NewOrderRepository(db)
	order := &models.Order{
		OrderNumber: "cas-test",
		BookID:      book.ID,
		UserID:      user.ID,
		Status:      models.OrderStatusPending,
		OrderedAt:   time.Now(),
	}
	require.NoError(t, orderRepo.CreateForAvailableBook(ctx, order))

	err := orderRepo.CreateForAvailableBook(ctx, &models.Order{
		OrderNumber: "cas-test-2",
		BookID:      book.ID,
		UserID:      user.ID,
		Status:      models.OrderStatusPending,
		OrderedAt:   time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	// The loser's transaction rolled back: one order, flag still false
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("book_id = ?", book.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.False(t, bookAvailability(t, db, book.ID))
}

func TestGetOrder_OwnershipCheck(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Private")
	owner := createTestUser(t, db, "owner@x.com", models.RoleUser)
	other := createTestUser(t, db, "other@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	// Owner sees it
	_, err = svc.GetByID(ctx, order.ID, owner.ID, false)
	assert.NoError(t, err)

	// Another registered user does not
	_, err = svc.GetByID(ctx, order.ID, other.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Staff sees everything
	_, err = svc.GetByID(ctx, order.ID, other.ID, true)
	assert.NoError(t, err)
}

func TestOrderWorkflow_ApproveComplete(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Borrowed")
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, user.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, approved.Status)
	assert.False(t, bookAvailability(t, db, book.ID), "approved order still holds the book")

	completed, err := svc.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
	assert.NotNil(t, completed.ReturnedAt)
	assert.True(t, bookAvailability(t, db, book.ID), "completion releases the book")
}

func TestOrderWorkflow_InvalidTransitions(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Strict")
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, user.ID)
	require.NoError(t, err)

	// Cannot complete a PENDING order
	_, err = svc.Complete(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)

	_, err = svc.Approve(ctx, order.ID)
	require.NoError(t, err)

	// Cannot approve twice
	_, err = svc.Approve(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)

	_, err = svc.Complete(ctx, order.ID)
	require.NoError(t, err)

	// A completed order cannot be cancelled
	_, err = svc.Cancel(ctx, order.ID, user.ID, true)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)
}

func TestCancelOrder(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Returned")
	owner := createTestUser(t, db, "owner@x.com", models.RoleUser)
	other := createTestUser(t, db, "other@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	// Someone else cannot cancel it
	_, err = svc.Cancel(ctx, order.ID, other.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, bookAvailability(t, db, book.ID))

	cancelled, err := svc.Cancel(ctx, order.ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.True(t, bookAvailability(t, db, book.ID), "cancellation releases the book")
}

func TestDeleteOrder_ReleasesOpenHold(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	book := createTestBook(t, db, "Purged")
	user := createTestUser(t, db, "reader@x.com", models.RoleUser)

	order, err := svc.Create(ctx, book.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))

	assert.True(t, bookAvailability(t, db, book.ID))
	_, err = svc.GetByID(ctx, order.ID, user.ID, true)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders_StatusFilter(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, "reader@x.com", models.RoleUser)
	b1 := createTestBook(t, db, "One")
	b2 := createTestBook(t, db, "Two")

	o1, err := svc.Create(ctx, b1.ID, user.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, b2.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, o1.ID)
	require.NoError(t, err)

	result, err := svc.List(ctx, &ListOrdersInput{Status: models.OrderStatusApproved})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, o1.OrderNumber, result.Orders[0].OrderNumber)

	all, err := svc.List(ctx, &ListOrdersInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestListByUser(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@x.com", models.RoleUser)
	bob := createTestUser(t, db, "bob@x.com", models.RoleUser)
	b1 := createTestBook(t, db, "Hers")
	b2 := createTestBook(t, db, "His")

	_, err := svc.Create(ctx, b1.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, b2.ID, bob.ID)
	require.NoError(t, err)

	result, err := svc.ListByUser(ctx, alice.ID, &ListOrdersInput{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, alice.ID, result.Orders[0].UserID)
}

func TestListByUserStatusFilter(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@x.com", models.RoleUser)
	b1 := createTestBook(t, db, "First")
	b2 := createTestBook(t, db, "Second")

	o1, err := svc.Create(ctx, b1.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, b2.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, o1.ID)
	require.NoError(t, err)

	result, err := svc.ListByUser(ctx, alice.ID, &ListOrdersInput{Status: string(models.OrderStatusApproved)})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, o1.ID, result.Orders[0].ID)
	assert.Equal(t, int64(1), result.Total)

	result, err = svc.ListByUser(ctx, alice.ID, &ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2)
}

func TestExpireStaleHolds(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, "reader@x.com", models.RoleUser)
	stale := createTestBook(t, db, "Forgotten")
	fresh := createTestBook(t, db, "Recent")

	staleOrder, err := svc.Create(ctx, stale.ID, user.ID)
	require.NoError(t, err)
	freshOrder, err := svc.Create(ctx, fresh.ID, user.ID)
	require.NoError(t, err)

	// Age the first order past the hold window
	old := time.Now().AddDate(0, 0, -15)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", staleOrder.ID).Update("ordered_at", old).Error)

	expired, err := svc.ExpireStaleHolds(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := svc.GetByID(ctx, staleOrder.ID, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.True(t, bookAvailability(t, db, stale.ID))

	// The fresh order is untouched
	got, err = svc.GetByID(ctx, freshOrder.ID, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.False(t, bookAvailability(t, db, fresh.ID))
}
