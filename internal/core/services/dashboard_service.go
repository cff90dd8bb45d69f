package services

import (
	"context"

	"librahub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents library statistics for staff
type DashboardData struct {
	// Catalog
	TotalBooks     int64 `json:"total_books"`
	AvailableBooks int64 `json:"available_books"`

	// Orders by status
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	ApprovedOrders  int64 `json:"approved_orders"`
	CompletedOrders int64 `json:"completed_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`

	// Users
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
}

// GetDashboard returns library statistics
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	s.db.WithContext(ctx).Model(&models.Book{}).Count(&data.TotalBooks)
	s.db.WithContext(ctx).Model(&models.Book{}).Where("is_available = ?", true).Count(&data.AvailableBooks)

	s.db.WithContext(ctx).Model(&models.Order{}).Count(&data.TotalOrders)
	s.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&data.PendingOrders)
	s.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderStatusApproved).Count(&data.ApprovedOrders)
	s.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&data.CompletedOrders)
	s.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&data.CancelledOrders)

	s.db.WithContext(ctx).Model(&models.User{}).Count(&data.TotalUsers)
	s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&data.ActiveUsers)

	return data, nil
}
