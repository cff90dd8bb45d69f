package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled background jobs for the ordering
// workflow. Currently a single daily job: expire PENDING orders that
// held a book longer than the configured hold window.
type MaintenanceService struct {
	cron     *cron.Cron
	orderSvc *OrderService
	holdDays int
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(orderSvc *OrderService, holdDays int) *MaintenanceService {
	return &MaintenanceService{
		cron:     cron.New(),
		orderSvc: orderSvc,
		holdDays: holdDays,
	}
}

// Start schedules the maintenance jobs
func (s *MaintenanceService) Start() {
	// Daily at 03:30, off-peak
	_, err := s.cron.AddFunc("30 3 * * *", s.expireHolds)
	if err != nil {
		log.Printf("❌ Failed to schedule hold expiry job: %v", err)
		return
	}

	s.cron.Start()
	log.Printf("🚀 MaintenanceService started (hold window: %d days)", s.holdDays)
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 MaintenanceService stopped")
}

func (s *MaintenanceService) expireHolds() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.orderSvc.ExpireStaleHolds(ctx, s.holdDays)
	if err != nil {
		log.Printf("❌ Hold expiry job failed: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("🗑️ Expired %d stale pending orders", expired)
	}
}
