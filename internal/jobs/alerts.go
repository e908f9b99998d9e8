// Package jobs runs the API's background schedules.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/store"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StockScanner looks for low and soon-expiring stock.
type StockScanner struct {
	store      *store.Store
	windowDays int
}

func NewStockScanner(st *store.Store, windowDays int) *StockScanner {
	if windowDays <= 0 {
		windowDays = domain.DefaultExpiryWindowDays
	}
	return &StockScanner{store: st, windowDays: windowDays}
}

// Scan runs one pass and logs what it found.
func (s *StockScanner) Scan(ctx context.Context) (domain.StockAlert, error) {
	var alert domain.StockAlert
	low, err := s.store.LowStock(ctx)
	if err != nil {
		return alert, err
	}
	now := s.store.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiring, err := s.store.ExpiringBetween(ctx, today, today.AddDate(0, 0, s.windowDays))
	if err != nil {
		return alert, err
	}
	alert.LowStock, alert.Expiring = low, expiring

	if alert.Empty() {
		zap.L().Info("stock scan clean")
		return alert, nil
	}
	for _, m := range low {
		zap.L().Warn("low stock", zap.Int64("medicine_id", m.ID), zap.String("name", m.Name),
			zap.Int64("quantity", m.Quantity), zap.Int64("threshold", m.LowStockThreshold))
	}
	for _, m := range expiring {
		zap.L().Warn("expiring stock", zap.Int64("medicine_id", m.ID), zap.String("name", m.Name),
			zap.String("expiry_date", m.ExpiryDate), zap.String("batch", m.BatchNumber))
	}
	return alert, nil
}

// Start schedules Scan on spec (a cron expression or descriptor such as
// "@daily"). Stop the returned scheduler to end it.
func (s *StockScanner) Start(spec string) (*cron.Cron, error) {
	sched := cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser))
	_, err := sched.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Scan(ctx); err != nil {
			zap.S().Errorf("stock scan failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
