// Package worker contains the background job that returns expired
// reservation holds to availability.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

const leaseKeyPrefix = "reservation_expiry_lock"

// TxRunner runs a closure inside one transaction; each reservation is
// released in its own transaction so one failure cannot poison the
// rest of the sweep.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// VariantStore is the slice of the variant ledger the sweeper needs.
type VariantStore interface {
	LockByID(ctx context.Context, id uint64) (model.Variant, error)
	SaveCounters(ctx context.Context, v model.Variant) error
}

// ReservationStore yields expired holds and persists their release.
type ReservationStore interface {
	ExpiredUnreleased(ctx context.Context, now time.Time) ([]model.Reservation, error)
	Save(ctx context.Context, res model.Reservation) error
}

// ExpirySweeper periodically releases reservations whose expiry has
// passed. Before acting it claims a cluster-wide lease keyed by the
// current period bucket, so across all instances at most one sweep
// runs per period; the losers no-op. With a nil lease the sweeper
// assumes a single instance and always runs.
type ExpirySweeper struct {
	tx           TxRunner
	variants     VariantStore
	reservations ReservationStore
	lease        Lease
	clock        clock.Clock
	period       time.Duration
}

// NewExpirySweeper constructs a sweeper that fires every period.
func NewExpirySweeper(tx TxRunner, variants VariantStore, reservations ReservationStore, lease Lease, clk clock.Clock, period time.Duration) *ExpirySweeper {
	if period <= 0 {
		period = time.Minute
	}
	return &ExpirySweeper{
		tx:           tx,
		variants:     variants,
		reservations: reservations,
		lease:        lease,
		clock:        clk,
		period:       period,
	}
}

// Run sweeps on a fixed ticker until the context is cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				log.Printf("expiry-sweeper: sweep failed: %v", err)
			}
		}
	}
}

// SweepOnce performs a single sweep: claim the period lease, release
// every expired unreleased reservation in its own transaction, drop
// the lease. A reservation that fails to release is logged and
// skipped; the lease is released regardless so the next period is
// never blocked by this run.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) error {
	now := s.clock.Now()
	if s.lease != nil {
		key := fmt.Sprintf("%s:%s", leaseKeyPrefix, now.Truncate(s.period).Format(time.RFC3339))
		ok, err := s.lease.Acquire(ctx, key, s.period)
		if err != nil {
			return fmt.Errorf("acquire lease: %w", err)
		}
		if !ok {
			log.Printf("expiry-sweeper: another instance holds the lease for this period")
			return nil
		}
		defer func() {
			if err := s.lease.Release(ctx, key); err != nil {
				log.Printf("expiry-sweeper: release lease failed: %v", err)
			}
		}()
	}

	expired, err := s.reservations.ExpiredUnreleased(ctx, now)
	if err != nil {
		return fmt.Errorf("load expired reservations: %w", err)
	}
	for _, res := range expired {
		if err := s.releaseOne(ctx, res); err != nil {
			log.Printf("expiry-sweeper: release reservation %d failed: %v", res.ID, err)
			continue
		}
		log.Printf("expiry-sweeper: released reservation %d variant=%d qty=%d",
			res.ID, res.VariantID, res.Quantity)
	}
	return nil
}

func (s *ExpirySweeper) releaseOne(ctx context.Context, res model.Reservation) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		variant, err := s.variants.LockByID(ctx, res.VariantID)
		if err != nil {
			return err
		}
		variant.ReservedQuantity -= res.Quantity
		if err := s.variants.SaveCounters(ctx, variant); err != nil {
			return err
		}
		res.Released = true
		return s.reservations.Save(ctx, res)
	})
}
