package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
)

// ErrCycleAlreadyOpen is returned by Create when an open cycle exists;
// the open cycle is an explicit singleton looked up by is_closed =
// false so every process observes the same one.
var ErrCycleAlreadyOpen = errors.New("an open billing cycle already exists")

type CycleRepository struct {
	db *gorm.DB
}

func NewCycleRepository(db *gorm.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

func (r *CycleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BillingCycle, error) {
	var cycle model.BillingCycle
	if err := r.db.WithContext(ctx).First(&cycle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *CycleRepository) GetOpen(ctx context.Context) (*model.BillingCycle, error) {
	var cycle model.BillingCycle
	err := r.db.WithContext(ctx).
		Where("is_closed = ?", false).
		Order("cycle_start DESC").
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *CycleRepository) Create(ctx context.Context, cycle *model.BillingCycle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BillingCycle{}).
			Where("is_closed = ?", false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCycleAlreadyOpen
		}
		if cycle.ID == uuid.Nil {
			cycle.ID = uuid.New()
		}
		return tx.Create(cycle).Error
	})
}

// Close marks the cycle closed. One-way: there is no reopen.
func (r *CycleRepository) Close(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.BillingCycle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_closed": true,
			"closed_at": now,
		}).Error
}
