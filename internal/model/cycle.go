package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingCycle is a proforma: a named accounting period carrying the
// financial indicators frozen for that period. At most one cycle is
// open at a time; once IsClosed is set the indicators and every cost
// computed against them are immutable. Corrections happen as
// superseding adjustments in a later open cycle, never in place.
type BillingCycle struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string          `gorm:"not null;uniqueIndex" json:"code"`
	CycleStart time.Time       `gorm:"not null" json:"cycle_start"`
	CycleEnd   time.Time       `gorm:"not null" json:"cycle_end"`
	UFValue    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"uf_value"`
	FuelPrice  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"fuel_price"`
	IsClosed   bool            `gorm:"not null;index" json:"is_closed"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (BillingCycle) TableName() string { return "billing_cycles" }

// Contains reports whether d falls inside [CycleStart, CycleEnd).
func (c *BillingCycle) Contains(d time.Time) bool {
	return !d.Before(c.CycleStart) && d.Before(c.CycleEnd)
}
