package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadCost is the persisted financial record of one load, in UF.
// Contractor and disposal figures are payables, client figures are
// receivables. The record is tagged with the billing cycle whose
// indicators were used, for traceability and immutability checks.
type LoadCost struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LoadID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"load_id"`
	BillingCycleID uuid.UUID `gorm:"type:uuid;not null;index" json:"billing_cycle_id"`

	DistanceKM     float64         `gorm:"not null" json:"distance_km"`
	BillableWeight float64         `gorm:"not null" json:"billable_weight_tons"`
	FuelFactor     decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"fuel_factor"`

	ContractorTariffID uuid.UUID       `gorm:"type:uuid;not null" json:"contractor_tariff_id"`
	ContractorCostUF   decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"contractor_cost_uf"`

	DisposalTariffID *uuid.UUID      `gorm:"type:uuid" json:"disposal_tariff_id,omitempty"`
	DisposalCostUF   decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"disposal_cost_uf"`

	ClientRevenueUF decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"client_revenue_uf"`

	TotalCostUF decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"total_cost_uf"`

	ComputedAt time.Time `gorm:"not null" json:"computed_at"`
}

func (LoadCost) TableName() string { return "load_costs" }

// NativeTotalCost converts the total payable to native currency at the
// given UF value. Conversion happens only at payment time, with the
// cycle's value at close.
func (c *LoadCost) NativeTotalCost(ufValue decimal.Decimal) decimal.Decimal {
	return c.TotalCostUF.Mul(ufValue)
}

// NativeRevenue converts the client receivable to native currency.
func (c *LoadCost) NativeRevenue(ufValue decimal.Decimal) decimal.Decimal {
	return c.ClientRevenueUF.Mul(ufValue)
}

// CostResult is the computation outcome returned to callers, with the
// per-concept revenue breakdown that is not persisted column by column.
type CostResult struct {
	Cost             LoadCost                           `json:"cost"`
	RevenueByConcept map[BillingConcept]decimal.Decimal `json:"revenue_by_concept"`
}

// TripCost is the read-side rollup of per-segment costs sharing one
// trip_id. Segments are costed independently; this is reporting only.
type TripCost struct {
	TripID          uuid.UUID       `json:"trip_id"`
	Segments        int             `json:"segments"`
	TotalDistanceKM float64         `json:"total_distance_km"`
	TotalCostUF     decimal.Decimal `json:"total_cost_uf"`
	TotalRevenueUF  decimal.Decimal `json:"total_revenue_uf"`
}

// CycleSettlement summarizes a cycle's financial position at close,
// including the native-currency conversion at the cycle's UF value.
type CycleSettlement struct {
	Cycle           BillingCycle    `json:"cycle"`
	LoadsCosted     int             `json:"loads_costed"`
	TotalCostUF     decimal.Decimal `json:"total_cost_uf"`
	TotalRevenueUF  decimal.Decimal `json:"total_revenue_uf"`
	TotalCostCLP    decimal.Decimal `json:"total_cost_clp"`
	TotalRevenueCLP decimal.Decimal `json:"total_revenue_clp"`
}
