package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TariffKind selects one of the three versioned rate tables.
type TariffKind string

const (
	TariffKindContractor   TariffKind = "CONTRACTOR"
	TariffKindClient       TariffKind = "CLIENT"
	TariffKindDisposalSite TariffKind = "DISPOSAL_SITE"
)

func (k TariffKind) IsValid() bool {
	return k == TariffKindContractor || k == TariffKindClient || k == TariffKindDisposalSite
}

// VehicleClass is the contractual vehicle configuration a contractor
// rate is quoted for.
type VehicleClass string

const (
	VehicleBatea          VehicleClass = "BATEA"
	VehicleAmpirollSimple VehicleClass = "AMPLIROLL_SIMPLE"
	VehicleAmpirollCarro  VehicleClass = "AMPLIROLL_CARRO"
)

func (v VehicleClass) IsValid() bool {
	return v == VehicleBatea || v == VehicleAmpirollSimple || v == VehicleAmpirollCarro
}

// BillingConcept is the service concept a client rate applies to.
type BillingConcept string

const (
	ConceptTransport BillingConcept = "TRANSPORT"
	ConceptTreatment BillingConcept = "TREATMENT"
	ConceptDisposal  BillingConcept = "DISPOSAL"
)

func (c BillingConcept) IsValid() bool {
	return c == ConceptTransport || c == ConceptTreatment || c == ConceptDisposal
}

// ContractorTariff is a versioned haulage rate payable to a contractor,
// quoted in UF per ton-km and pivoted on a reference fuel price. The
// window is [ValidFrom, ValidTo); an open record has ValidTo = nil.
type ContractorTariff struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ContractorID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractor_id"`
	VehicleClass        VehicleClass    `gorm:"not null" json:"vehicle_class"`
	BaseRateUF          decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"base_rate_uf"`
	MinWeightGuaranteed float64         `gorm:"not null" json:"min_weight_guaranteed"`
	BaseFuelPrice       decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"base_fuel_price"`
	ValidFrom           time.Time       `gorm:"not null;index" json:"valid_from"`
	ValidTo             *time.Time      `gorm:"index" json:"valid_to,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (ContractorTariff) TableName() string { return "contractor_tariffs" }

func (t *ContractorTariff) SubjectConditions() map[string]any {
	return map[string]any{"contractor_id": t.ContractorID, "vehicle_class": t.VehicleClass}
}

func (t *ContractorTariff) SubjectKey() string {
	return fmt.Sprintf("contractor %s / %s", t.ContractorID, t.VehicleClass)
}

func (t *ContractorTariff) Window() (time.Time, *time.Time) { return t.ValidFrom, t.ValidTo }

func (t *ContractorTariff) SetWindow(from time.Time, to *time.Time) {
	t.ValidFrom = from
	t.ValidTo = to
}

func (t *ContractorTariff) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

// ClientTariff is a versioned billable rate per ton for one client and
// billing concept, flat in UF.
type ClientTariff struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Concept             BillingConcept  `gorm:"not null" json:"concept"`
	RateUF              decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"rate_uf"`
	MinWeightGuaranteed float64         `gorm:"not null" json:"min_weight_guaranteed"`
	ValidFrom           time.Time       `gorm:"not null;index" json:"valid_from"`
	ValidTo             *time.Time      `gorm:"index" json:"valid_to,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (ClientTariff) TableName() string { return "client_tariffs" }

func (t *ClientTariff) SubjectConditions() map[string]any {
	return map[string]any{"client_id": t.ClientID, "concept": t.Concept}
}

func (t *ClientTariff) SubjectKey() string {
	return fmt.Sprintf("client %s / %s", t.ClientID, t.Concept)
}

func (t *ClientTariff) Window() (time.Time, *time.Time) { return t.ValidFrom, t.ValidTo }

func (t *ClientTariff) SetWindow(from time.Time, to *time.Time) {
	t.ValidFrom = from
	t.ValidTo = to
}

func (t *ClientTariff) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

// DisposalSiteTariff is a versioned gate fee per ton payable to a
// disposal site, with its own guaranteed-weight floor.
type DisposalSiteTariff struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SiteID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"site_id"`
	RateUF              decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"rate_uf"`
	MinWeightGuaranteed float64         `gorm:"not null" json:"min_weight_guaranteed"`
	ValidFrom           time.Time       `gorm:"not null;index" json:"valid_from"`
	ValidTo             *time.Time      `gorm:"index" json:"valid_to,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (DisposalSiteTariff) TableName() string { return "disposal_site_tariffs" }

func (t *DisposalSiteTariff) SubjectConditions() map[string]any {
	return map[string]any{"site_id": t.SiteID}
}

func (t *DisposalSiteTariff) SubjectKey() string {
	return fmt.Sprintf("disposal site %s", t.SiteID)
}

func (t *DisposalSiteTariff) Window() (time.Time, *time.Time) { return t.ValidFrom, t.ValidTo }

func (t *DisposalSiteTariff) SetWindow(from time.Time, to *time.Time) {
	t.ValidFrom = from
	t.ValidTo = to
}

func (t *DisposalSiteTariff) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}
