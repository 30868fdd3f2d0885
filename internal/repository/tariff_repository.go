package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
)

// TariffRepository gives typed access to the three versioned tariff
// tables through one temporal store each.
type TariffRepository struct {
	contractor *TemporalStore[model.ContractorTariff, *model.ContractorTariff]
	client     *TemporalStore[model.ClientTariff, *model.ClientTariff]
	site       *TemporalStore[model.DisposalSiteTariff, *model.DisposalSiteTariff]
}

func NewTariffRepository(db *gorm.DB) *TariffRepository {
	return &TariffRepository{
		contractor: NewTemporalStore[model.ContractorTariff, *model.ContractorTariff](db),
		client:     NewTemporalStore[model.ClientTariff, *model.ClientTariff](db),
		site:       NewTemporalStore[model.DisposalSiteTariff, *model.DisposalSiteTariff](db),
	}
}

func (r *TariffRepository) ResolveContractor(ctx context.Context, contractorID uuid.UUID, class model.VehicleClass, asOf time.Time) (*model.ContractorTariff, error) {
	probe := &model.ContractorTariff{ContractorID: contractorID, VehicleClass: class}
	return r.contractor.ResolveAsOf(ctx, probe, asOf)
}

func (r *TariffRepository) ResolveClient(ctx context.Context, clientID uuid.UUID, concept model.BillingConcept, asOf time.Time) (*model.ClientTariff, error) {
	probe := &model.ClientTariff{ClientID: clientID, Concept: concept}
	return r.client.ResolveAsOf(ctx, probe, asOf)
}

func (r *TariffRepository) ResolveDisposalSite(ctx context.Context, siteID uuid.UUID, asOf time.Time) (*model.DisposalSiteTariff, error) {
	probe := &model.DisposalSiteTariff{SiteID: siteID}
	return r.site.ResolveAsOf(ctx, probe, asOf)
}

func (r *TariffRepository) InsertContractorVersion(ctx context.Context, tariff *model.ContractorTariff, effective time.Time) error {
	return r.contractor.InsertVersion(ctx, tariff, effective)
}

func (r *TariffRepository) InsertClientVersion(ctx context.Context, tariff *model.ClientTariff, effective time.Time) error {
	return r.client.InsertVersion(ctx, tariff, effective)
}

func (r *TariffRepository) InsertDisposalSiteVersion(ctx context.Context, tariff *model.DisposalSiteTariff, effective time.Time) error {
	return r.site.InsertVersion(ctx, tariff, effective)
}

func (r *TariffRepository) ContractorHistory(ctx context.Context, contractorID uuid.UUID, class model.VehicleClass) ([]model.ContractorTariff, error) {
	probe := &model.ContractorTariff{ContractorID: contractorID, VehicleClass: class}
	return r.contractor.History(ctx, probe)
}
