package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/repository"
)

// TariffService resolves point-in-time tariffs and inserts new
// versions. A miss is a hard stop for costing, never a silent zero, so
// every failure names the subject and date an operator has to fix.
type TariffService struct {
	tariffs *repository.TariffRepository
}

func NewTariffService(tariffs *repository.TariffRepository) *TariffService {
	return &TariffService{tariffs: tariffs}
}

func (s *TariffService) ResolveContractorTariff(ctx context.Context, contractorID uuid.UUID, class model.VehicleClass, date time.Time) (*model.ContractorTariff, error) {
	if !class.IsValid() {
		return nil, fmt.Errorf("%w: unknown vehicle class %q", ErrInvalidInput, class)
	}
	tariff, err := s.tariffs.ResolveContractor(ctx, contractorID, class, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contractor %s / %s on %s",
				ErrNoTariffFound, contractorID, class, date.Format("2006-01-02"))
		}
		return nil, err
	}
	return tariff, nil
}

func (s *TariffService) ResolveClientTariff(ctx context.Context, clientID uuid.UUID, concept model.BillingConcept, date time.Time) (*model.ClientTariff, error) {
	if !concept.IsValid() {
		return nil, fmt.Errorf("%w: unknown billing concept %q", ErrInvalidInput, concept)
	}
	tariff, err := s.tariffs.ResolveClient(ctx, clientID, concept, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %s / %s on %s",
				ErrNoTariffFound, clientID, concept, date.Format("2006-01-02"))
		}
		return nil, err
	}
	return tariff, nil
}

func (s *TariffService) ResolveDisposalSiteTariff(ctx context.Context, siteID uuid.UUID, date time.Time) (*model.DisposalSiteTariff, error) {
	tariff, err := s.tariffs.ResolveDisposalSite(ctx, siteID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: disposal site %s on %s",
				ErrNoTariffFound, siteID, date.Format("2006-01-02"))
		}
		return nil, err
	}
	return tariff, nil
}

// InsertContractorVersion records a new contractor rate taking effect
// on effective, closing the previous open version in the same
// transaction.
func (s *TariffService) InsertContractorVersion(ctx context.Context, tariff *model.ContractorTariff, effective time.Time) error {
	if !tariff.VehicleClass.IsValid() {
		return fmt.Errorf("%w: unknown vehicle class %q", ErrInvalidInput, tariff.VehicleClass)
	}
	if tariff.BaseRateUF.Sign() <= 0 || tariff.BaseFuelPrice.Sign() <= 0 {
		return fmt.Errorf("%w: rate and base fuel price must be positive", ErrInvalidInput)
	}
	return s.wrapOverlap(s.tariffs.InsertContractorVersion(ctx, tariff, effective), tariff.SubjectKey(), effective)
}

func (s *TariffService) InsertClientVersion(ctx context.Context, tariff *model.ClientTariff, effective time.Time) error {
	if !tariff.Concept.IsValid() {
		return fmt.Errorf("%w: unknown billing concept %q", ErrInvalidInput, tariff.Concept)
	}
	if tariff.RateUF.Sign() <= 0 {
		return fmt.Errorf("%w: rate must be positive", ErrInvalidInput)
	}
	return s.wrapOverlap(s.tariffs.InsertClientVersion(ctx, tariff, effective), tariff.SubjectKey(), effective)
}

func (s *TariffService) InsertDisposalSiteVersion(ctx context.Context, tariff *model.DisposalSiteTariff, effective time.Time) error {
	if tariff.RateUF.Sign() <= 0 {
		return fmt.Errorf("%w: rate must be positive", ErrInvalidInput)
	}
	return s.wrapOverlap(s.tariffs.InsertDisposalSiteVersion(ctx, tariff, effective), tariff.SubjectKey(), effective)
}

// ContractorHistory returns every rate version for one contractor and
// vehicle class, newest first.
func (s *TariffService) ContractorHistory(ctx context.Context, contractorID uuid.UUID, class model.VehicleClass) ([]model.ContractorTariff, error) {
	if !class.IsValid() {
		return nil, fmt.Errorf("%w: unknown vehicle class %q", ErrInvalidInput, class)
	}
	return s.tariffs.ContractorHistory(ctx, contractorID, class)
}

func (s *TariffService) wrapOverlap(err error, subject string, effective time.Time) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrOverlapViolation) {
		return fmt.Errorf("%w: %s, effective %s precedes the open version",
			ErrOverlapViolation, subject, effective.Format("2006-01-02"))
	}
	return err
}
