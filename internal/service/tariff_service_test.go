package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tmedina/wasteops-billing/internal/model"
)

func TestResolveContractorTariffByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()

	f.insertContractorTariff(t, contractorID, "0.0015", 15, "800", date(2025, time.January, 1))
	f.insertContractorTariff(t, contractorID, "0.0018", 15, "820", date(2025, time.June, 1))

	got, err := f.tariffs.ResolveContractorTariff(ctx, contractorID, model.VehicleBatea, date(2025, time.March, 15))
	require.NoError(t, err)
	require.Equal(t, "0.0015", got.BaseRateUF.String())

	got, err = f.tariffs.ResolveContractorTariff(ctx, contractorID, model.VehicleBatea, date(2025, time.July, 1))
	require.NoError(t, err)
	require.Equal(t, "0.0018", got.BaseRateUF.String())

	_, err = f.tariffs.ResolveContractorTariff(ctx, contractorID, model.VehicleBatea, date(2024, time.July, 1))
	require.ErrorIs(t, err, ErrNoTariffFound)

	_, err = f.tariffs.ResolveContractorTariff(ctx, contractorID, model.VehicleAmpirollSimple, date(2025, time.March, 15))
	require.ErrorIs(t, err, ErrNoTariffFound)
}

func TestInsertContractorVersionRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()

	f.insertContractorTariff(t, contractorID, "0.0015", 15, "800", date(2025, time.June, 1))

	err := f.tariffs.InsertContractorVersion(ctx, &model.ContractorTariff{
		ContractorID:  contractorID,
		VehicleClass:  model.VehicleBatea,
		BaseRateUF:    decimal.RequireFromString("0.0018"),
		BaseFuelPrice: decimal.RequireFromString("820"),
	}, date(2025, time.March, 1))
	require.ErrorIs(t, err, ErrOverlapViolation)
}

func TestInsertTariffVersionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.tariffs.InsertContractorVersion(ctx, &model.ContractorTariff{
		ContractorID:  uuid.New(),
		VehicleClass:  "TRICYCLE",
		BaseRateUF:    decimal.RequireFromString("0.0015"),
		BaseFuelPrice: decimal.RequireFromString("800"),
	}, date(2025, time.January, 1))
	require.ErrorIs(t, err, ErrInvalidInput)

	err = f.tariffs.InsertClientVersion(ctx, &model.ClientTariff{
		ClientID: uuid.New(),
		Concept:  model.ConceptTransport,
		RateUF:   decimal.Zero,
	}, date(2025, time.January, 1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestContractorHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()

	f.insertContractorTariff(t, contractorID, "0.0015", 15, "800", date(2025, time.January, 1))
	f.insertContractorTariff(t, contractorID, "0.0018", 15, "820", date(2025, time.June, 1))

	history, err := f.tariffs.ContractorHistory(ctx, contractorID, model.VehicleBatea)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "0.0018", history[0].BaseRateUF.String())
	require.Nil(t, history[0].ValidTo)
	require.NotNil(t, history[1].ValidTo)
}
