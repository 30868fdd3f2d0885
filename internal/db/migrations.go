package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'load_status') THEN
			CREATE TYPE load_status AS ENUM (
				'REQUESTED', 'CREATED', 'SCHEDULED', 'ACCEPTED',
				'EN_ROUTE_PICKUP', 'AT_PICKUP', 'EN_ROUTE_DESTINATION',
				'AT_DESTINATION', 'IN_DISPOSAL', 'COMPLETED', 'CANCELLED'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'financial_status') THEN
			CREATE TYPE financial_status AS ENUM ('PENDING', 'CALCULATED', 'APPROVED', 'BILLED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'segment_type') THEN
			CREATE TYPE segment_type AS ENUM ('DIRECT', 'PICKUP_SEGMENT', 'MAIN_HAUL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'destination_type') THEN
			CREATE TYPE destination_type AS ENUM ('FACILITY', 'SITE', 'LANDFILL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS loads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		origin_facility_id UUID NOT NULL,
		client_id UUID NOT NULL,
		contractor_id UUID,
		vehicle_id UUID,
		driver_id UUID,
		vehicle_class VARCHAR(32),
		destination_site_id UUID,
		destination_plant_id UUID,
		destination_landfill_id UUID,
		gross_weight_tons DOUBLE PRECISION,
		tare_weight_tons DOUBLE PRECISION,
		net_weight_tons DOUBLE PRECISION,
		status load_status NOT NULL DEFAULT 'CREATED',
		financial_status financial_status NOT NULL DEFAULT 'PENDING',
		trip_id UUID,
		segment_type segment_type NOT NULL DEFAULT 'DIRECT',
		attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
		requested_date TIMESTAMPTZ,
		scheduled_date TIMESTAMPTZ,
		dispatch_time TIMESTAMPTZ,
		arrival_time TIMESTAMPTZ,
		disposal_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_loads_status ON loads (status);`,
	`CREATE INDEX IF NOT EXISTS idx_loads_financial_status ON loads (financial_status);`,
	`CREATE INDEX IF NOT EXISTS idx_loads_trip_id ON loads (trip_id) WHERE trip_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_loads_scheduled_date ON loads (scheduled_date);`,
	`CREATE TABLE IF NOT EXISTS load_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		load_id UUID NOT NULL REFERENCES loads(id) ON DELETE CASCADE,
		from_status load_status NOT NULL,
		to_status load_status NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		actor_id UUID NOT NULL,
		notes TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_load_status_history_load_id ON load_status_history (load_id);`,
	`CREATE TABLE IF NOT EXISTS contractor_tariffs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contractor_id UUID NOT NULL,
		vehicle_class VARCHAR(32) NOT NULL,
		base_rate_uf NUMERIC(18,6) NOT NULL,
		min_weight_guaranteed DOUBLE PRECISION NOT NULL DEFAULT 0,
		base_fuel_price NUMERIC(18,4) NOT NULL,
		valid_from TIMESTAMPTZ NOT NULL,
		valid_to TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contractor_tariffs_open
		ON contractor_tariffs (contractor_id, vehicle_class) WHERE valid_to IS NULL;`,
	`CREATE TABLE IF NOT EXISTS client_tariffs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL,
		concept VARCHAR(32) NOT NULL,
		rate_uf NUMERIC(18,6) NOT NULL,
		min_weight_guaranteed DOUBLE PRECISION NOT NULL DEFAULT 0,
		valid_from TIMESTAMPTZ NOT NULL,
		valid_to TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_client_tariffs_open
		ON client_tariffs (client_id, concept) WHERE valid_to IS NULL;`,
	`CREATE TABLE IF NOT EXISTS disposal_site_tariffs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		site_id UUID NOT NULL,
		rate_uf NUMERIC(18,6) NOT NULL,
		min_weight_guaranteed DOUBLE PRECISION NOT NULL DEFAULT 0,
		valid_from TIMESTAMPTZ NOT NULL,
		valid_to TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_disposal_site_tariffs_open
		ON disposal_site_tariffs (site_id) WHERE valid_to IS NULL;`,
	`CREATE TABLE IF NOT EXISTS distance_matrix (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		origin_facility_id UUID NOT NULL,
		destination_id UUID NOT NULL,
		destination_type destination_type NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL CHECK (distance_km > 0),
		is_relay_segment BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_distance_matrix_route
		ON distance_matrix (origin_facility_id, destination_id, destination_type);`,
	`CREATE TABLE IF NOT EXISTS billing_cycles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		cycle_start TIMESTAMPTZ NOT NULL,
		cycle_end TIMESTAMPTZ NOT NULL,
		uf_value NUMERIC(18,4) NOT NULL,
		fuel_price NUMERIC(18,4) NOT NULL,
		is_closed BOOLEAN NOT NULL DEFAULT FALSE,
		closed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_billing_cycles_code ON billing_cycles (code);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_billing_cycles_open
		ON billing_cycles (is_closed) WHERE is_closed = FALSE;`,
	`CREATE TABLE IF NOT EXISTS load_costs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		load_id UUID NOT NULL REFERENCES loads(id) ON DELETE CASCADE,
		billing_cycle_id UUID NOT NULL REFERENCES billing_cycles(id),
		distance_km DOUBLE PRECISION NOT NULL,
		billable_weight DOUBLE PRECISION NOT NULL,
		fuel_factor NUMERIC(18,6) NOT NULL,
		contractor_tariff_id UUID NOT NULL,
		contractor_cost_uf NUMERIC(18,6) NOT NULL,
		disposal_tariff_id UUID,
		disposal_cost_uf NUMERIC(18,6) NOT NULL DEFAULT 0,
		client_revenue_uf NUMERIC(18,6) NOT NULL,
		total_cost_uf NUMERIC(18,6) NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_load_costs_load_id ON load_costs (load_id);`,
	`CREATE INDEX IF NOT EXISTS idx_load_costs_cycle ON load_costs (billing_cycle_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
