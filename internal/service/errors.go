package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNoTariffFound        = errors.New("no tariff covers the requested date")
	ErrRouteNotFound        = errors.New("no route configured")
	ErrOverlapViolation     = errors.New("tariff validity windows would overlap")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrCycleClosed          = errors.New("billing cycle is closed, indicators are immutable")
	ErrNoOpenCycle          = errors.New("no open billing cycle")
	ErrCycleAlreadyOpen     = errors.New("an open billing cycle already exists")
	ErrDestinationAmbiguous = errors.New("more than one destination set on load")
	ErrNoDestination        = errors.New("load has no destination assigned")
	ErrLoadNotCompleted     = errors.New("load is not operationally completed")
)
