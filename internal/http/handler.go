package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tmedina/wasteops-billing/internal/http/middleware"
	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/service"
)

type Handler struct {
	lifecycle *service.LifecycleService
	costs     *service.CostService
	tariffs   *service.TariffService
	distances *service.DistanceService
	cycles    *service.CycleService
	log       zerolog.Logger
}

func NewHandler(
	lifecycle *service.LifecycleService,
	costs *service.CostService,
	tariffs *service.TariffService,
	distances *service.DistanceService,
	cycles *service.CycleService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		costs:     costs,
		tariffs:   tariffs,
		distances: distances,
		cycles:    cycles,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/loads", h.createLoad)
	protected.PATCH("/loads/:id/assignment", h.assignLoad)
	protected.POST("/loads/:id/transitions", h.transitionLoad)
	protected.POST("/loads/:id/attributes", h.updateAttributes)
	protected.GET("/loads/:id/history", h.loadHistory)
	protected.POST("/loads/:id/cost", h.computeCost)
	protected.POST("/loads/:id/approve", h.approveLoad)
	protected.POST("/loads/:id/bill", h.billLoad)

	protected.GET("/trips/:id/cost", h.tripCost)

	protected.GET("/tariffs/:kind", h.resolveTariff)
	protected.POST("/tariffs/:kind/versions", h.insertTariffVersion)
	protected.GET("/tariffs/contractor/versions", h.contractorTariffHistory)

	protected.PUT("/routes", h.upsertRoute)
	protected.GET("/routes", h.listRoutes)
	protected.GET("/routes/resolve", h.resolveRoute)

	protected.POST("/cycles", h.openCycle)
	protected.GET("/cycles/current", h.currentCycle)
	protected.POST("/cycles/:id/close", h.closeCycle)
	protected.GET("/cycles/:id/uncosted", h.uncostedLoads)
	protected.GET("/cycles/:id/settlement", h.cycleSettlement)
}

type createLoadRequest struct {
	OriginFacilityID string           `json:"origin_facility_id" binding:"required"`
	ClientID         string           `json:"client_id" binding:"required"`
	Requested        bool             `json:"requested"`
	TripID           *string          `json:"trip_id"`
	SegmentType      string           `json:"segment_type"`
	ScheduledDate    *string          `json:"scheduled_date"`
	Attributes       model.Attributes `json:"attributes"`
}

func (h *Handler) createLoad(c *gin.Context) {
	var req createLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	origin, err := uuid.Parse(req.OriginFacilityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid origin_facility_id"})
		return
	}
	client, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	input := service.CreateLoadInput{
		OriginFacilityID: origin,
		ClientID:         client,
		Requested:        req.Requested,
		SegmentType:      model.SegmentType(req.SegmentType),
		Attributes:       req.Attributes,
	}
	if req.TripID != nil {
		tripID, err := uuid.Parse(*req.TripID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip_id"})
			return
		}
		input.TripID = &tripID
	}
	if req.ScheduledDate != nil {
		scheduled, err := parseDate(*req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_date"})
			return
		}
		input.ScheduledDate = &scheduled
	}

	load, err := h.lifecycle.CreateLoad(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, load)
}

type assignLoadRequest struct {
	ContractorID          *string `json:"contractor_id"`
	VehicleID             *string `json:"vehicle_id"`
	DriverID              *string `json:"driver_id"`
	VehicleClass          *string `json:"vehicle_class"`
	DestinationSiteID     *string `json:"destination_site_id"`
	DestinationPlantID    *string `json:"destination_plant_id"`
	DestinationLandfillID *string `json:"destination_landfill_id"`
	ScheduledDate         *string `json:"scheduled_date"`
}

func (h *Handler) assignLoad(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	var req assignLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var input service.AssignLoadInput
	if input.ContractorID, err = parseOptionalUUID(req.ContractorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractor_id"})
		return
	}
	if input.VehicleID, err = parseOptionalUUID(req.VehicleID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
		return
	}
	if input.DriverID, err = parseOptionalUUID(req.DriverID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
		return
	}
	if input.DestinationSiteID, err = parseOptionalUUID(req.DestinationSiteID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination_site_id"})
		return
	}
	if input.DestinationPlantID, err = parseOptionalUUID(req.DestinationPlantID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination_plant_id"})
		return
	}
	if input.DestinationLandfillID, err = parseOptionalUUID(req.DestinationLandfillID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination_landfill_id"})
		return
	}
	if req.VehicleClass != nil {
		class := model.VehicleClass(*req.VehicleClass)
		input.VehicleClass = &class
	}
	if req.ScheduledDate != nil {
		scheduled, err := parseDate(*req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_date"})
			return
		}
		input.ScheduledDate = &scheduled
	}

	load, err := h.lifecycle.AssignLoad(c.Request.Context(), loadID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

type transitionRequest struct {
	TargetStatus string  `json:"target_status" binding:"required"`
	Notes        *string `json:"notes"`
}

func (h *Handler) transitionLoad(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	load, err := h.lifecycle.Transition(c.Request.Context(), loadID,
		model.LoadStatus(strings.ToUpper(strings.TrimSpace(req.TargetStatus))), principal, req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

func (h *Handler) updateAttributes(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	var attrs model.Attributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	load, err := h.lifecycle.UpdateAttributes(c.Request.Context(), loadID, attrs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

func (h *Handler) loadHistory(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	history, err := h.lifecycle.Timeline(c.Request.Context(), loadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *Handler) computeCost(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	result, err := h.costs.ComputeCost(c.Request.Context(), loadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) approveLoad(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	load, err := h.costs.ApproveLoad(c.Request.Context(), loadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

func (h *Handler) billLoad(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	load, err := h.costs.BillLoad(c.Request.Context(), loadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

func (h *Handler) tripCost(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	rollup, err := h.costs.TripCost(c.Request.Context(), tripID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

func (h *Handler) resolveTariff(c *gin.Context) {
	kind := model.TariffKind(strings.ToUpper(c.Param("kind")))
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	ctx := c.Request.Context()
	switch kind {
	case model.TariffKindContractor:
		contractorID, err := uuid.Parse(c.Query("contractor_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractor_id"})
			return
		}
		tariff, err := h.tariffs.ResolveContractorTariff(ctx, contractorID,
			model.VehicleClass(strings.ToUpper(c.Query("vehicle_class"))), date)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tariff)
	case model.TariffKindClient:
		clientID, err := uuid.Parse(c.Query("client_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		tariff, err := h.tariffs.ResolveClientTariff(ctx, clientID,
			model.BillingConcept(strings.ToUpper(c.Query("concept"))), date)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tariff)
	case model.TariffKindDisposalSite:
		siteID, err := uuid.Parse(c.Query("site_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site_id"})
			return
		}
		tariff, err := h.tariffs.ResolveDisposalSiteTariff(ctx, siteID, date)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tariff)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tariff kind"})
	}
}

type tariffVersionRequest struct {
	ContractorID        *string `json:"contractor_id"`
	VehicleClass        *string `json:"vehicle_class"`
	ClientID            *string `json:"client_id"`
	Concept             *string `json:"concept"`
	SiteID              *string `json:"site_id"`
	RateUF              string  `json:"rate_uf" binding:"required"`
	MinWeightGuaranteed float64 `json:"min_weight_guaranteed"`
	BaseFuelPrice       *string `json:"base_fuel_price"`
	EffectiveDate       string  `json:"effective_date" binding:"required"`
}

func (h *Handler) insertTariffVersion(c *gin.Context) {
	kind := model.TariffKind(strings.ToUpper(c.Param("kind")))
	var req tariffVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := decimal.NewFromString(req.RateUF)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate_uf"})
		return
	}
	effective, err := parseDate(req.EffectiveDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid effective_date"})
		return
	}

	ctx := c.Request.Context()
	switch kind {
	case model.TariffKindContractor:
		if req.ContractorID == nil || req.VehicleClass == nil || req.BaseFuelPrice == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contractor_id, vehicle_class and base_fuel_price are required"})
			return
		}
		contractorID, err := uuid.Parse(*req.ContractorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractor_id"})
			return
		}
		fuelPrice, err := decimal.NewFromString(*req.BaseFuelPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base_fuel_price"})
			return
		}
		tariff := &model.ContractorTariff{
			ContractorID:        contractorID,
			VehicleClass:        model.VehicleClass(strings.ToUpper(*req.VehicleClass)),
			BaseRateUF:          rate,
			MinWeightGuaranteed: req.MinWeightGuaranteed,
			BaseFuelPrice:       fuelPrice,
		}
		if err := h.tariffs.InsertContractorVersion(ctx, tariff, effective); err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tariff)
	case model.TariffKindClient:
		if req.ClientID == nil || req.Concept == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id and concept are required"})
			return
		}
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		tariff := &model.ClientTariff{
			ClientID:            clientID,
			Concept:             model.BillingConcept(strings.ToUpper(*req.Concept)),
			RateUF:              rate,
			MinWeightGuaranteed: req.MinWeightGuaranteed,
		}
		if err := h.tariffs.InsertClientVersion(ctx, tariff, effective); err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tariff)
	case model.TariffKindDisposalSite:
		if req.SiteID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
			return
		}
		siteID, err := uuid.Parse(*req.SiteID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site_id"})
			return
		}
		tariff := &model.DisposalSiteTariff{
			SiteID:              siteID,
			RateUF:              rate,
			MinWeightGuaranteed: req.MinWeightGuaranteed,
		}
		if err := h.tariffs.InsertDisposalSiteVersion(ctx, tariff, effective); err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tariff)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tariff kind"})
	}
}

func (h *Handler) contractorTariffHistory(c *gin.Context) {
	contractorID, err := uuid.Parse(c.Query("contractor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractor_id"})
		return
	}
	history, err := h.tariffs.ContractorHistory(c.Request.Context(), contractorID,
		model.VehicleClass(strings.ToUpper(c.Query("vehicle_class"))))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": history})
}

type routeRequest struct {
	OriginFacilityID string  `json:"origin_facility_id" binding:"required"`
	DestinationID    string  `json:"destination_id" binding:"required"`
	DestinationType  string  `json:"destination_type" binding:"required"`
	DistanceKM       float64 `json:"distance_km" binding:"required"`
	IsRelaySegment   bool    `json:"is_relay_segment"`
}

func (h *Handler) upsertRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	origin, err := uuid.Parse(req.OriginFacilityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid origin_facility_id"})
		return
	}
	destID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination_id"})
		return
	}
	edge := &model.DistanceEdge{
		OriginFacilityID: origin,
		DestinationID:    destID,
		DestinationType:  model.DestinationType(strings.ToUpper(req.DestinationType)),
		DistanceKM:       req.DistanceKM,
		IsRelaySegment:   req.IsRelaySegment,
	}
	if err := h.distances.UpsertEdge(c.Request.Context(), edge); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, edge)
}

func (h *Handler) listRoutes(c *gin.Context) {
	origin, err := uuid.Parse(c.Query("origin_facility_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid origin_facility_id"})
		return
	}
	edges, err := h.distances.RoutesFrom(c.Request.Context(), origin)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": edges})
}

func (h *Handler) resolveRoute(c *gin.Context) {
	origin, err := uuid.Parse(c.Query("origin_facility_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid origin_facility_id"})
		return
	}
	destID, err := uuid.Parse(c.Query("destination_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination_id"})
		return
	}
	dest := model.Destination{
		Type: model.DestinationType(strings.ToUpper(c.Query("destination_type"))),
		ID:   destID,
	}
	relay := c.Query("relay") == "true"
	km, err := h.distances.ResolveDistance(c.Request.Context(), origin, dest, relay)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distance_km": km})
}

type openCycleRequest struct {
	Code       string `json:"code" binding:"required"`
	CycleStart string `json:"cycle_start" binding:"required"`
	CycleEnd   string `json:"cycle_end" binding:"required"`
	UFValue    string `json:"uf_value" binding:"required"`
	FuelPrice  string `json:"fuel_price" binding:"required"`
}

func (h *Handler) openCycle(c *gin.Context) {
	var req openCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.CycleStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle_start"})
		return
	}
	end, err := parseDate(req.CycleEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle_end"})
		return
	}
	ufValue, err := decimal.NewFromString(req.UFValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uf_value"})
		return
	}
	fuelPrice, err := decimal.NewFromString(req.FuelPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fuel_price"})
		return
	}

	cycle, err := h.cycles.OpenCycle(c.Request.Context(), service.OpenCycleInput{
		Code:       req.Code,
		CycleStart: start,
		CycleEnd:   end,
		UFValue:    ufValue,
		FuelPrice:  fuelPrice,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cycle)
}

func (h *Handler) currentCycle(c *gin.Context) {
	cycle, err := h.cycles.CurrentOpen(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *Handler) closeCycle(c *gin.Context) {
	cycleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle id"})
		return
	}
	result, err := h.cycles.CloseCycle(c.Request.Context(), cycleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) uncostedLoads(c *gin.Context) {
	cycleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle id"})
		return
	}
	loads, err := h.cycles.UncostedLoads(c.Request.Context(), cycleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loads": loads})
}

func (h *Handler) cycleSettlement(c *gin.Context) {
	cycleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cycle id"})
		return
	}
	settlement, err := h.cycles.Settlement(c.Request.Context(), cycleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrLoadNotCompleted),
		errors.Is(err, service.ErrDestinationAmbiguous),
		errors.Is(err, service.ErrNoDestination):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoTariffFound),
		errors.Is(err, service.ErrRouteNotFound),
		errors.Is(err, service.ErrNoOpenCycle):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOverlapViolation),
		errors.Is(err, service.ErrCycleClosed),
		errors.Is(err, service.ErrCycleAlreadyOpen):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
