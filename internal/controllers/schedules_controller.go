package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/services"
	"github.com/propworks/compliance-service/internal/utils"
)

type SchedulesController struct {
	store    *repositories.Store
	resolver *services.PpmResolverService
	validate *validator.Validate
}

func NewSchedulesController(
	store *repositories.Store,
	resolver *services.PpmResolverService,
) *SchedulesController {
	return &SchedulesController{
		store:    store,
		resolver: resolver,
		validate: validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/v1/schedules
// ----------------------------------------------------------------
func (c *SchedulesController) CreateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			err.Error(), nil, nil)
		return
	}

	scope := req.Scope
	if scope.Type == "" {
		scope.Type = models.ScopeAllProperties
	}

	sch := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            req.Name,
		ComplianceType:  req.ComplianceType,
		FrequencyMonths: req.FrequencyMonths,
		LeadTimeDays:    req.LeadTimeDays,
		Scope:           scope,
		SkipHolidays:    req.SkipHolidays,
	}
	if err := c.store.CreateSchedule(ctx, sch); err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create schedule", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, sch)
}

// ----------------------------------------------------------------
// GET /api/v1/schedules
// ----------------------------------------------------------------
func (c *SchedulesController) ListSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schedules, err := c.store.ListSchedules(ctx)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list schedules", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, schedules)
}

// ----------------------------------------------------------------
// POST /api/v1/schedules/resolve
// ----------------------------------------------------------------
func (c *SchedulesController) RunResolverHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result := c.resolver.RunResolutionPass(ctx, time.Now().UTC())
	utils.RespondWithJSON(w, http.StatusOK, result)
}
