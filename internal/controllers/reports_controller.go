package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/services"
	"github.com/propworks/compliance-service/internal/utils"
)

type ReportsController struct {
	store       *repositories.Store
	reporting   *services.ReportingService
	interpreter *services.QueryInterpreterService
	validate    *validator.Validate
}

func NewReportsController(
	store *repositories.Store,
	reporting *services.ReportingService,
	interpreter *services.QueryInterpreterService,
) *ReportsController {
	return &ReportsController{
		store:       store,
		reporting:   reporting,
		interpreter: interpreter,
		validate:    validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/v1/reports/properties
// ----------------------------------------------------------------
func (c *ReportsController) FilterPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.FilterPropertiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err)
		return
	}

	snap := c.store.Snapshot()
	props := c.reporting.FilterProperties(snap, req.Filter, time.Now().UTC())
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// POST /api/v1/reports/properties/grouped
// ----------------------------------------------------------------
func (c *ReportsController) GroupPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.GroupPropertiesRequest
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

	snap := c.store.Snapshot()
	groups := c.reporting.GroupProperties(snap, req.Filter, req.GroupBy, time.Now().UTC())
	utils.RespondWithJSON(w, http.StatusOK, groups)
}

// ----------------------------------------------------------------
// GET /api/v1/reports/compliance-summary
// ----------------------------------------------------------------
func (c *ReportsController) ComplianceSummaryHandler(w http.ResponseWriter, r *http.Request) {
	snap := c.store.Snapshot()
	summary := c.reporting.ComplianceSummary(snap, time.Now().UTC())
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// ----------------------------------------------------------------
// GET /api/v1/reports/window-stats?window=MONTH
// ----------------------------------------------------------------
func (c *ReportsController) WindowStatsHandler(w http.ResponseWriter, r *http.Request) {
	kind := services.WindowKind(strings.ToUpper(r.URL.Query().Get("window")))
	switch kind {
	case services.WindowWeek, services.WindowMonth, services.WindowQuarter, services.WindowYear:
	case "":
		kind = services.WindowMonth
	default:
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"window must be one of WEEK, MONTH, QUARTER, YEAR", nil, nil)
		return
	}

	snap := c.store.Snapshot()
	stats := c.reporting.WindowStats(snap, time.Now().UTC(), kind)
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// ----------------------------------------------------------------
// POST /api/v1/reports/search
// ----------------------------------------------------------------
func (c *ReportsController) SearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.SearchRequest
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

	resp := &dtos.SearchResponse{}
	if c.interpreter.Enabled() {
		filter, err := c.interpreter.Interpret(ctx, req.Query)
		if err != nil {
			utils.Logger.WithError(err).Warn("Query interpretation failed, falling back to substring search")
		} else if filter != nil {
			resp.Interpreted = true
			resp.Filter = *filter
		}
	}
	if !resp.Interpreted {
		resp.Filter = models.PropertyFilter{FreeText: req.Query}
	}

	snap := c.store.Snapshot()
	resp.Properties = c.reporting.FilterProperties(snap, resp.Filter, time.Now().UTC())
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
