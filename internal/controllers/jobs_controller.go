package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/services"
	"github.com/propworks/compliance-service/internal/utils"
)

type JobsController struct {
	lifecycle *services.JobLifecycleService
	cascade   *services.CompletionCascadeService
	validate  *validator.Validate
}

func NewJobsController(
	lifecycle *services.JobLifecycleService,
	cascade *services.CompletionCascadeService,
) *JobsController {
	return &JobsController{
		lifecycle: lifecycle,
		cascade:   cascade,
		validate:  validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/v1/properties/{id}/jobs
// ----------------------------------------------------------------
func (c *JobsController) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	propertyID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid property id", nil, err)
		return
	}

	var req dtos.CreateJobRequest
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
	if req.LinkedComplianceID != nil && req.LinkedComplianceType != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Set linked_compliance_id or linked_compliance_type, not both", nil, nil)
		return
	}

	job, err := c.lifecycle.CreateJob(ctx, propertyID, req)
	if err != nil {
		respondJobError(w, err, "Failed to create job")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, job)
}

// ----------------------------------------------------------------
// POST /api/v1/jobs/{jobId}/assign
// ----------------------------------------------------------------
func (c *JobsController) AssignJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := uuid.Parse(mux.Vars(r)["jobId"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid job id", nil, err)
		return
	}

	var req dtos.AssignJobRequest
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

	job, err := c.lifecycle.AssignJob(ctx, jobID, req.Contractor, req.Actor)
	if err != nil {
		respondJobError(w, err, "Failed to assign job")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, job)
}

// ----------------------------------------------------------------
// POST /api/v1/jobs/{jobId}/transition
// ----------------------------------------------------------------
func (c *JobsController) TransitionJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := uuid.Parse(mux.Vars(r)["jobId"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid job id", nil, err)
		return
	}

	var req dtos.TransitionJobRequest
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

	job, err := c.lifecycle.Transition(ctx, jobID, req.Target, req.Actor)
	if err != nil {
		respondJobError(w, err, "Failed to transition job")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, job)
}

// ----------------------------------------------------------------
// POST /api/v1/jobs/{jobId}/complete
// ----------------------------------------------------------------
func (c *JobsController) CompleteJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := uuid.Parse(mux.Vars(r)["jobId"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid job id", nil, err)
		return
	}

	var req dtos.CompleteComplianceJobRequest
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

	job, err := c.cascade.CompleteComplianceJob(ctx, jobID, req)
	if err != nil {
		respondJobError(w, err, "Failed to complete job")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, job)
}

// ----------------------------------------------------------------
// POST /api/v1/jobs/{jobId}/final-cost
// ----------------------------------------------------------------
func (c *JobsController) RecordFinalCostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := uuid.Parse(mux.Vars(r)["jobId"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid job id", nil, err)
		return
	}

	var req struct {
		FinalCost float64 `json:"final_cost"`
		Actor     string  `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err)
		return
	}
	if req.Actor == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"actor is required", nil, nil)
		return
	}

	job, err := c.lifecycle.RecordFinalCost(ctx, jobID, req.FinalCost, req.Actor)
	if err != nil {
		respondJobError(w, err, "Failed to record final cost")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, job)
}

// respondJobError maps the service sentinels onto HTTP responses.
func respondJobError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Job not found", nil, nil)
	case errors.Is(err, utils.ErrInvalidStateTransition):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidTransition,
			"Transition not permitted from the job's current status", nil, err)
	case errors.Is(err, utils.ErrCascadeRequired):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeCascadeRequired,
			"Compliance-linked jobs complete via the completion endpoint", nil, err)
	case errors.Is(err, utils.ErrAssigneeRequired):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeAssigneeRequired,
			"A contractor must be set before assignment", nil, nil)
	case errors.Is(err, utils.ErrDuplicateJob):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateJob,
			"An open job already covers this compliance item", nil, err)
	case errors.Is(err, utils.ErrLinkIntegrity):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodeLinkIntegrity,
			"Linked compliance item is invalid for this property", nil, err)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			fallback, nil, err)
	}
}
