package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/services"
	"github.com/propworks/compliance-service/internal/utils"
)

type PropertiesController struct {
	store    *repositories.Store
	validate *validator.Validate
}

func NewPropertiesController(store *repositories.Store) *PropertiesController {
	return &PropertiesController{
		store:    store,
		validate: validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertiesController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreatePropertyRequest
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

	now := time.Now().UTC()
	p := &models.Property{
		ID:                 uuid.New(),
		Name:               req.Name,
		Address:            req.Address,
		Region:             req.Region,
		ServiceType:        req.ServiceType,
		LegalEntity:        req.LegalEntity,
		RegisteredProvider: req.RegisteredProvider,
		HandoverDate:       req.HandoverDate,
	}
	for _, u := range req.Units {
		p.Units = append(p.Units, &models.Unit{
			ID:         uuid.New(),
			PropertyID: p.ID,
			UnitNumber: u.UnitNumber,
			Status:     u.Status,
			MoveInAt:   u.MoveInAt,
			MoveOutAt:  u.MoveOutAt,
			CreatedAt:  now,
		})
	}
	for _, ci := range req.ComplianceItems {
		p.ComplianceItems = append(p.ComplianceItems, &models.ComplianceItem{
			ID:         uuid.New(),
			PropertyID: p.ID,
			Type:       ci.Type,
			LastCheck:  ci.LastCheck,
			NextCheck:  ci.NextCheck,
			ReportURL:  ci.ReportURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	// Stamp the derived status once at creation; readers re-derive.
	for _, item := range p.ComplianceItems {
		item.Status = services.EvaluateStatusDefault(item, now)
	}

	if err := c.store.CreateProperty(ctx, p); err != nil {
		if errors.Is(err, utils.ErrLinkIntegrity) {
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeLinkIntegrity,
				"Duplicate live compliance item", nil, err)
			return
		}
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create property", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// ----------------------------------------------------------------
// GET /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertiesController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	props, err := c.store.ListProperties(ctx)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list properties", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid property id", nil, err)
		return
	}

	p, err := c.store.GetProperty(ctx, id)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch property", nil, err)
		return
	}
	if p == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Property not found", nil, nil)
		return
	}

	// Statuses are derived; refresh them on the way out.
	now := time.Now().UTC()
	for _, item := range p.ComplianceItems {
		item.Status = services.EvaluateStatusDefault(item, now)
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// DELETE /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid property id", nil, err)
		return
	}

	if err := c.store.DeleteProperty(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Property not found", nil, nil)
			return
		}
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to delete property", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
