package dtos

import (
	"github.com/propworks/compliance-service/internal/models"
)

type FilterPropertiesRequest struct {
	Filter models.PropertyFilter `json:"filter"`
}

type GroupPropertiesRequest struct {
	Filter  models.PropertyFilter `json:"filter"`
	GroupBy models.GroupField     `json:"group_by" validate:"required,oneof=region service_type provider legal_entity status"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

type SearchResponse struct {
	// Interpreted is true when the query was translated into structured
	// predicates rather than substring-matched.
	Interpreted bool                  `json:"interpreted"`
	Filter      models.PropertyFilter `json:"filter"`
	Properties  []*models.Property    `json:"properties"`
}
