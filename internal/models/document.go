package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentCertificate DocumentType = "CERTIFICATE"
	DocumentReport      DocumentType = "REPORT"
	DocumentInvoice     DocumentType = "INVOICE"
	DocumentOther       DocumentType = "OTHER"
)

// Document is an append-only archive record on a property. The engine only
// stores the reference; uploads live behind the document repository boundary.
type Document struct {
	ID         uuid.UUID    `json:"id"`
	PropertyID uuid.UUID    `json:"property_id"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	Date       time.Time    `json:"date"`
	URL        string       `json:"url,omitempty"`

	// Set when the document was produced by completing a maintenance job.
	LinkedJobRef string `json:"linked_job_ref,omitempty"`
}
