// Package models defines the corporate graph entities and the record shapes
// carried by ingestion batches.
package models

// Company is a company node in the graph.
type Company struct {
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	Headcount   int64  `json:"headcount"`
}

// CompanyRecord is one entry of a "companies" ingestion batch. Identifiers
// are positive; min=1 keeps zero distinguishable from a present id.
type CompanyRecord struct {
	CompanyID   int64  `json:"company_id" validate:"min=1"`
	CompanyName string `json:"company_name" validate:"required"`
	Headcount   int64  `json:"headcount"`
}
