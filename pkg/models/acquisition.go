package models

// AcquisitionRecord is one entry of a "company_acquisitions" ingestion batch.
// Both companies must already exist; records referencing unknown companies are
// skipped by the storage query.
type AcquisitionRecord struct {
	ParentCompanyID         int64 `json:"parent_company_id" validate:"min=1"`
	AcquiredCompanyID       int64 `json:"acquired_company_id" validate:"min=1"`
	MergedIntoParentCompany bool  `json:"merged_into_parent_company"`
}
