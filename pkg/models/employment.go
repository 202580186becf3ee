package models

// EmploymentRecord is one entry of a "person_employments" ingestion batch.
// Dates arrive as human-readable strings and are converted to the canonical
// timestamp form before storage.
type EmploymentRecord struct {
	PersonID        int64   `json:"person_id" validate:"min=1"`
	CompanyID       int64   `json:"company_id" validate:"min=1"`
	EmploymentTitle string  `json:"employment_title" validate:"required"`
	StartDate       string  `json:"start_date" validate:"required"`
	EndDate         *string `json:"end_date,omitempty"`
}

// EmploymentEditRecord is the payload of a "person_employments_edit" message.
// (PersonID, CompanyID, StartDate) form the match key; the optional fields are
// applied as a partial update.
type EmploymentEditRecord struct {
	PersonID        int64   `json:"person_id" validate:"min=1"`
	CompanyID       int64   `json:"company_id" validate:"min=1"`
	StartDate       string  `json:"start_date" validate:"required"`
	EmploymentTitle *string `json:"employment_title,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
}

// EmploymentRow is one employment fact returned by the traversal queries.
// The result unit is an employment edge, not a distinct person: a person with
// two employments at the same company yields two rows.
type EmploymentRow struct {
	PersonID        int64  `json:"person_id"`
	CompanyName     string `json:"company_name,omitempty"`
	EmploymentTitle string `json:"employment_title"`
	StartDate       int64  `json:"start_date,omitempty"`
	EndDate         *int64 `json:"end_date,omitempty"`
}
