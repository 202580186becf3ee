package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestCompanyBatch(t *testing.T) {
	records := []models.CompanyRecord{
		{CompanyID: 1, CompanyName: "Initech", Headcount: 120},
		{CompanyID: 2, CompanyName: "Globex", Headcount: 4000},
	}

	batch := companyBatch(records)

	require.Len(t, batch, 2)
	assert.Equal(t, map[string]any{
		"company_id":   int64(1),
		"company_name": "Initech",
		"headcount":    int64(120),
	}, batch[0])
	assert.Equal(t, map[string]any{
		"company_id":   int64(2),
		"company_name": "Globex",
		"headcount":    int64(4000),
	}, batch[1])
}

func TestCompanyFromProps(t *testing.T) {
	t.Run("full properties", func(t *testing.T) {
		company := companyFromProps(map[string]any{
			"company_id":   int64(7),
			"company_name": "Hooli",
			"headcount":    int64(9000),
		})

		assert.Equal(t, models.Company{CompanyID: 7, CompanyName: "Hooli", Headcount: 9000}, company)
	})

	t.Run("missing properties default to zero values", func(t *testing.T) {
		company := companyFromProps(map[string]any{"company_id": int64(7)})

		assert.Equal(t, int64(7), company.CompanyID)
		assert.Empty(t, company.CompanyName)
		assert.Zero(t, company.Headcount)
	})
}

func TestEmploymentBatch(t *testing.T) {
	endDate := "2022-01-31 17:00:00"

	t.Run("converts boundary dates to timestamps", func(t *testing.T) {
		records := []models.EmploymentRecord{
			{PersonID: 10, CompanyID: 1, EmploymentTitle: "Engineer", StartDate: "2021-06-01 09:30:00", EndDate: &endDate},
			{PersonID: 11, CompanyID: 1, EmploymentTitle: "Designer", StartDate: "2021-06-01 09:30:00"},
		}

		batch, err := employmentBatch(records)

		require.NoError(t, err)
		require.Len(t, batch, 2)
		assert.Equal(t, int64(1622539800), batch[0]["start_date"])
		assert.Equal(t, int64(1643648400), batch[0]["end_date"])
		assert.Equal(t, "Engineer", batch[0]["employment_title"])
		assert.Nil(t, batch[1]["end_date"])
	})

	t.Run("reports the index of a bad start date", func(t *testing.T) {
		records := []models.EmploymentRecord{
			{PersonID: 10, CompanyID: 1, EmploymentTitle: "Engineer", StartDate: "2021-06-01 09:30:00"},
			{PersonID: 11, CompanyID: 1, EmploymentTitle: "Designer", StartDate: "not-a-date"},
		}

		_, err := employmentBatch(records)

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 1, validationErr.Index)
	})

	t.Run("reports the index of a bad end date", func(t *testing.T) {
		badEnd := "2022-01-31"
		records := []models.EmploymentRecord{
			{PersonID: 10, CompanyID: 1, EmploymentTitle: "Engineer", StartDate: "2021-06-01 09:30:00", EndDate: &badEnd},
		}

		_, err := employmentBatch(records)

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, validationErr.Index)
	})
}

func TestAcquisitionBatch(t *testing.T) {
	records := []models.AcquisitionRecord{
		{ParentCompanyID: 1, AcquiredCompanyID: 2, MergedIntoParentCompany: true},
		{ParentCompanyID: 1, AcquiredCompanyID: 3},
	}

	batch := acquisitionBatch(records)

	require.Len(t, batch, 2)
	assert.Equal(t, true, batch[0]["merged_into_parent_company"])
	assert.Equal(t, false, batch[1]["merged_into_parent_company"])
	assert.Equal(t, int64(3), batch[1]["acquired_company_id"])
}

func TestEmploymentRowFromRecord(t *testing.T) {
	t.Run("current employment has nil end date", func(t *testing.T) {
		record := &neo4j.Record{
			Keys:   []string{"person_id", "company_name", "employment_title", "start_date", "end_date"},
			Values: []any{int64(10), "Initech", "Engineer", int64(1622539800), nil},
		}

		row := employmentRowFromRecord(record)

		assert.Equal(t, int64(10), row.PersonID)
		assert.Equal(t, "Initech", row.CompanyName)
		assert.Equal(t, "Engineer", row.EmploymentTitle)
		assert.Equal(t, int64(1622539800), row.StartDate)
		assert.Nil(t, row.EndDate)
	})

	t.Run("past employment carries its end date", func(t *testing.T) {
		record := &neo4j.Record{
			Keys:   []string{"person_id", "company_name", "employment_title", "start_date", "end_date"},
			Values: []any{int64(10), "Initech", "Engineer", int64(1622539800), int64(1643648400)},
		}

		row := employmentRowFromRecord(record)

		require.NotNil(t, row.EndDate)
		assert.Equal(t, int64(1643648400), *row.EndDate)
	})
}
