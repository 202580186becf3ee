package people

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakePersonReader struct {
	persons []models.Person
	all     []models.EmploymentRow
	current []models.EmploymentRow
	past    []models.EmploymentRow

	lastCall string
	lastIDs  []int64
}

func (f *fakePersonReader) List(ctx context.Context) ([]models.Person, error) {
	f.lastCall = "list"
	return f.persons, nil
}

func (f *fakePersonReader) GetEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	f.lastCall = "all"
	f.lastIDs = companyIDs
	return f.all, nil
}

func (f *fakePersonReader) GetCurrentEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	f.lastCall = "current"
	f.lastIDs = companyIDs
	return f.current, nil
}

func (f *fakePersonReader) GetPastEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	f.lastCall = "past"
	f.lastIDs = companyIDs
	return f.past, nil
}

func listPeople(t *testing.T, reader *fakePersonReader, query url.Values) (*httptest.ResponseRecorder, error) {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	handler := NewHandler(reader, logger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/people?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	return rec, handler.ListPeople(e.NewContext(req, rec))
}

func TestListPeople(t *testing.T) {
	endDate := int64(1643648400)

	t.Run("no filter lists all persons", func(t *testing.T) {
		reader := &fakePersonReader{persons: []models.Person{{PersonID: 10}, {PersonID: 11}}}

		rec, err := listPeople(t, reader, url.Values{})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "list", reader.lastCall)

		var response PersonsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Len(t, response.Persons, 2)
	})

	t.Run("company filter branches on past and present", func(t *testing.T) {
		tests := []struct {
			name     string
			query    url.Values
			expected string
		}{
			{
				name:     "neither flag",
				query:    url.Values{"company_ids": {"[1,2]"}},
				expected: "all",
			},
			{
				name:     "present only",
				query:    url.Values{"company_ids": {"[1,2]"}, "present": {"true"}},
				expected: "current",
			},
			{
				name:     "past only",
				query:    url.Values{"company_ids": {"[1,2]"}, "past": {"true"}},
				expected: "past",
			},
			{
				name:     "both flags",
				query:    url.Values{"company_ids": {"[1,2]"}, "past": {"true"}, "present": {"true"}},
				expected: "all",
			},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				reader := &fakePersonReader{}

				rec, err := listPeople(t, reader, test.query)

				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, test.expected, reader.lastCall)
				assert.Equal(t, []int64{1, 2}, reader.lastIDs)
			})
		}
	})

	t.Run("past employment rows carry end dates", func(t *testing.T) {
		reader := &fakePersonReader{
			past: []models.EmploymentRow{
				{PersonID: 10, CompanyName: "Initech", EmploymentTitle: "Engineer", StartDate: 1622539800, EndDate: &endDate},
			},
		}

		rec, err := listPeople(t, reader, url.Values{"company_ids": {"[2]"}, "past": {"true"}})

		require.NoError(t, err)

		var response EmploymentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Len(t, response.Employments, 1)
		require.NotNil(t, response.Employments[0].EndDate)
		assert.Equal(t, endDate, *response.Employments[0].EndDate)
	})

	t.Run("malformed company_ids is 400", func(t *testing.T) {
		reader := &fakePersonReader{}

		_, err := listPeople(t, reader, url.Values{"company_ids": {"1,2"}})

		require.Error(t, err)
		require.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}
