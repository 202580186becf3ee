package company

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeCompanyReader struct {
	companies   []models.Company
	company     *models.Company
	employees   []models.EmploymentRow
	parent      *models.Company
	ancestors   []models.Company
	acquired    []models.Company
	descendants []models.Company
	getErr      error
}

func (f *fakeCompanyReader) List(ctx context.Context) ([]models.Company, error) {
	return f.companies, nil
}

func (f *fakeCompanyReader) Count(ctx context.Context) (int64, error) {
	return int64(len(f.companies)), nil
}

func (f *fakeCompanyReader) GetByID(ctx context.Context, companyID int64) (*models.Company, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.company, nil
}

func (f *fakeCompanyReader) GetEmployees(ctx context.Context, companyID int64) ([]models.EmploymentRow, error) {
	return f.employees, nil
}

func (f *fakeCompanyReader) GetAcquiredCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	return f.acquired, nil
}

func (f *fakeCompanyReader) GetAllDescendantCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	return f.descendants, nil
}

func (f *fakeCompanyReader) GetParentCompany(ctx context.Context, companyID int64) (*models.Company, error) {
	return f.parent, nil
}

func (f *fakeCompanyReader) GetAllAncestorCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	return f.ancestors, nil
}

func newTestHandler(reader *fakeCompanyReader) *Handler {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewHandler(reader, logger)
}

func request(t *testing.T, handler *Handler, target string, companyID string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if companyID != "" {
		c.SetParamNames("company_id")
		c.SetParamValues(companyID)
		return rec, handler.GetCompany(c)
	}
	return rec, handler.ListCompanies(c)
}

func TestListCompanies(t *testing.T) {
	reader := &fakeCompanyReader{
		companies: []models.Company{
			{CompanyID: 1, CompanyName: "Initech", Headcount: 120},
			{CompanyID: 2, CompanyName: "Globex", Headcount: 4000},
		},
	}
	handler := newTestHandler(reader)

	rec, err := request(t, handler, "/api/v1/companies", "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Companies, 2)
	assert.Equal(t, int64(2), response.Total)
}

func TestGetCompany(t *testing.T) {
	t.Run("base lookup", func(t *testing.T) {
		reader := &fakeCompanyReader{
			company: &models.Company{CompanyID: 1, CompanyName: "Initech", Headcount: 120},
		}
		handler := newTestHandler(reader)

		rec, err := request(t, handler, "/api/v1/companies/1", "1")

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response CompanyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Initech", response.CompanyName)
		assert.Nil(t, response.Parent)
		assert.Empty(t, response.Descendants)
	})

	t.Run("traversal flags compose", func(t *testing.T) {
		reader := &fakeCompanyReader{
			company:     &models.Company{CompanyID: 1, CompanyName: "Initech"},
			parent:      &models.Company{CompanyID: 9, CompanyName: "Umbrella"},
			descendants: []models.Company{{CompanyID: 2, CompanyName: "Globex"}},
		}
		handler := newTestHandler(reader)

		rec, err := request(t, handler, "/api/v1/companies/1?parent=true&descendants=true", "1")

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response CompanyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.NotNil(t, response.Parent)
		assert.Equal(t, "Umbrella", response.Parent.CompanyName)
		require.Len(t, response.Descendants, 1)
		assert.Equal(t, "Globex", response.Descendants[0].CompanyName)
		assert.Empty(t, response.Ancestors)
		assert.Empty(t, response.Acquisitions)
	})

	t.Run("missing company is 404", func(t *testing.T) {
		reader := &fakeCompanyReader{getErr: graph.ErrNotFound}
		handler := newTestHandler(reader)

		_, err := request(t, handler, "/api/v1/companies/42", "42")

		require.Error(t, err)
		require.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})

	t.Run("non-integer id is 400", func(t *testing.T) {
		handler := newTestHandler(&fakeCompanyReader{})

		_, err := request(t, handler, "/api/v1/companies/abc", "abc")

		require.Error(t, err)
		require.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}
