package company

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// CompanyReader is the read surface the handler needs from the graph layer
type CompanyReader interface {
	List(ctx context.Context) ([]models.Company, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, companyID int64) (*models.Company, error)
	GetEmployees(ctx context.Context, companyID int64) ([]models.EmploymentRow, error)
	GetAcquiredCompanies(ctx context.Context, companyID int64) ([]models.Company, error)
	GetAllDescendantCompanies(ctx context.Context, companyID int64) ([]models.Company, error)
	GetParentCompany(ctx context.Context, companyID int64) (*models.Company, error)
	GetAllAncestorCompanies(ctx context.Context, companyID int64) ([]models.Company, error)
}

// Handler handles company API endpoints
type Handler struct {
	companies CompanyReader
	logger    ectologger.Logger
}

// NewHandler creates a new company handler
func NewHandler(companies CompanyReader, logger ectologger.Logger) *Handler {
	return &Handler{
		companies: companies,
		logger:    logger,
	}
}

// Register registers the company routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/companies", h.ListCompanies)
	g.GET("/companies/:company_id", h.GetCompany)
}

// ListResponse is the response body for listing companies
type ListResponse struct {
	Companies []models.Company `json:"companies"`
	Total     int64            `json:"total"`
}

// CompanyResponse is the response body for a single company lookup. The
// traversal fields are only present when their query flag was set.
type CompanyResponse struct {
	models.Company
	Employees    []models.EmploymentRow `json:"employees,omitempty"`
	Parent       *models.Company        `json:"parent,omitempty"`
	Ancestors    []models.Company       `json:"ancestors,omitempty"`
	Acquisitions []models.Company       `json:"acquisitions,omitempty"`
	Descendants  []models.Company       `json:"descendants,omitempty"`
}

// ListCompanies lists all companies
// @Summary List companies
// @Description List all companies in the graph
// @Tags Companies
// @Produce json
// @Success 200 {object} ListResponse
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/companies [get]
func (h *Handler) ListCompanies(c echo.Context) error {
	ctx := c.Request().Context()
	metrics.GraphQueriesTotal.WithLabelValues("list_companies").Inc()

	companies, err := h.companies.List(ctx)
	if err != nil {
		return err
	}

	total, err := h.companies.Count(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &ListResponse{
		Companies: companies,
		Total:     total,
	})
}

// GetCompany looks up a single company, optionally composing hierarchy
// traversals selected by boolean query flags
// @Summary Get a company
// @Description Look up a company by ID. The employees, parent, ancestors, acquisitions and descendants query flags attach the matching traversal results.
// @Tags Companies
// @Produce json
// @Param company_id path int true "Company ID"
// @Param employees query bool false "Include current and past employees"
// @Param parent query bool false "Include the direct acquiring company"
// @Param ancestors query bool false "Include the transitive acquiring closure"
// @Param acquisitions query bool false "Include directly acquired companies"
// @Param descendants query bool false "Include the transitive acquired closure"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} httperror.HTTPError
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/companies/{company_id} [get]
func (h *Handler) GetCompany(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := strconv.ParseInt(c.Param("company_id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "company_id must be an integer")
	}

	metrics.GraphQueriesTotal.WithLabelValues("get_company").Inc()

	company, err := h.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return httperror.NewHTTPError(http.StatusNotFound, "company not found")
		}
		return err
	}

	response := &CompanyResponse{Company: *company}

	if boolFlag(c, "employees") {
		metrics.GraphQueriesTotal.WithLabelValues("get_employees").Inc()
		response.Employees, err = h.companies.GetEmployees(ctx, companyID)
		if err != nil {
			return err
		}
	}

	if boolFlag(c, "parent") {
		metrics.GraphQueriesTotal.WithLabelValues("get_parent_company").Inc()
		response.Parent, err = h.companies.GetParentCompany(ctx, companyID)
		if err != nil {
			return err
		}
	}

	if boolFlag(c, "ancestors") {
		metrics.GraphQueriesTotal.WithLabelValues("get_ancestor_companies").Inc()
		response.Ancestors, err = h.companies.GetAllAncestorCompanies(ctx, companyID)
		if err != nil {
			return err
		}
	}

	if boolFlag(c, "acquisitions") {
		metrics.GraphQueriesTotal.WithLabelValues("get_acquired_companies").Inc()
		response.Acquisitions, err = h.companies.GetAcquiredCompanies(ctx, companyID)
		if err != nil {
			return err
		}
	}

	if boolFlag(c, "descendants") {
		metrics.GraphQueriesTotal.WithLabelValues("get_descendant_companies").Inc()
		response.Descendants, err = h.companies.GetAllDescendantCompanies(ctx, companyID)
		if err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, response)
}

// boolFlag reads a boolean query parameter; absent or unparseable means false
func boolFlag(c echo.Context, name string) bool {
	value, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && value
}
