package people

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// PersonReader is the read surface the handler needs from the graph layer
type PersonReader interface {
	List(ctx context.Context) ([]models.Person, error)
	GetEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error)
	GetCurrentEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error)
	GetPastEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error)
}

// Handler handles people API endpoints
type Handler struct {
	persons PersonReader
	logger  ectologger.Logger
}

// NewHandler creates a new people handler
func NewHandler(persons PersonReader, logger ectologger.Logger) *Handler {
	return &Handler{
		persons: persons,
		logger:  logger,
	}
}

// Register registers the people routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/people", h.ListPeople)
}

// PersonsResponse is the response body when no company filter is given
type PersonsResponse struct {
	Persons []models.Person `json:"persons"`
}

// EmploymentsResponse is the response body when filtering by companies
type EmploymentsResponse struct {
	Employments []models.EmploymentRow `json:"employments"`
}

// ListPeople lists persons, optionally filtered to employees of a set of
// companies. With company_ids set, past and present narrow the result to
// ended or ongoing employments; both flags (or neither) return all
// employments in those companies.
// @Summary List people
// @Description List all persons, or the employees of a set of companies. company_ids is a JSON integer array. The past and present flags select ended or ongoing employments.
// @Tags People
// @Produce json
// @Param company_ids query string false "JSON array of company IDs, e.g. [1,2]"
// @Param past query bool false "Only ended employments"
// @Param present query bool false "Only ongoing employments"
// @Success 200 {object} EmploymentsResponse
// @Failure 400 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/people [get]
func (h *Handler) ListPeople(c echo.Context) error {
	ctx := c.Request().Context()

	rawIDs := c.QueryParam("company_ids")
	if rawIDs == "" {
		metrics.GraphQueriesTotal.WithLabelValues("list_persons").Inc()
		persons, err := h.persons.List(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, &PersonsResponse{Persons: persons})
	}

	var companyIDs []int64
	if err := json.Unmarshal([]byte(rawIDs), &companyIDs); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "company_ids must be a JSON array of integers")
	}

	past := boolFlag(c, "past")
	present := boolFlag(c, "present")

	var rows []models.EmploymentRow
	var err error
	switch {
	case past && !present:
		metrics.GraphQueriesTotal.WithLabelValues("get_past_employees").Inc()
		rows, err = h.persons.GetPastEmployeesInCompanies(ctx, companyIDs)
	case present && !past:
		metrics.GraphQueriesTotal.WithLabelValues("get_current_employees").Inc()
		rows, err = h.persons.GetCurrentEmployeesInCompanies(ctx, companyIDs)
	default:
		metrics.GraphQueriesTotal.WithLabelValues("get_employees_in_companies").Inc()
		rows, err = h.persons.GetEmployeesInCompanies(ctx, companyIDs)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &EmploymentsResponse{Employments: rows})
}

// boolFlag reads a boolean query parameter; absent or unparseable means false
func boolFlag(c echo.Context, name string) bool {
	value, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && value
}
