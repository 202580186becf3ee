package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/models"
)

func errorResponse(t *testing.T, err error) (*httptest.ResponseRecorder, *ErrorResponse) {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/1", nil)
	rec := httptest.NewRecorder()
	Error(logger)(err, e.NewContext(req, rec))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, &body
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "not found maps to 404",
			err:    graph.ErrNotFound,
			status: http.StatusNotFound,
		},
		{
			name:   "validation failure maps to 400",
			err:    &models.ValidationError{Index: 2, Reason: "field 'CompanyID' failed rule 'min'"},
			status: http.StatusBadRequest,
		},
		{
			name:   "uniqueness conflict maps to 409",
			err:    &graph.UniquenessConflictError{Cause: errors.New("constraint violated")},
			status: http.StatusConflict,
		},
		{
			name:   "echo errors keep their code",
			err:    echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"),
			status: http.StatusMethodNotAllowed,
		},
		{
			name:   "anything else is a 500",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := errorResponse(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	t.Run("wrapped not found still maps to 404", func(t *testing.T) {
		rec, _ := errorResponse(t, fmt.Errorf("lookup failed: %w", graph.ErrNotFound))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
