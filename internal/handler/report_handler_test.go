package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

type reportEngineMock struct {
	analysis    *models.BoatAnalysis
	analysisErr error
	expenses    *models.ExpenseReport
	expensesErr error
	payroll     *models.PayrollReport
	payrollErr  error

	lastFrom time.Time
	lastTo   time.Time
}

func (m *reportEngineMock) BoatAnalysis(ctx context.Context, boatID string, from, to time.Time) (*models.BoatAnalysis, error) {
	m.lastFrom, m.lastTo = from, to
	return m.analysis, m.analysisErr
}

func (m *reportEngineMock) ExpenseReport(ctx context.Context, from, to time.Time, boatID, employeeID string) (*models.ExpenseReport, error) {
	m.lastFrom, m.lastTo = from, to
	return m.expenses, m.expensesErr
}

func (m *reportEngineMock) Payroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error) {
	m.lastFrom, m.lastTo = from, to
	return m.payroll, m.payrollErr
}

func newGetContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestReportHandlerPayroll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns payroll report", func(t *testing.T) {
		engine := &reportEngineMock{payroll: &models.PayrollReport{
			Payments: []models.PayrollLine{{EmployeeName: "Ana", GrandTotal: decimal.NewFromInt(195)}},
		}}
		h := NewReportHandler(engine)

		c, w := newGetContext("/reports/payroll?from=2025-03-01&to=2025-03-31")
		h.Payroll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), engine.lastFrom)
		assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), engine.lastTo)
		envelope := decodeEnvelope(t, w)
		assert.NotNil(t, envelope.Data)
		assert.Nil(t, envelope.Error)
	})

	t.Run("rejects missing range", func(t *testing.T) {
		h := NewReportHandler(&reportEngineMock{})
		c, w := newGetContext("/reports/payroll")
		h.Payroll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		envelope := decodeEnvelope(t, w)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		h := NewReportHandler(&reportEngineMock{})
		c, w := newGetContext("/reports/payroll?from=2025-03-31&to=2025-03-01")
		h.Payroll(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandlerBoatAnalysis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unknown boat maps to 404", func(t *testing.T) {
		engine := &reportEngineMock{analysisErr: appErrors.Clone(appErrors.ErrNotFound, "boat not found")}
		h := NewReportHandler(engine)

		c, w := newGetContext("/reports/boats/missing/analysis?from=2025-03-01&to=2025-03-31")
		c.Params = gin.Params{{Key: "id", Value: "missing"}}
		h.BoatAnalysis(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		envelope := decodeEnvelope(t, w)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
	})

	t.Run("empty analysis is a 200", func(t *testing.T) {
		engine := &reportEngineMock{analysis: &models.BoatAnalysis{BoatName: "Northwind", Entries: []models.AnalysisEntry{}}}
		h := NewReportHandler(engine)

		c, w := newGetContext("/reports/boats/b1/analysis?from=2025-03-01&to=2025-03-31")
		c.Params = gin.Params{{Key: "id", Value: "b1"}}
		h.BoatAnalysis(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReportHandlerExpenses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := &reportEngineMock{expenses: &models.ExpenseReport{TotalSum: decimal.Zero, Results: []models.ExpenseLine{}}}
	h := NewReportHandler(engine)

	c, w := newGetContext("/reports/expenses?from=2025-03-01&to=2025-03-31&boatId=b1")
	h.Expenses(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Nil(t, envelope.Error)
}
