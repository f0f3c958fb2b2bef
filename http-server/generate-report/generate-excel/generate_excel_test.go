package generate_excel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	genexcel "line-tracker/internal/service/generate-excel"
	"line-tracker/internal/storage"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateExcel(ctx context.Context, req genexcel.Request) ([]byte, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateReportExcel_Monthly(t *testing.T) {
	m := new(MockGenerator)
	m.On("GenerateExcel", mock.Anything, mock.MatchedBy(func(req genexcel.Request) bool {
		return req.Kind == genexcel.KindMonthly && req.Year == 2024 && req.Month == 6 && req.Filter.GroupID == 1
	})).Return([]byte("xlsx"), "report_monthly_2024-06.xlsx", nil)

	rr := httptest.NewRecorder()
	GenerateReportExcel(discard(), m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/reports/excel?kind=monthly&year=2024&month=6&group_id=1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=report_monthly_2024-06.xlsx", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rr.Body.String())
	m.AssertExpectations(t)
}

func TestGenerateReportExcel_WeeklyUsesWeekStart(t *testing.T) {
	m := new(MockGenerator)
	m.On("GenerateExcel", mock.Anything, mock.MatchedBy(func(req genexcel.Request) bool {
		return req.Kind == genexcel.KindWeekly && req.Filter.From.Equal(storage.NewDate(2024, 6, 19))
	})).Return([]byte("x"), "report_weekly_2024-06-17.xlsx", nil)

	rr := httptest.NewRecorder()
	GenerateReportExcel(discard(), m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/reports/excel?kind=weekly&week_start=2024-06-19", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	m.AssertExpectations(t)
}

func TestGenerateReportExcel_UnknownKind(t *testing.T) {
	m := new(MockGenerator)
	m.On("GenerateExcel", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("kind: %w", storage.ErrInvalidInput))

	rr := httptest.NewRecorder()
	GenerateReportExcel(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reports/excel?kind=pie", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
