package remove

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"line-tracker/internal/storage"
)

type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) DeleteShiftOverride(ctx context.Context, date storage.Date) error {
	return m.Called(ctx, date).Error(0)
}

func (m *MockDeleter) DeleteBreak(ctx context.Context, id int64, isDefault bool) error {
	return m.Called(ctx, id, isDefault).Error(0)
}

func router(m *MockDeleter) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Delete("/api/daily-config/shift", DeleteShift(log, m))
	r.Delete("/api/daily-config/breaks/{id}", DeleteBreak(log, m))
	return r
}

func TestDeleteShift(t *testing.T) {
	m := new(MockDeleter)
	m.On("DeleteShiftOverride", mock.Anything, storage.NewDate(2024, 6, 18)).Return(nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/daily-config/shift?date=2024-06-18", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	m.AssertExpectations(t)
}

func TestDeleteBreak_OnlyDateBreaks(t *testing.T) {
	m := new(MockDeleter)
	m.On("DeleteBreak", mock.Anything, int64(1), false).Return(fmt.Errorf("delete: %w", storage.ErrNotFound))

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/daily-config/breaks/1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	m.AssertExpectations(t)
}
