package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) SaveDefaultShift(ctx context.Context, dayType storage.DayType, w storage.ShiftWindow) error {
	return m.Called(ctx, dayType, w).Error(0)
}

func (m *MockSettings) ReplaceDefaultSlots(ctx context.Context, dayType storage.DayType, slots []storage.TimeSlot) error {
	return m.Called(ctx, dayType, slots).Error(0)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateShiftSettings(t *testing.T) {
	m := new(MockSettings)
	m.On("SaveDefaultShift", mock.Anything, storage.DaySat,
		storage.ShiftWindow{Start: clock.MustParse("07:00"), End: clock.MustParse("15:30")}).Return(nil)

	rr := httptest.NewRecorder()
	UpdateShiftSettings(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/settings/shift",
		strings.NewReader(`{"day_type":"sat","start":"07:00","end":"15:30"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	m.AssertExpectations(t)
}

func TestUpdateShiftSettings_BadDayType(t *testing.T) {
	m := new(MockSettings)

	rr := httptest.NewRecorder()
	UpdateShiftSettings(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/settings/shift",
		strings.NewReader(`{"day_type":"all","start":"07:00","end":"15:30"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateDefaultSlots(t *testing.T) {
	m := new(MockSettings)
	m.On("ReplaceDefaultSlots", mock.Anything, storage.DaySunFri, mock.Anything).Return(errors.New("deadlock"))

	body := `{"day_type":"sun_fri","slots":[{"slot_number":1,"start_time":"08:30","end_time":"10:30","label":"S1"}]}`
	rr := httptest.NewRecorder()
	UpdateDefaultSlots(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/default-slots", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUpdateDefaultSlots_Inverted(t *testing.T) {
	m := new(MockSettings)

	body := `{"day_type":"sun_fri","slots":[{"slot_number":1,"start_time":"10:30","end_time":"08:30"}]}`
	rr := httptest.NewRecorder()
	UpdateDefaultSlots(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/default-slots", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "ReplaceDefaultSlots")
}
