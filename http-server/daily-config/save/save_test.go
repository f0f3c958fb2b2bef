package save

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type MockInserter struct {
	mock.Mock
}

func (m *MockInserter) InsertBreak(ctx context.Context, b storage.Break) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveBreak_DefaultsToLunch(t *testing.T) {
	m := new(MockInserter)
	m.On("InsertBreak", mock.Anything, mock.MatchedBy(func(b storage.Break) bool {
		return b.BreakType == storage.BreakLunch && !b.IsDefault &&
			b.ProductionDate != nil && b.ProductionDate.String() == "2024-06-18" &&
			b.Start == clock.MustParse("13:00") && b.Label == "Late lunch"
	})).Return(int64(21), nil)

	body := `{"date":"2024-06-18","label":"  Late lunch ","start_time":"13:00","end_time":"13:45"}`
	rr := httptest.NewRecorder()
	SaveBreak(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/daily-config/breaks", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"success":true,"id":21}`, rr.Body.String())
	m.AssertExpectations(t)
}

func TestSaveBreak_UnknownType(t *testing.T) {
	m := new(MockInserter)

	body := `{"date":"2024-06-18","break_type":"nap","start_time":"13:00","end_time":"13:45"}`
	rr := httptest.NewRecorder()
	SaveBreak(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/daily-config/breaks", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "InsertBreak")
}

func TestBreakRequest_ToBreak_GroupScoped(t *testing.T) {
	gid := int64(3)
	b, err := BreakRequest{
		BreakType: storage.BreakTea, StartTime: clock.MustParse("15:00"), EndTime: clock.MustParse("15:10"), GroupID: &gid,
	}.ToBreak()

	require.NoError(t, err)
	require.NotNil(t, b.GroupID)
	assert.Equal(t, int64(3), *b.GroupID)

	zero := int64(0)
	b, err = BreakRequest{StartTime: clock.MustParse("15:00"), EndTime: clock.MustParse("15:10"), GroupID: &zero}.ToBreak()
	require.NoError(t, err)
	assert.Nil(t, b.GroupID)
}
