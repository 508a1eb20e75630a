package get_offering_schedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetWeekView(ctx context.Context, offeringID int64) (*models.WeekView, error) {
	args := m.Called(ctx, offeringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeekView), args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/offerings/{offeringId}/schedule", h.Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := new(mockService)
	svc.On("GetWeekView", mock.Anything, int64(4)).Return(&models.WeekView{
		OfferingID: 4,
		Mode:       domain.ModeComputed,
		Days: []models.DayView{
			{Day: domain.Monday, Enabled: true, Start: "09:00", End: "17:00", Layer: "default", Breaks: []models.BreakView{}},
		},
	}, nil).Once()

	rec := serve(NewHandler(svc, logger.Nop()), "/api/v1/offerings/4/schedule")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"offeringId":4,"mode":"computed","days":[
		{"day":"monday","enabled":true,"start":"09:00","end":"17:00","layer":"default","breaks":[]}
	]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		rec := serve(NewHandler(new(mockService), logger.Nop()), "/api/v1/offerings/x/schedule")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetWeekView", mock.Anything, int64(4)).Return(nil, schedule.ErrOfferingNotFound).Once()
		rec := serve(NewHandler(svc, logger.Nop()), "/api/v1/offerings/4/schedule")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("internal", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetWeekView", mock.Anything, int64(4)).Return(nil, errors.New("boom")).Once()
		rec := serve(NewHandler(svc, logger.Nop()), "/api/v1/offerings/4/schedule")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
