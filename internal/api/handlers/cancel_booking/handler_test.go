package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	return m.Called(ctx, bookingID, req).Error(0)
}

func patch(h *Handler, userID, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(h.Handle)))

	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *models.CancelBookingRequest
	}{
		{name: "with reason", body: `{"cancellationReason":"заболел"}`, want: &models.CancelBookingRequest{UserID: 5, CancellationReason: "заболел"}},
		{name: "empty body", body: "", want: &models.CancelBookingRequest{UserID: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Cancel", mock.Anything, int64(11), tt.want).Return(nil).Once()

			rec := patch(NewHandler(svc, logger.Nop()), "5", "/api/v1/bookings/11/cancel", tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"id":11,"status":"cancelled"}`, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		target string
		body   string
		err    error
		status int
	}{
		{name: "no user", target: "/api/v1/bookings/11/cancel", status: http.StatusUnauthorized},
		{name: "bad id", userID: "5", target: "/api/v1/bookings/0/cancel", status: http.StatusBadRequest},
		{name: "bad body", userID: "5", target: "/api/v1/bookings/11/cancel", body: `{"userId":5}`, status: http.StatusBadRequest},
		{name: "invalid", userID: "5", target: "/api/v1/bookings/11/cancel", err: bookings.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "not found", userID: "5", target: "/api/v1/bookings/11/cancel", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "forbidden", userID: "9", target: "/api/v1/bookings/11/cancel", err: bookings.ErrAccessDenied, status: http.StatusForbidden},
		{name: "already cancelled", userID: "5", target: "/api/v1/bookings/11/cancel", err: bookings.ErrCannotCancel, status: http.StatusConflict},
		{name: "internal", userID: "5", target: "/api/v1/bookings/11/cancel", err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			if tt.err != nil {
				svc.On("Cancel", mock.Anything, int64(11), mock.Anything).Return(tt.err).Once()
			}

			rec := patch(NewHandler(svc, logger.Nop()), tt.userID, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
