package booking_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/infras/otel/mocks"
	bookingMocks "pms/internal/domains/booking/mocks"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	"pms/internal/handlers/booking"
	"pms/shared/failure"
	"pms/shared/stay"
)

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Redirect string          `json:"redirect"`
}

func setup(t *testing.T) (http.Handler, *bookingMocks.MockBookingService) {
	ctrl := gomock.NewController(t)
	svc := bookingMocks.NewMockBookingService(ctrl)

	handler := booking.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec.Code, env
}

func TestHandler_CreateBooking(t *testing.T) {
	body := `{"customer":{"name":"Alice","email":"alice@example.com","phone":"+14155550100"},"checkin":"2030-01-01","checkout":"2030-01-03","guests":2}`

	t.Run("created", func(t *testing.T) {
		h, svc := setup(t)

		svc.EXPECT().
			Create(gomock.Any(), "r1", gomock.Any()).
			Return(dto.BookingResponse{ID: "b1", Code: "ABCDEF12", Total: 100}, nil)

		code, env := do(t, h, http.MethodPost, "/rooms/r1/bookings", body)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Booking created successfully!", env.Message)
		assert.Equal(t, "/", env.Redirect)
		assert.Contains(t, string(env.Data), `"code":"ABCDEF12"`)
	})

	t.Run("room taken", func(t *testing.T) {
		h, svc := setup(t)

		svc.EXPECT().Create(gomock.Any(), "r1", gomock.Any()).Return(dto.BookingResponse{}, service.ErrRoomTaken)

		code, env := do(t, h, http.MethodPost, "/rooms/r1/bookings", body)

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "Sorry! The room was just booked by another guest.", env.Error)
		assert.Equal(t, "/rooms/r1/book", env.Redirect)
	})

	t.Run("invalid phone never reaches the service", func(t *testing.T) {
		h, _ := setup(t)

		code, env := do(t, h, http.MethodPost, "/rooms/r1/bookings",
			`{"customer":{"name":"Alice","email":"alice@example.com","phone":"12"},"checkin":"2030-01-01","checkout":"2030-01-03","guests":2}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, env.Error, "Phone number")
	})

	t.Run("too many guests", func(t *testing.T) {
		h, _ := setup(t)

		code, _ := do(t, h, http.MethodPost, "/rooms/r1/bookings",
			`{"customer":{"name":"Alice","email":"alice@example.com","phone":"+14155550100"},"checkin":"2030-01-01","checkout":"2030-01-03","guests":5}`)

		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestHandler_UpdateBookingDates(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		h, svc := setup(t)

		svc.EXPECT().
			UpdateDates(gomock.Any(), "b1", dto.UpdateDatesRequest{Checkin: "2030-01-02", Checkout: "2030-01-04"}).
			Return(dto.BookingResponse{ID: "b1"}, nil)

		code, env := do(t, h, http.MethodPatch, "/bookings/b1/dates", `{"checkin":"2030-01-02","checkout":"2030-01-04"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Booking updated successfully.", env.Message)
		assert.Equal(t, "/", env.Redirect)
	})

	failures := []struct {
		name     string
		err      error
		wantCode int
		wantPath string
	}{
		{name: "missing dates", err: stay.ErrDatesRequired, wantCode: http.StatusBadRequest, wantPath: "/bookings/b1/edit-dates"},
		{name: "bad format", err: stay.ErrInvalidDate, wantCode: http.StatusBadRequest, wantPath: "/bookings/b1/edit-dates"},
		{name: "conflict", err: failure.Conflict("No availability for the selected dates (booking X from a to b)."), wantCode: http.StatusConflict, wantPath: "/bookings/b1/edit-dates"},
		{name: "unknown booking goes home", err: service.ErrBookingNotFound, wantCode: http.StatusNotFound, wantPath: "/"},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := setup(t)

			svc.EXPECT().UpdateDates(gomock.Any(), "b1", gomock.Any()).Return(dto.BookingResponse{}, tt.err)

			code, env := do(t, h, http.MethodPatch, "/bookings/b1/dates", `{"checkin":"","checkout":""}`)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.err.Error(), env.Error)
			assert.Equal(t, tt.wantPath, env.Redirect)
		})
	}
}

func TestHandler_MalformedBookingIDGoesHome(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().
		UpdateDates(gomock.Any(), "abc", gomock.Any()).
		Return(dto.BookingResponse{}, service.ErrBookingNotFound)
	svc.EXPECT().Get(gomock.Any(), "abc").Return(dto.BookingResponse{}, service.ErrBookingNotFound)

	code, env := do(t, h, http.MethodPatch, "/bookings/abc/dates", `{"checkin":"2030-01-02","checkout":"2030-01-04"}`)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "booking not found", env.Error)
	assert.Equal(t, "/", env.Redirect)

	code, env = do(t, h, http.MethodGet, "/bookings/abc", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "/", env.Redirect)
}

func TestHandler_CancelBooking(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().Cancel(gomock.Any(), "b1").Return(nil)

	code, env := do(t, h, http.MethodDelete, "/bookings/b1", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/", env.Redirect)
}

func TestHandler_GetBookings(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), "alice").
		Return(dto.GetBookingsResponse{TotalData: 1, TotalPage: 1, Bookings: []dto.BookingResponse{{ID: "b1"}}}, nil)

	code, env := do(t, h, http.MethodGet, "/bookings?filter=alice", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total_data":1`)
}

func TestHandler_QuoteBooking(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().
		Quote(gomock.Any(), "r1", dto.QuoteRequest{Checkin: "2030-01-01", Checkout: "2030-01-03", Guests: 2}).
		Return(dto.QuoteResponse{RoomID: "r1", Nights: 2, Total: 100, Available: true}, nil)

	code, env := do(t, h, http.MethodGet, "/rooms/r1/quote?checkin=2030-01-01&checkout=2030-01-03&guests=2", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":100`)
}
