package booking

import (
	"fmt"
	"net/http"
	"pms/infras/otel"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	customerDto "pms/internal/domains/customer/model/dto"
	"pms/shared"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/validator"
	"pms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	messageCreated   = "Booking created successfully!"
	messageUpdated   = "Booking updated successfully."
	messageCustomer  = "Customer updated successfully."
	messageCancelled = "Booking cancelled successfully."
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/dates", handler.UpdateBookingDates)
		routerGroup.Patch("/{id}/customer", handler.UpdateBookingCustomer)
		routerGroup.Delete("/{id}", handler.CancelBooking)
	})

	router.Get("/rooms/{id}/quote", handler.QuoteBooking)
	router.Post("/rooms/{id}/bookings", handler.CreateBooking)
}

// QuoteBooking prices a stay before it is confirmed.
// @Summary Quote a booking
// @Description Show the room, nights and total for a stay before confirming it.
// @Tags Booking
// @Produce json
// @Param id path string true "Room ID"
// @Param checkin query string true "Check-in date (YYYY-MM-DD)"
// @Param checkout query string true "Check-out date (YYYY-MM-DD)"
// @Param guests query integer true "Number of guests"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/rooms/{id}/quote [get]
func (handler *Handler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".QuoteBooking")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamID)
	query := r.URL.Query()

	req := dto.QuoteRequest{
		Checkin:  query.Get("checkin"),
		Checkout: query.Get("checkout"),
	}

	if guests, err := shared.ConvertStringToInt(query.Get("guests")); err == nil {
		req.Guests = guests
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithFailure(w, err, constant.RedirectHome)

		return
	}

	quote, err := handler.service.Quote(ctx, roomID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote booking")

		response.WithFailure(w, err, constant.RedirectHome)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}

// CreateBooking books a room for a new guest.
// @Summary Create a booking
// @Description Store the guest and the booking in one transaction. Fails with 409 when the room was taken meanwhile.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/rooms/{id}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	roomID := chi.URLParam(request, constant.RequestParamID)
	form := fmt.Sprintf(constant.RedirectRoomBooking, roomID)

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithFailure(writer, err, form)

		return
	}

	booking, err := handler.service.Create(ctx, roomID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithFailure(writer, err, form)

		return
	}

	scope.AddEvent("Booking " + booking.Code + " created")

	response.WithDataRedirect(writer, http.StatusCreated, booking, messageCreated, constant.RedirectHome)
}

// GetBookings lists bookings, newest first.
// @Summary Get all bookings
// @Description List bookings, optionally filtered by booking code or customer name.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param filter query string false "Booking code or customer name"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetAll(ctx, queryParams, r.URL.Query().Get(constant.RequestParamFilter))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithFailure(w, err, constant.RedirectHome)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingDates moves a booking to new dates.
// @Summary Edit booking dates
// @Description Change check-in and check-out. The booking never conflicts with itself.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateDatesRequest true "New dates"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/dates [patch]
func (handler *Handler) UpdateBookingDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingDates")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	form := fmt.Sprintf(constant.RedirectBookingEditDate, id)

	req := dto.UpdateDatesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithFailure(w, err, form)

		return
	}

	booking, err := handler.service.UpdateDates(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking dates")

		response.WithFailure(w, err, form)

		return
	}

	response.WithDataRedirect(w, http.StatusOK, booking, messageUpdated, constant.RedirectHome)
}

// UpdateBookingCustomer edits the guest of a booking.
// @Summary Edit booking customer
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body customerDto.UpdateCustomerRequest true "Customer details"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/customer [patch]
func (handler *Handler) UpdateBookingCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingCustomer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	form := fmt.Sprintf(constant.RedirectBookingEdit, id)

	req := customerDto.UpdateCustomerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithFailure(w, err, form)

		return
	}

	if err := handler.service.UpdateCustomer(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking customer")

		response.WithFailure(w, err, form)

		return
	}

	response.WithRedirect(w, http.StatusOK, messageCustomer, constant.RedirectHome)
}

// CancelBooking soft-deletes a booking.
// @Summary Cancel a booking
// @Description Mark the booking as deleted. The record is kept.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithFailure(w, err, constant.RedirectHome)

		return
	}

	scope.AddEvent("Booking " + id + " cancelled")

	response.WithRedirect(w, http.StatusOK, messageCancelled, constant.RedirectHome)
}
