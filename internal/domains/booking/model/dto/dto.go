package dto

import (
	"pms/internal/domains/booking/model"
	customerDto "pms/internal/domains/customer/model/dto"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/reservation"
	"pms/shared/stay"
	"pms/shared/timezone"

	"github.com/google/uuid"
)

// Booking event names published on the booking topic.
const (
	EventCreated     = "booking.created"
	EventCancelled   = "booking.cancelled"
	EventRescheduled = "booking.rescheduled"
)

// CreateBookingRequest is the confirmation form: the guest's details plus the stay.
// Dates are checked by the booking service so each failure keeps its own message.
type CreateBookingRequest struct {
	Customer customerDto.CustomerRequest `json:"customer"`
	Checkin  string                      `json:"checkin"`
	Checkout string                      `json:"checkout"`
	Guests   int                         `json:"guests"   validate:"required,min=1,max=4"`
}

func (c *CreateBookingRequest) ToModel(roomID, customerID string, r stay.Range, total float64) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:         uuid.NewString(),
		State:      model.StateNew,
		Checkin:    r.Checkin,
		Checkout:   r.Checkout,
		RoomID:     &roomID,
		Guests:     c.Guests,
		CustomerID: &customerID,
		Total:      total,
		Code:       reservation.Generate(),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

type QuoteRequest struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	Guests   int    `json:"guests"   validate:"required,min=1,max=4"`
}

type QuoteResponse struct {
	RoomID       string  `json:"room_id"`
	RoomName     string  `json:"room_name"`
	RoomTypeName string  `json:"room_type_name"`
	Checkin      string  `json:"checkin"`
	Checkout     string  `json:"checkout"`
	Guests       int     `json:"guests"`
	Nights       int     `json:"nights"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"`
	Available    bool    `json:"available"`
}

type UpdateDatesRequest struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
}

type BookingResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	State        string  `json:"state"`
	Checkin      string  `json:"checkin"`
	Checkout     string  `json:"checkout"`
	Nights       int     `json:"nights"`
	Guests       int     `json:"guests"`
	Total        float64 `json:"total"`
	RoomID       *string `json:"room_id"`
	RoomName     *string `json:"room_name"`
	CustomerID   *string `json:"customer_id"`
	CustomerName *string `json:"customer_name"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Code = model.Code
	r.State = model.State
	r.Checkin = stay.FormatDay(model.Checkin)
	r.Checkout = stay.FormatDay(model.Checkout)
	r.Nights = model.Stay().Nights()
	r.Guests = model.Guests
	r.Total = model.Total
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.CustomerID = model.CustomerID
	r.CustomerName = model.CustomerName
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = FromModels(models)
}

// Event is the payload of every booking event.
type Event struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	State    string  `json:"state"`
	RoomID   string  `json:"room_id"`
	Checkin  string  `json:"checkin"`
	Checkout string  `json:"checkout"`
	Total    float64 `json:"total"`
}

func (e *Event) FromModel(model model.Booking) {
	e.ID = model.ID
	e.Code = model.Code
	e.State = model.State
	e.Checkin = stay.FormatDay(model.Checkin)
	e.Checkout = stay.FormatDay(model.Checkout)
	e.Total = model.Total

	if model.RoomID != nil {
		e.RoomID = *model.RoomID
	}
}
