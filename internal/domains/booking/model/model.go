package model

import (
	"pms/shared/model"
	"pms/shared/stay"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldState      = "state"
	FieldCheckin    = "checkin"
	FieldCheckout   = "checkout"
	FieldRoomID     = "room_id"
	FieldGuests     = "guests"
	FieldCustomerID = "customer_id"
	FieldTotal      = "total"
	FieldCode       = "code"
)

// Booking states. A cancelled booking keeps its row with StateDeleted.
const (
	StateNew     = "NEW"
	StateDeleted = "DEL"
)

type Booking struct {
	ID           string    `db:"id"`
	State        string    `db:"state"`
	Checkin      time.Time `db:"checkin"`
	Checkout     time.Time `db:"checkout"`
	RoomID       *string   `db:"room_id"`
	Guests       int       `db:"guests"`
	CustomerID   *string   `db:"customer_id"`
	Total        float64   `db:"total"`
	Code         string    `db:"code"`
	CustomerName *string   `db:"customer_name" table:"customers" column:"name"`
	RoomName     *string   `db:"room_name"     table:"rooms"     column:"name"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN customers ON customers.id = bookings.customer_id LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// Stay returns the booked nights as a half-open range.
func (b Booking) Stay() stay.Range {
	return stay.Range{Checkin: stay.Day(b.Checkin), Checkout: stay.Day(b.Checkout)}
}

func (b Booking) Active() bool {
	return b.State == StateNew
}
