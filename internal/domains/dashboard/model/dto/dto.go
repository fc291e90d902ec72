package dto

import (
	"pms/internal/domains/dashboard/model"
	"pms/shared/stay"
)

type DashboardResponse struct {
	CurrentDate    string  `json:"current_date"`
	NewBookings    int     `json:"new_bookings"`
	IncomingGuests int     `json:"incoming_guests"`
	OutgoingGuests int     `json:"outgoing_guests"`
	Invoiced       float64 `json:"invoiced"`
	OccupancyRate  int     `json:"occupancy_rate"`
	Rooms          int     `json:"rooms"`
	OccupiedRooms  int     `json:"occupied_rooms"`
}

func (r *DashboardResponse) FromModel(window model.Window, counters model.Counters) {
	r.CurrentDate = stay.FormatDay(window.Day)
	r.NewBookings = counters.NewBookings
	r.IncomingGuests = counters.Incoming
	r.OutgoingGuests = counters.Outgoing
	r.Invoiced = counters.Invoiced
	r.OccupancyRate = counters.OccupancyRate()
	r.Rooms = counters.Rooms
	r.OccupiedRooms = counters.Occupied
}
