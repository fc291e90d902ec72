package model

import "time"

const EntityName = "dashboard"

// Counters are the raw daily figures read from bookings and rooms.
type Counters struct {
	NewBookings int     `db:"new_bookings"`
	Incoming    int     `db:"incoming"`
	Outgoing    int     `db:"outgoing"`
	Invoiced    float64 `db:"invoiced"`
	Occupied    int     `db:"occupied"`
	Rooms       int     `db:"rooms"`
}

// Window bounds one target day: Day for date columns, From/To for timestamps.
type Window struct {
	Day  time.Time
	From time.Time
	To   time.Time
}

// OccupancyRate is the whole percentage of rooms holding a NEW stay, 0 without rooms.
func (c Counters) OccupancyRate() int {
	if c.Rooms == 0 {
		return 0
	}

	return c.Occupied * 100 / c.Rooms //nolint:mnd
}
