package model

import "pms/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID        = "id"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldMaxGuests = "max_guests"
)

// RoomType carries the nightly price and occupancy shared by its rooms.
type RoomType struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	MaxGuests int     `db:"max_guests"`
	model.Metadata
}
