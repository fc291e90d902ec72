package model

import "pms/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomTypeID  = "room_type_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldImage       = "image"
)

// Room is a bookable unit. The room_types columns come from an outer join and are
// nil once the room's type has been deleted.
type Room struct {
	ID           string   `db:"id"`
	RoomTypeID   *string  `db:"room_type_id"`
	Name         string   `db:"name"`
	Description  string   `db:"description"`
	Image        string   `db:"image"`
	RoomTypeName *string  `db:"room_type_name" table:"room_types" column:"name"`
	Price        *float64 `db:"price"          table:"room_types" column:"price"`
	MaxGuests    *int     `db:"max_guests"     table:"room_types" column:"max_guests"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN room_types ON room_types.id = rooms.room_type_id"
}

// Bookable reports whether the room has a type to take its nightly price from.
func (r Room) Bookable() bool {
	return r.Price != nil && r.MaxGuests != nil
}
