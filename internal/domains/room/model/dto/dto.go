package dto

import (
	"mime/multipart"

	bookingDto "pms/internal/domains/booking/model/dto"
	"pms/internal/domains/room/model"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/stay"
	"pms/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string                `json:"name"         validate:"required,max=100"`
	Description string                `json:"description"  validate:"omitempty,max=500"`
	RoomTypeID  string                `json:"room_type_id" validate:"omitempty,uuid"`
	Image       *multipart.FileHeader `json:"image"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
}

func (c *CreateRoomRequest) ToModel(imageURL string) model.Room {
	now := timezone.Now()

	room := model.Room{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Image:       imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}

	if c.RoomTypeID != "" {
		room.RoomTypeID = &c.RoomTypeID
	}

	return room
}

type UpdateRoomRequest struct {
	Name        string                `db:"name"         json:"name"         validate:"omitempty,max=100"`
	Description *string               `db:"description"  json:"description"  validate:"omitempty,max=500"`
	RoomTypeID  string                `db:"room_type_id" json:"room_type_id" validate:"omitempty,uuid"`
	Image       *multipart.FileHeader `json:"image"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
}

type RoomResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	RoomTypeID   *string  `json:"room_type_id"`
	RoomTypeName *string  `json:"room_type_name"`
	Price        *float64 `json:"price"`
	MaxGuests    *int     `json:"max_guests"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Image = model.Image
	r.RoomTypeID = model.RoomTypeID
	r.RoomTypeName = model.RoomTypeName
	r.Price = model.Price
	r.MaxGuests = model.MaxGuests
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// RoomDetailResponse is a room together with every booking ever made for it.
type RoomDetailResponse struct {
	RoomResponse
	OccupiedToday bool                         `json:"occupied_today"`
	Bookings      []bookingDto.BookingResponse `json:"bookings"`
}

type SearchRoomsRequest struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	Guests   int    `json:"guests"   validate:"required,min=1,max=4"`
}

type AvailableRoomResponse struct {
	RoomResponse
	Total float64 `json:"total"`
}

// RoomTypeAvailability counts the free rooms of one type.
type RoomTypeAvailability struct {
	RoomTypeID   string `json:"room_type_id"`
	RoomTypeName string `json:"room_type_name"`
	Total        int    `json:"total"`
}

type SearchRoomsResponse struct {
	Checkin   string                  `json:"checkin"`
	Checkout  string                  `json:"checkout"`
	Guests    int                     `json:"guests"`
	Nights    int                     `json:"nights"`
	Rooms     []AvailableRoomResponse `json:"rooms"`
	RoomTypes []RoomTypeAvailability  `json:"room_types"`
}

// FromModels expects rooms ordered by capacity, so room types come out in that order too.
func (r *SearchRoomsResponse) FromModels(models []model.Room, nights int) {
	r.Nights = nights
	r.Rooms = make([]AvailableRoomResponse, len(models))
	r.RoomTypes = []RoomTypeAvailability{}

	index := map[string]int{}

	for i, mod := range models {
		r.Rooms[i].FromModel(mod)

		if mod.Price != nil {
			r.Rooms[i].Total = stay.Price(nights, *mod.Price)
		}

		if mod.RoomTypeID == nil {
			continue
		}

		pos, ok := index[*mod.RoomTypeID]
		if !ok {
			name := ""
			if mod.RoomTypeName != nil {
				name = *mod.RoomTypeName
			}

			pos = len(r.RoomTypes)
			index[*mod.RoomTypeID] = pos
			r.RoomTypes = append(r.RoomTypes, RoomTypeAvailability{RoomTypeID: *mod.RoomTypeID, RoomTypeName: name})
		}

		r.RoomTypes[pos].Total++
	}
}
