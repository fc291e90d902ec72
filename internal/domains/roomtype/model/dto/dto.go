package dto

import (
	"pms/internal/domains/roomtype/model"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomTypeRequest struct {
	Name      string   `json:"name"       validate:"required,max=100"`
	Price     *float64 `json:"price"      validate:"required,min=0"`
	MaxGuests int      `json:"max_guests" validate:"required,min=1"`
}

func (c *CreateRoomTypeRequest) ToModel() model.RoomType {
	now := timezone.Now()

	return model.RoomType{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Price:     *c.Price,
		MaxGuests: c.MaxGuests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name      string   `db:"name"       json:"name"       validate:"omitempty,max=100"`
	Price     *float64 `db:"price"      json:"price"      validate:"omitempty,min=0"`
	MaxGuests *int     `db:"max_guests" json:"max_guests" validate:"omitempty,min=1"`
}

type RoomTypeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	MaxGuests int     `json:"max_guests"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.MaxGuests = model.MaxGuests
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
