package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/otel/mocks"
	s3Mocks "pms/infras/s3/mocks"
	bookingMocks "pms/internal/domains/booking/mocks"
	bookingModel "pms/internal/domains/booking/model"
	roomMocks "pms/internal/domains/room/mocks"
	"pms/internal/domains/room/model"
	"pms/internal/domains/room/model/dto"
	"pms/internal/domains/room/service"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	"pms/shared/stay"
)

type deps struct {
	repo     *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	cache    *cacheMocks.MockRedisCache
	s3       *s3Mocks.MockS3
}

func setup(t *testing.T) (service.Room, deps) {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:     roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(d.repo, d.bookings, cfg, d.cache, mocks.NewOtel(), d.s3), d
}

func allowCaching(c *cacheMocks.MockRedisCache) {
	c.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func typedRoom(id, name, typeID string, price float64, maxGuests int) model.Room {
	typeName := "type-" + typeID

	return model.Room{
		ID:           id,
		Name:         name,
		RoomTypeID:   &typeID,
		RoomTypeName: &typeName,
		Price:        &price,
		MaxGuests:    &maxGuests,
	}
}

func TestRoomService_Create(t *testing.T) {
	image := &multipart.FileHeader{Filename: "Sea-View.JPG"}

	t.Run("uploads the image and stores the room", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		d.s3.EXPECT().
			UploadFile(gomock.Any(), model.EntityName, image, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ *multipart.FileHeader, name string) (string, error) {
				assert.Regexp(t, `^[0-9a-f-]{36}\.jpg$`, name)

				return "https://cdn.example.com/room/" + name, nil
			})
		d.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Room) error {
				assert.Equal(t, "Sea View", m.Name)
				require.NotNil(t, m.RoomTypeID)
				assert.Contains(t, m.Image, "https://cdn.example.com/room/")

				return nil
			})

		res, err := svc.Create(context.Background(), dto.CreateRoomRequest{
			Name:       "Sea View",
			RoomTypeID: "5f0c7a0e-8d4e-4a55-9a38-0e5b8f9b6a11",
			Image:      image,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("room without image or type", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		d.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Room) error {
				assert.Nil(t, m.RoomTypeID)
				assert.Empty(t, m.Image)

				return nil
			})

		_, err := svc.Create(context.Background(), dto.CreateRoomRequest{Name: "Attic"})

		require.NoError(t, err)
	})

	t.Run("unknown room type removes the uploaded image", func(t *testing.T) {
		svc, d := setup(t)

		d.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.example.com/room/x.jpg", nil)
		d.s3.EXPECT().DeleteFile(gomock.Any(), model.EntityName, gomock.Any()).Return(nil)
		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		_, err := svc.Create(context.Background(), dto.CreateRoomRequest{Name: "Sea View", RoomTypeID: "5f0c7a0e-8d4e-4a55-9a38-0e5b8f9b6a11", Image: image})

		require.ErrorIs(t, err, service.ErrUnknownRoomType)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		svc, d := setup(t)

		d.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket gone"))

		_, err := svc.Create(context.Background(), dto.CreateRoomRequest{Name: "Sea View", Image: image})

		require.Error(t, err)
	})
}

func TestRoomService_GetAll(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		svc, d := setup(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, "")

		require.NoError(t, err)
	})

	t.Run("name search sorted by name ascending", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "%sea%", args["name"])

				return 1, nil
			})
		d.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
				assert.Equal(t, "rooms.name", params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				return []model.Room{typedRoom("r1", "Sea View", "rt1", 90, 2)}, nil
			})

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, " sea ")

		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		require.Len(t, res.Rooms, 1)
		assert.Equal(t, 90.0, *res.Rooms[0].Price)
	})

	t.Run("count error", func(t *testing.T) {
		svc, d := setup(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("boom"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, "")

		require.Error(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	t.Run("room with its bookings", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		in, _ := stay.ParseDay("2030-03-01")
		out, _ := stay.ParseDay("2030-03-04")

		d.cache.EXPECT().Get(gomock.Any(), "room:get:r1", gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(typedRoom("r1", "Sea View", "rt1", 90, 2), nil)
		d.bookings.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "r1", args["room_id"])
				assert.Equal(t, "bookings.checkin", params.SortBy)

				return []bookingModel.Booking{{ID: "b1", State: bookingModel.StateNew, Checkin: in, Checkout: out, Total: 270}}, nil
			})

		res, err := svc.Get(context.Background(), "r1")

		require.NoError(t, err)
		assert.Equal(t, "Sea View", res.Name)
		require.Len(t, res.Bookings, 1)
		assert.Equal(t, 3, res.Bookings[0].Nights)
		assert.False(t, res.OccupiedToday)
	})

	t.Run("occupied today only counts live bookings", func(t *testing.T) {
		today := stay.Today()

		tests := []struct {
			name  string
			state string
			from  int
			want  bool
		}{
			{name: "guest in house", state: bookingModel.StateNew, from: -1, want: true},
			{name: "arriving today", state: bookingModel.StateNew, from: 0, want: true},
			{name: "checked out this morning", state: bookingModel.StateNew, from: -2, want: false},
			{name: "cancelled stay", state: bookingModel.StateDeleted, from: -1, want: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, d := setup(t)
				allowCaching(d.cache)

				d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(typedRoom("r1", "Sea View", "rt1", 90, 2), nil)
				d.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{{
					ID:       "b1",
					State:    tt.state,
					Checkin:  today.AddDate(0, 0, tt.from),
					Checkout: today.AddDate(0, 0, tt.from+2),
				}}, nil)

				res, err := svc.Get(context.Background(), "r1")

				require.NoError(t, err)
				assert.Equal(t, tt.want, res.OccupiedToday)
			})
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, d := setup(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "r1")

		require.ErrorIs(t, err, service.ErrRoomNotFound)
	})
}

func TestRoomService_Update(t *testing.T) {
	t.Run("replacing the image deletes the old one", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		image := &multipart.FileHeader{Filename: "new.png"}
		old := "https://cdn.example.com/room/old.png"

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldImage).Return(model.Room{ID: "r1", Image: old}, nil)
		d.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), image, gomock.Any()).Return("https://cdn.example.com/room/new.png", nil)
		d.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Renamed", fields[model.FieldName])
				assert.Equal(t, "https://cdn.example.com/room/new.png", fields[model.FieldImage])

				return nil
			})
		d.s3.EXPECT().GetObjectNameFromURL(model.EntityName, old).Return("old.png")
		d.s3.EXPECT().DeleteFile(gomock.Any(), model.EntityName, "old.png").Return(nil)

		require.NoError(t, svc.Update(context.Background(), dto.UpdateRoomRequest{Name: "Renamed", Image: image}, "r1"))
	})

	t.Run("not found", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		require.ErrorIs(t, svc.Update(context.Background(), dto.UpdateRoomRequest{Name: "x"}, "r1"), service.ErrRoomNotFound)
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, d := setup(t)
		allowCaching(d.cache)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1"}, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), "r1"))
	})

	t.Run("delete error", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1"}, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		require.Error(t, svc.Delete(context.Background(), "r1"))
	})
}

func TestRoomService_Search(t *testing.T) {
	t.Run("prices rooms and counts them per type", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().
			SearchAvailable(gomock.Any(), gomock.Any(), 2).
			DoAndReturn(func(_ context.Context, r stay.Range, _ int) ([]model.Room, error) {
				assert.Equal(t, 2, r.Nights())

				return []model.Room{
					typedRoom("r1", "101", "double", 100, 2),
					typedRoom("r2", "102", "double", 100, 2),
					typedRoom("r3", "201", "family", 180, 4),
				}, nil
			})

		res, err := svc.Search(context.Background(), dto.SearchRoomsRequest{Checkin: "2030-05-01", Checkout: "2030-05-03", Guests: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Nights)
		require.Len(t, res.Rooms, 3)
		assert.Equal(t, 200.0, res.Rooms[0].Total)
		assert.Equal(t, 360.0, res.Rooms[2].Total)
		require.Len(t, res.RoomTypes, 2)
		assert.Equal(t, "double", res.RoomTypes[0].RoomTypeID)
		assert.Equal(t, 2, res.RoomTypes[0].Total)
		assert.Equal(t, 1, res.RoomTypes[1].Total)
	})

	t.Run("no rooms", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().SearchAvailable(gomock.Any(), gomock.Any(), 4).Return(nil, nil)

		res, err := svc.Search(context.Background(), dto.SearchRoomsRequest{Checkin: "2030-05-01", Checkout: "2030-05-02", Guests: 4})

		require.NoError(t, err)
		assert.Empty(t, res.Rooms)
		assert.Empty(t, res.RoomTypes)
	})

	t.Run("invalid dates", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Search(context.Background(), dto.SearchRoomsRequest{Checkin: "2030-05-03", Checkout: "2030-05-01", Guests: 1})

		require.ErrorIs(t, err, stay.ErrCheckoutOrder)
	})
}
