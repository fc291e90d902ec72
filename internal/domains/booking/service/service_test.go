package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/kafka"
	kafkaMocks "pms/infras/kafka/mocks"
	"pms/infras/otel/mocks"
	bookingMocks "pms/internal/domains/booking/mocks"
	"pms/internal/domains/booking/model"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	customerMocks "pms/internal/domains/customer/mocks"
	customerModel "pms/internal/domains/customer/model"
	customerDto "pms/internal/domains/customer/model/dto"
	customerService "pms/internal/domains/customer/service"
	roomMocks "pms/internal/domains/room/mocks"
	roomModel "pms/internal/domains/room/model"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	gRepo "pms/shared/repository"
	repoMocks "pms/shared/repository/mocks"
	"pms/shared/reservation"
	"pms/shared/stay"
)

type deps struct {
	repo       *bookingMocks.MockBooking
	rooms      *roomMocks.MockRoom
	customers  *customerMocks.MockCustomer
	customer   *customerMocks.MockCustomerService
	transactor *repoMocks.MockTransactor
	cache      *cacheMocks.MockRedisCache
	kafka      *kafkaMocks.MockClient
}

func setup(t *testing.T, kafkaEnabled bool) (service.Booking, deps) {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:       bookingMocks.NewMockBooking(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		customers:  customerMocks.NewMockCustomer(ctrl),
		customer:   customerMocks.NewMockCustomerService(ctrl),
		transactor: repoMocks.NewMockTransactor(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Kafka.Enable = kafkaEnabled
	cfg.Kafka.Topics.BookingEvents = "booking-events"

	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(d.repo, d.rooms, d.customers, d.customer, d.transactor, cfg, d.cache, d.kafka, mocks.NewOtel())

	return svc, d
}

// runInline executes the transaction body without a database, returning whatever it returns.
func runInline(d deps) {
	d.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
			return fn(ctx, nil)
		})
}

func day(offset int) string {
	return stay.FormatDay(stay.Today().AddDate(0, 0, offset))
}

func bookableRoom(price float64, maxGuests int) roomModel.Room {
	typeID, typeName := "rt1", "Double"

	return roomModel.Room{
		ID:           "r1",
		Name:         "Room 101",
		RoomTypeID:   &typeID,
		RoomTypeName: &typeName,
		Price:        &price,
		MaxGuests:    &maxGuests,
	}
}

func whereArgs(filter gDto.FilterGroup) map[string]any {
	_, args := filter.GetWhereClause()

	return args
}

func createRequest(checkin, checkout string, guests int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		Customer: customerDto.CustomerRequest{Name: "Alice", Email: "alice@example.com", Phone: "+14155550100"},
		Checkin:  checkin,
		Checkout: checkout,
		Guests:   guests,
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("stores customer and booking priced by nights", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		var customerID string

		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.customers.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, c customerModel.Customer) error {
				assert.Equal(t, "Alice", c.Name)
				customerID = c.ID

				return nil
			})
		d.repo.EXPECT().
			LockTx(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldID).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				args := whereArgs(filter)
				assert.Equal(t, "r1", args["room_id"])
				assert.Equal(t, model.StateNew, args["state"])
				assert.NotContains(t, args, "exclude_id")

				return nil, nil
			})
		d.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				assert.Equal(t, model.StateNew, b.State)
				assert.Equal(t, 200.0, b.Total)
				assert.Equal(t, 2, b.Guests)
				assert.Len(t, b.Code, reservation.CodeLength)
				require.NotNil(t, b.CustomerID)
				assert.Equal(t, customerID, *b.CustomerID)

				return nil
			})

		res, err := svc.Create(context.Background(), "r1", createRequest(day(3), day(5), 2))

		require.NoError(t, err)
		assert.Equal(t, 2, res.Nights)
		assert.Equal(t, 200.0, res.Total)
		assert.Equal(t, model.StateNew, res.State)
		require.NotNil(t, res.CustomerName)
		assert.Equal(t, "Alice", *res.CustomerName)
	})

	t.Run("publishes an event when kafka is enabled", func(t *testing.T) {
		svc, d := setup(t, true)
		runInline(d)

		sent := make(chan kafka.Message, 1)

		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(80, 2), nil)
		d.customers.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking-events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				sent <- messages[0]

				return nil
			})

		res, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(2), 1))
		require.NoError(t, err)

		select {
		case msg := <-sent:
			assert.Equal(t, dto.EventCreated, msg.Event)
			assert.Equal(t, res.ID, msg.Key)
		case <-time.After(time.Second):
			t.Fatal("booking event was not published")
		}
	})

	t.Run("overlapping booking rolls everything back", func(t *testing.T) {
		svc, d := setup(t, false)

		var customerInserted bool

		d.transactor.EXPECT().
			WithinTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
				err := fn(ctx, nil)
				assert.True(t, customerInserted)

				return err
			})
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.customers.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *sqlx.Tx, customerModel.Customer) error {
				customerInserted = true

				return nil
			})
		d.repo.EXPECT().
			LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "b0"}}, nil)

		_, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(3), 2))

		require.ErrorIs(t, err, service.ErrRoomTaken)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, "Sorry! The room was just booked by another guest.", err.Error())
	})

	t.Run("exclusion violation reads as room taken", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.customers.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		d.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})

		_, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(3), 2))

		require.ErrorIs(t, err, service.ErrRoomTaken)
	})

	t.Run("colliding code retries under a fresh one", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)
		runInline(d)

		var codes []string

		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil).Times(2)
		d.customers.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
		d.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				codes = append(codes, b.Code)
				if len(codes) == 1 {
					return &pq.Error{Code: constant.PqErrorCodeUniqueViolation}
				}

				return nil
			}).
			Times(2)

		res, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(3), 2))

		require.NoError(t, err)
		require.Len(t, codes, 2)
		assert.NotEqual(t, codes[0], codes[1])
		assert.Equal(t, codes[1], res.Code)
	})

	t.Run("gives up after repeated code collisions", func(t *testing.T) {
		svc, d := setup(t, false)

		d.transactor.EXPECT().
			WithinTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
				return fn(ctx, nil)
			}).
			Times(3)
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil).Times(3)
		d.customers.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(3)
		d.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation}).
			Times(3)

		_, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(3), 2))

		require.Error(t, err)
		assert.False(t, failure.IsFailure(err))
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	roomFailures := []struct {
		name    string
		room    roomModel.Room
		guests  int
		wantErr error
	}{
		{name: "unknown room", room: roomModel.Room{}, guests: 1, wantErr: service.ErrRoomNotFound},
		{name: "room without type", room: roomModel.Room{ID: "r1", Name: "Attic"}, guests: 1, wantErr: service.ErrRoomNotBookable},
		{name: "party too large", room: bookableRoom(100, 2), guests: 3, wantErr: service.ErrTooManyGuests},
	}

	for _, tt := range roomFailures {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := setup(t, false)
			runInline(d)

			d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.room, nil)

			_, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(2), tt.guests))

			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	dateFailures := []struct {
		name     string
		checkin  string
		checkout string
		wantErr  error
	}{
		{name: "missing checkout", checkin: day(1), checkout: "", wantErr: stay.ErrDatesRequired},
		{name: "unparseable date", checkin: "tomorrow", checkout: day(2), wantErr: stay.ErrInvalidDate},
		{name: "checkout before checkin", checkin: day(3), checkout: day(2), wantErr: stay.ErrCheckoutOrder},
		{name: "checkin in the past", checkin: day(-1), checkout: day(2), wantErr: stay.ErrCheckinPast},
	}

	for _, tt := range dateFailures {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t, false)

			_, err := svc.Create(context.Background(), "r1", createRequest(tt.checkin, tt.checkout, 1))

			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("repository error is wrapped", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{}, errors.New("connection reset"))

		_, err := svc.Create(context.Background(), "r1", createRequest(day(1), day(2), 1))

		require.Error(t, err)
		assert.False(t, failure.IsFailure(err))
		assert.Contains(t, err.Error(), "failed to lock room")
	})
}

func existingBooking() model.Booking {
	roomID, customerID := "r1", "c1"

	in, _ := stay.ParseDay("2030-01-10")
	out, _ := stay.ParseDay("2030-01-12")

	return model.Booking{
		ID:         "b1",
		Code:       "ABCDEF12",
		State:      model.StateNew,
		Checkin:    in,
		Checkout:   out,
		RoomID:     &roomID,
		CustomerID: &customerID,
		Guests:     2,
		Total:      200,
	}
}

func TestBookingService_UpdateDates(t *testing.T) {
	t.Run("reprices with the current room price", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(150, 2), nil)
		d.repo.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldID).Return(model.Booking{ID: "b1"}, nil)
		d.repo.EXPECT().
			LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				assert.Equal(t, "b1", whereArgs(filter)["exclude_id"])

				return nil, nil
			})
		d.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 450.0, fields[model.FieldTotal])
				assert.Contains(t, fields, constant.FieldModifiedAt)

				return nil
			})
		d.repo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
				assert.Equal(t, "b1", whereArgs(filter)["id"])

				moved := existingBooking()
				moved.Checkin, _ = stay.ParseDay("2030-01-11")
				moved.Checkout, _ = stay.ParseDay("2030-01-14")
				moved.Total = 450

				return moved, nil
			})

		// Overlaps the booking's own stay, which must not count as a conflict.
		res, err := svc.UpdateDates(context.Background(), "b1", dto.UpdateDatesRequest{Checkin: "2030-01-11", Checkout: "2030-01-14"})

		require.NoError(t, err)
		assert.Equal(t, "2030-01-11", res.Checkin)
		assert.Equal(t, "2030-01-14", res.Checkout)
		assert.Equal(t, 3, res.Nights)
		assert.Equal(t, 450.0, res.Total)
	})

	t.Run("conflict names the blocking booking", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		other := existingBooking()
		other.ID, other.Code = "b2", "ZZZZ9999"

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.repo.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1"}, nil)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{other}, nil)

		_, err := svc.UpdateDates(context.Background(), "b1", dto.UpdateDatesRequest{Checkin: "2030-01-11", Checkout: "2030-01-13"})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Contains(t, err.Error(), "No availability")
		assert.Contains(t, err.Error(), "ZZZZ9999")
	})

	messages := []struct {
		name    string
		req     dto.UpdateDatesRequest
		message string
	}{
		{name: "empty", req: dto.UpdateDatesRequest{}, message: "You must provide both check-in and check-out dates."},
		{name: "invalid", req: dto.UpdateDatesRequest{Checkin: "2030-13-01", Checkout: "2030-01-02"}, message: "Invalid date format provided."},
		{name: "inverted", req: dto.UpdateDatesRequest{Checkin: "2030-01-05", Checkout: "2030-01-05"}, message: "Checkout date must be after check-in date."},
	}

	for _, tt := range messages {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t, false)

			_, err := svc.UpdateDates(context.Background(), "b1", tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	t.Run("past dates are accepted when editing", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.repo.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1"}, nil)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingBooking(), nil)

		_, err := svc.UpdateDates(context.Background(), "b1", dto.UpdateDatesRequest{Checkin: day(-5), Checkout: day(-3)})

		require.NoError(t, err)
	})

	t.Run("reload failure is wrapped", func(t *testing.T) {
		svc, d := setup(t, false)
		runInline(d)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.rooms.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.repo.EXPECT().LockOneTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1"}, nil)
		d.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("connection reset"))

		_, err := svc.UpdateDates(context.Background(), "b1", dto.UpdateDatesRequest{Checkin: "2030-01-11", Checkout: "2030-01-13"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reload booking")
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, d := setup(t, false)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.UpdateDates(context.Background(), "nope", dto.UpdateDatesRequest{Checkin: "2030-01-01", Checkout: "2030-01-02"})

		require.ErrorIs(t, err, service.ErrBookingNotFound)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("marks the booking deleted", func(t *testing.T) {
		svc, d := setup(t, false)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, model.StateDeleted, fields[model.FieldState])
				assert.Equal(t, "b1", whereArgs(filter)["id"])

				return nil
			})

		require.NoError(t, svc.Cancel(context.Background(), "b1"))
	})

	t.Run("dashboard cache is cleared before returning", func(t *testing.T) {
		_, d := setup(t, false)

		dashboard := cacheMocks.NewMockRedisCache(gomock.NewController(t))
		svc := service.New(d.repo, d.rooms, d.customers, d.customer, d.transactor, &config.Config{}, dashboard, d.kafka, mocks.NewOtel())

		var cleared bool

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		dashboard.EXPECT().
			Clear(gomock.Any(), constant.CachePrefixDashboard+":*").
			DoAndReturn(func(context.Context, string) error {
				cleared = true

				return nil
			})

		require.NoError(t, svc.Cancel(context.Background(), "b1"))
		assert.True(t, cleared)
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		svc, d := setup(t, false)

		cancelled := existingBooking()
		cancelled.State = model.StateDeleted

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		require.NoError(t, svc.Cancel(context.Background(), "b1"))
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, d := setup(t, false)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		require.ErrorIs(t, svc.Cancel(context.Background(), "b1"), service.ErrBookingNotFound)
	})

	t.Run("update error", func(t *testing.T) {
		svc, d := setup(t, false)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		require.Error(t, svc.Cancel(context.Background(), "b1"))
	})
}

func TestBookingService_Quote(t *testing.T) {
	t.Run("prices the stay and reports availability", func(t *testing.T) {
		svc, d := setup(t, false)

		d.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookableRoom(100, 2), nil)
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		res, err := svc.Quote(context.Background(), "r1", dto.QuoteRequest{Checkin: "2030-02-01", Checkout: "2030-02-04", Guests: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Nights)
		assert.Equal(t, 100.0, res.Price)
		assert.Equal(t, 300.0, res.Total)
		assert.Equal(t, "Double", res.RoomTypeName)
		assert.False(t, res.Available)
	})

	t.Run("party too large", func(t *testing.T) {
		svc, d := setup(t, false)

		d.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookableRoom(100, 1), nil)

		_, err := svc.Quote(context.Background(), "r1", dto.QuoteRequest{Checkin: "2030-02-01", Checkout: "2030-02-04", Guests: 2})

		require.ErrorIs(t, err, service.ErrTooManyGuests)
	})
}

func TestBookingService_GetAll(t *testing.T) {
	svc, d := setup(t, false)

	d.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			args := whereArgs(filter)
			assert.Equal(t, "%ali%", args["code"])
			assert.Equal(t, "%ali%", args["customer_name"])

			return 3, nil
		})
	d.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "bookings.created_at", params.SortBy)

			return []model.Booking{existingBooking()}, nil
		})

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 2, SortBy: "password"}, " ali ")

	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Bookings, 1)
}

func TestBookingService_UpdateCustomer(t *testing.T) {
	req := customerDto.UpdateCustomerRequest{Name: "Bob", Email: "bob@example.com", Phone: "+14155550101"}

	t.Run("updates the booking's customer", func(t *testing.T) {
		svc, d := setup(t, false)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(), nil)
		d.customer.EXPECT().Update(gomock.Any(), req, "c1").Return(nil)

		require.NoError(t, svc.UpdateCustomer(context.Background(), "b1", req))
	})

	t.Run("booking without customer", func(t *testing.T) {
		svc, d := setup(t, false)

		orphan := existingBooking()
		orphan.CustomerID = nil

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(orphan, nil)

		require.ErrorIs(t, svc.UpdateCustomer(context.Background(), "b1", req), customerService.ErrCustomerNotFound)
	})
}
