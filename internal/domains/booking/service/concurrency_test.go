package service_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/config"
	kafkaMocks "pms/infras/kafka/mocks"
	"pms/infras/otel/mocks"
	"pms/infras/postgres"
	bookingRepository "pms/internal/domains/booking/repository"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	customerMocks "pms/internal/domains/customer/mocks"
	customerRepository "pms/internal/domains/customer/repository"
	roomRepository "pms/internal/domains/room/repository"
	cacheMocks "pms/shared/cache/mocks"
	gRepo "pms/shared/repository"
)

const testDatabaseURLEnv = "PMS_TEST_DATABASE_URL"

func openTestDatabase(t *testing.T) *postgres.Connection {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	mig, err := migrate.New("file://../../../../migrations/postgres", dsn)
	require.NoError(t, err)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return &postgres.Connection{Read: db, Write: db}
}

func seedRoom(t *testing.T, db *sqlx.DB, price float64, maxGuests int) string {
	t.Helper()

	typeID, roomID := uuid.NewString(), uuid.NewString()

	_, err := db.Exec(`INSERT INTO room_types (id, name, price, max_guests) VALUES ($1, 'Double', $2, $3)`, typeID, price, maxGuests)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO rooms (id, room_type_id, name) VALUES ($1, $2, 'Room 101')`, roomID, typeID)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM bookings WHERE room_id = $1`, roomID)
		_, _ = db.Exec(`DELETE FROM rooms WHERE id = $1`, roomID)
		_, _ = db.Exec(`DELETE FROM room_types WHERE id = $1`, typeID)
	})

	return roomID
}

func newDatabaseService(t *testing.T, conn *postgres.Connection) service.Booking {
	t.Helper()

	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	otel := mocks.NewOtel()

	return service.New(
		bookingRepository.New(conn, otel),
		roomRepository.New(conn, otel),
		customerRepository.New(conn, otel),
		customerMocks.NewMockCustomerService(ctrl),
		gRepo.NewTransactor(conn, otel),
		&config.Config{},
		cache,
		kafkaMocks.NewMockClient(ctrl),
		otel,
	)
}

func TestBookingService_Create_ConcurrentRequestsBookOnce(t *testing.T) {
	conn := openTestDatabase(t)
	roomID := seedRoom(t, conn.Write, 100, 2)

	svc := newDatabaseService(t, conn)

	const attempts = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		booked  int
		taken   int
		unknown []error
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(context.Background(), roomID, createRequest(day(30), day(33), 2))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				booked++
			case errors.Is(err, service.ErrRoomTaken):
				taken++
			default:
				unknown = append(unknown, err)
			}
		}()
	}

	wg.Wait()

	assert.Empty(t, unknown)
	assert.Equal(t, 1, booked)
	assert.Equal(t, attempts-1, taken)

	var active int

	require.NoError(t, conn.Read.Get(&active, `SELECT COUNT(*) FROM bookings WHERE room_id = $1 AND state = 'NEW'`, roomID))
	assert.Equal(t, 1, active)
}

func TestBookingService_Create_BackToBackStaysShareNoNight(t *testing.T) {
	conn := openTestDatabase(t)
	roomID := seedRoom(t, conn.Write, 80, 2)

	svc := newDatabaseService(t, conn)

	first, err := svc.Create(context.Background(), roomID, createRequest(day(40), day(42), 1))
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), roomID, createRequest(day(42), day(44), 1))
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)

	_, err = svc.Create(context.Background(), roomID, createRequest(day(41), day(43), 1))
	assert.ErrorIs(t, err, service.ErrRoomTaken)
}

func TestBookingService_UpdateDates_OwnStayNeverConflicts(t *testing.T) {
	conn := openTestDatabase(t)
	roomID := seedRoom(t, conn.Write, 50, 2)

	svc := newDatabaseService(t, conn)

	created, err := svc.Create(context.Background(), roomID, createRequest(day(50), day(52), 2))
	require.NoError(t, err)
	require.Equal(t, 100.0, created.Total)

	moved, err := svc.UpdateDates(context.Background(), created.ID, dto.UpdateDatesRequest{Checkin: day(50), Checkout: day(53)})
	require.NoError(t, err)

	assert.Equal(t, created.ID, moved.ID)
	assert.Equal(t, created.Code, moved.Code)
	assert.Equal(t, 3, moved.Nights)
	assert.Equal(t, 150.0, moved.Total)
	require.NotNil(t, moved.RoomName)
	assert.Equal(t, "Room 101", *moved.RoomName)

	var total float64

	require.NoError(t, conn.Read.Get(&total, `SELECT total FROM bookings WHERE id = $1`, created.ID))
	assert.Equal(t, 150.0, total)
}

func TestBookingService_MalformedIDIsNotFound(t *testing.T) {
	conn := openTestDatabase(t)
	svc := newDatabaseService(t, conn)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, service.ErrBookingNotFound)

	_, err = svc.UpdateDates(context.Background(), "not-a-uuid", dto.UpdateDatesRequest{Checkin: day(1), Checkout: day(2)})
	require.ErrorIs(t, err, service.ErrBookingNotFound)

	require.ErrorIs(t, svc.Cancel(context.Background(), "not-a-uuid"), service.ErrBookingNotFound)
}
