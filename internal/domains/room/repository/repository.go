package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pms/infras/otel"
	"pms/infras/postgres"
	bookingModel "pms/internal/domains/booking/model"
	"pms/internal/domains/room/model"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/logger"
	gRepo "pms/shared/repository"
	"pms/shared/stay"

	"github.com/jmoiron/sqlx"
)

// searchAvailableQuery keeps rooms whose type holds the party and that have no NEW
// booking sharing a night with [checkin, checkout). Rooms without a type never match.
var searchAvailableQuery = fmt.Sprintf(`
SELECT rooms.id, rooms.room_type_id, rooms.name, rooms.description, rooms.image,
	room_types.name AS room_type_name, room_types.price, room_types.max_guests,
	rooms.created_at, rooms.modified_at
FROM rooms
JOIN room_types ON room_types.id = rooms.room_type_id
WHERE room_types.max_guests >= :guests
AND NOT EXISTS (
	SELECT 1 FROM %[1]s
	WHERE %[1]s.room_id = rooms.id
	AND %[1]s.state = :state
	AND %[1]s.checkin < :checkout
	AND %[1]s.checkout > :checkin
)
ORDER BY room_types.max_guests ASC, rooms.name ASC`, bookingModel.TableName)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	LockOneTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	SearchAvailable(ctx context.Context, r stay.Range, guests int) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) SearchAvailable(ctx context.Context, r stay.Range, guests int) ([]model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SearchAvailable")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, searchAvailableQuery)

	args := map[string]any{
		"guests":   guests,
		"state":    bookingModel.StateNew,
		"checkin":  r.Checkin,
		"checkout": r.Checkout,
	}

	var rooms []model.Room

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, searchAvailableQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &rooms, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to search available rooms: %w", err)
	}

	return rooms, nil
}
