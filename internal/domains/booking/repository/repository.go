package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pms/infras/otel"
	"pms/infras/postgres"
	"pms/internal/domains/booking/model"
	gDto "pms/shared/dto"
	gRepo "pms/shared/repository"
	"pms/shared/stay"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	LockOneTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	LockTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Overlapping matches the NEW bookings of roomID sharing a night with r.
// A non-empty excludeID leaves that booking out.
func Overlapping(roomID string, r stay.Range, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldState, Value: model.StateNew, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{ArgName: "stay_checkout", Field: model.FieldCheckin, Value: r.Checkout, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		gDto.Filter{ArgName: "stay_checkin", Field: model.FieldCheckout, Value: r.Checkin, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{ArgName: "exclude_id", Field: model.FieldID, Value: excludeID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}
