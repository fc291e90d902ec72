package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pms/infras/otel"
	"pms/infras/postgres"
	bookingModel "pms/internal/domains/booking/model"
	"pms/internal/domains/dashboard/model"
	roomModel "pms/internal/domains/room/model"
	"pms/shared/constant"
	"pms/shared/logger"
)

// countersQuery reads every daily figure in one pass over bookings.
// A stay occupies a room on day when checkin <= day < checkout.
var countersQuery = fmt.Sprintf(`
SELECT
	COUNT(*) FILTER (WHERE b.created_at BETWEEN :from AND :to) AS new_bookings,
	COUNT(*) FILTER (WHERE b.checkin = :day AND b.state <> :deleted) AS incoming,
	COUNT(*) FILTER (WHERE b.checkout = :day AND b.state <> :deleted) AS outgoing,
	COALESCE(SUM(b.total) FILTER (WHERE b.created_at BETWEEN :from AND :to AND b.state <> :deleted), 0) AS invoiced,
	COUNT(*) FILTER (WHERE b.state = :active AND b.checkin <= :day AND b.checkout > :day) AS occupied,
	(SELECT COUNT(*) FROM %s) AS rooms
FROM %s b`, roomModel.TableName, bookingModel.TableName)

type Dashboard interface {
	Counters(ctx context.Context, window model.Window) (model.Counters, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dashboard {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) Counters(ctx context.Context, window model.Window) (model.Counters, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.Counters")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, countersQuery)

	args := map[string]any{
		"from":    window.From,
		"to":      window.To,
		"day":     window.Day,
		"deleted": bookingModel.StateDeleted,
		"active":  bookingModel.StateNew,
	}

	var counters model.Counters

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, countersQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return counters, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &counters, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return counters, fmt.Errorf("failed to read dashboard counters: %w", err)
	}

	return counters, nil
}
