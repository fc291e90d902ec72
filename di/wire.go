//go:build wireinject
// +build wireinject

package di

import (
	"pms/config"
	"pms/infras/kafka"
	"pms/infras/otel"
	"pms/infras/postgres"
	"pms/infras/redis"
	"pms/infras/s3"
	"pms/shared/cache"
	gRepo "pms/shared/repository"
	"pms/transport/http"
	"pms/transport/http/middleware"
	"pms/transport/http/router"

	bookingRepository "pms/internal/domains/booking/repository"
	bookingService "pms/internal/domains/booking/service"
	customerRepository "pms/internal/domains/customer/repository"
	customerService "pms/internal/domains/customer/service"
	dashboardRepository "pms/internal/domains/dashboard/repository"
	dashboardService "pms/internal/domains/dashboard/service"
	roomRepository "pms/internal/domains/room/repository"
	roomService "pms/internal/domains/room/service"
	roomTypeRepository "pms/internal/domains/roomtype/repository"
	roomTypeService "pms/internal/domains/roomtype/service"

	bookingHandler "pms/internal/handlers/booking"
	customerHandler "pms/internal/handlers/customer"
	dashboardHandler "pms/internal/handlers/dashboard"
	eventHandler "pms/internal/handlers/event"
	roomHandler "pms/internal/handlers/room"
	roomTypeHandler "pms/internal/handlers/roomtype"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var roomTypeDomain = wire.NewSet(
	roomTypeRepository.New,
	roomTypeService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardRepository.New,
	dashboardService.New,
)

var domains = wire.NewSet(
	customerDomain,
	roomTypeDomain,
	roomDomain,
	bookingDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	customerHandler.New,
	roomTypeHandler.New,
	roomHandler.New,
	bookingHandler.New,
	dashboardHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() eventHandler.Handler {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		dashboardDomain,
		eventHandler.New,
	)

	return eventHandler.Handler{}
}
