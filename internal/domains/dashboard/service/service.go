package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Dashboard=MockDashboardService

import (
	"context"
	"fmt"
	"strings"

	"pms/config"
	"pms/infras/otel"
	"pms/internal/domains/dashboard/model"
	"pms/internal/domains/dashboard/model/dto"
	"pms/internal/domains/dashboard/repository"
	"pms/shared"
	"pms/shared/cache"
	"pms/shared/constant"
	"pms/shared/stay"
	"pms/shared/timezone"

	"github.com/rs/zerolog/log"
)

var cacheGetDashboard = shared.BuildCacheKey(constant.CachePrefixDashboard, "get")

type Dashboard interface {
	Get(ctx context.Context, date string) (dto.DashboardResponse, error)
	Invalidate(ctx context.Context)
}

type serviceImpl struct {
	repo  repository.Dashboard
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Dashboard, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Dashboard {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Get returns the counters for date (YYYY-MM-DD). A missing or unparseable date means today.
func (s *serviceImpl) Get(ctx context.Context, date string) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	window := WindowOf(date)
	cacheKey := shared.BuildCacheKey(cacheGetDashboard, stay.FormatDay(window.Day))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard")

		return res, nil
	}

	counters, err := s.repo.Counters(ctx, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to get dashboard counters")

		return res, fmt.Errorf("failed to get dashboard counters: %w", err)
	}

	res.FromModel(window, counters)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.DashboardTTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard to cache")
		}
	}()

	return res, nil
}

// Invalidate drops every cached dashboard.
func (s *serviceImpl) Invalidate(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixDashboard)
}

// WindowOf resolves the target day and its timestamp bounds in the application timezone.
func WindowOf(date string) model.Window {
	from := timezone.StartOfDay(timezone.Now())
	if day, err := stay.ParseDay(strings.TrimSpace(date)); err == nil {
		from = timezone.Date(day.Year(), day.Month(), day.Day())
	}

	return model.Window{
		Day:  stay.Day(from),
		From: from,
		To:   timezone.EndOfDay(from),
	}
}
