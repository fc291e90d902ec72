package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/otel/mocks"
	dashboardMocks "pms/internal/domains/dashboard/mocks"
	"pms/internal/domains/dashboard/model"
	"pms/internal/domains/dashboard/model/dto"
	"pms/internal/domains/dashboard/service"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/stay"
)

func setup(t *testing.T) (service.Dashboard, *dashboardMocks.MockDashboard, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)

	repo := dashboardMocks.NewMockDashboard(ctrl)
	c := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.DashboardTTL = 60

	return service.New(repo, cfg, c, mocks.NewOtel()), repo, c
}

func TestDashboardService_Get(t *testing.T) {
	t.Run("computes counters for the requested day", func(t *testing.T) {
		svc, repo, c := setup(t)

		c.EXPECT().Get(gomock.Any(), "dashboard:get:2030-06-01", gomock.Any()).Return(errors.New("miss"))
		c.EXPECT().Save(gomock.Any(), "dashboard:get:2030-06-01", gomock.Any(), 60).Return(nil).AnyTimes()
		repo.EXPECT().
			Counters(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, w model.Window) (model.Counters, error) {
				assert.Equal(t, "2030-06-01", stay.FormatDay(w.Day))
				assert.True(t, w.From.Before(w.To))

				return model.Counters{NewBookings: 3, Incoming: 2, Outgoing: 1, Invoiced: 450, Occupied: 2, Rooms: 4}, nil
			})

		res, err := svc.Get(context.Background(), "2030-06-01")

		require.NoError(t, err)
		assert.Equal(t, dto.DashboardResponse{
			CurrentDate:    "2030-06-01",
			NewBookings:    3,
			IncomingGuests: 2,
			OutgoingGuests: 1,
			Invoiced:       450,
			OccupancyRate:  50,
			Rooms:          4,
			OccupiedRooms:  2,
		}, res)
	})

	t.Run("empty hotel reports zero occupancy", func(t *testing.T) {
		svc, repo, c := setup(t)

		c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		c.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		repo.EXPECT().Counters(gomock.Any(), gomock.Any()).Return(model.Counters{}, nil)

		res, err := svc.Get(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, 0, res.OccupancyRate)
		assert.Equal(t, stay.FormatDay(stay.Today()), res.CurrentDate)
	})

	t.Run("cache hit", func(t *testing.T) {
		svc, _, c := setup(t)

		c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Get(context.Background(), "2030-06-01")

		require.NoError(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo, c := setup(t)

		c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Counters(gomock.Any(), gomock.Any()).Return(model.Counters{}, errors.New("boom"))

		_, err := svc.Get(context.Background(), "2030-06-01")

		require.Error(t, err)
	})
}

func TestDashboardService_Invalidate(t *testing.T) {
	svc, _, c := setup(t)

	c.EXPECT().Clear(gomock.Any(), "dashboard:*").Return(nil)

	svc.Invalidate(context.Background())
}

func TestWindowOf(t *testing.T) {
	today := stay.FormatDay(stay.Today())

	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "valid date", date: "2024-02-29", want: "2024-02-29"},
		{name: "padded date", date: " 2024-02-29 ", want: "2024-02-29"},
		{name: "empty falls back to today", date: "", want: today},
		{name: "garbage falls back to today", date: "yesterday", want: today},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := service.WindowOf(tt.date)

			assert.Equal(t, tt.want, stay.FormatDay(w.Day))
			assert.Equal(t, tt.want, w.From.Format("2006-01-02"))
			assert.Equal(t, tt.want, w.To.Format("2006-01-02"))
			assert.Zero(t, w.From.Hour())
			assert.True(t, w.To.After(w.From))
		})
	}
}
