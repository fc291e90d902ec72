package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/otel/mocks"
	cacheMocks "pms/shared/cache/mocks"
	"pms/transport/http/middleware"
)

func limited(t *testing.T, enabled bool) (http.Handler, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)
	c := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enabled
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	m := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, c)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	return m.Tracing(m.RateLimit()(ok)), c
}

func serve(h http.Handler, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h, _ := limited(t, false)

		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1").Code)
	})

	t.Run("within the window", func(t *testing.T) {
		h, c := limited(t, true)

		c.EXPECT().Incr(gomock.Any(), "limiter:10.0.0.1:unknown", 60).Return(int64(2), nil)

		rec := serve(h, "10.0.0.1, 172.16.0.1")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("over the limit", func(t *testing.T) {
		h, c := limited(t, true)

		c.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil)

		assert.Equal(t, http.StatusTooManyRequests, serve(h, "10.0.0.1").Code)
	})

	t.Run("cache failure lets the request through", func(t *testing.T) {
		h, c := limited(t, true)

		c.EXPECT().Incr(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1").Code)
	})
}
