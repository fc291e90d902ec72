package room_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/infras/otel/mocks"
	roomMocks "pms/internal/domains/room/mocks"
	"pms/internal/domains/room/model/dto"
	"pms/internal/domains/room/service"
	"pms/internal/handlers/room"
)

func setup(t *testing.T) (http.Handler, *roomMocks.MockRoomService) {
	ctrl := gomock.NewController(t)
	svc := roomMocks.NewMockRoomService(ctrl)

	handler := room.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestHandler_CreateRoom(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, svc := setup(t)

		svc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req dto.CreateRoomRequest) (dto.RoomResponse, error) {
				assert.Equal(t, "Room 101", req.Name)
				assert.Equal(t, "Sea view", req.Description)
				assert.Nil(t, req.Image)

				return dto.RoomResponse{ID: "r1", Name: req.Name}, nil
			})

		body, contentType := multipartBody(t, map[string]string{"name": "Room 101", "description": "Sea view"})
		req := httptest.NewRequest(http.MethodPost, "/rooms/", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"r1"`)
	})

	t.Run("name required", func(t *testing.T) {
		h, _ := setup(t)

		body, contentType := multipartBody(t, map[string]string{"description": "Sea view"})
		req := httptest.NewRequest(http.MethodPost, "/rooms/", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UpdateRoom_KeepsDescriptionWhenAbsent(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().
		Update(gomock.Any(), gomock.Any(), "r1").
		DoAndReturn(func(_ any, req dto.UpdateRoomRequest, _ string) error {
			assert.Equal(t, "Room 102", req.Name)
			assert.Nil(t, req.Description)

			return nil
		})

	body, contentType := multipartBody(t, map[string]string{"name": "Room 102"})
	req := httptest.NewRequest(http.MethodPatch, "/rooms/r1", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_GetRoomByID_NotFoundGoesHome(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.RoomDetailResponse{}, service.ErrRoomNotFound)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/"`)
}

func TestHandler_SearchRooms(t *testing.T) {
	h, svc := setup(t)

	svc.EXPECT().
		Search(gomock.Any(), dto.SearchRoomsRequest{Checkin: "2030-01-01", Checkout: "2030-01-03", Guests: 2}).
		Return(dto.SearchRoomsResponse{Nights: 2}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rooms/search",
		strings.NewReader(`{"checkin":"2030-01-01","checkout":"2030-01-03","guests":2}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nights":2`)
}
