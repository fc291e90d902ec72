package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Room=MockRoomService

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"pms/config"
	"pms/infras/otel"
	"pms/infras/s3"
	bookingModel "pms/internal/domains/booking/model"
	bookingDto "pms/internal/domains/booking/model/dto"
	bookingRepository "pms/internal/domains/booking/repository"
	"pms/internal/domains/room/model"
	"pms/internal/domains/room/model/dto"
	"pms/internal/domains/room/repository"
	"pms/shared"
	"pms/shared/cache"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	gRepo "pms/shared/repository"
	"pms/shared/stay"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	cacheGetRoom  = shared.BuildCacheKey(constant.CachePrefixRoom, "get")
	cacheListRoom = shared.BuildCacheKey(constant.CachePrefixRoom, "list")

	ErrRoomNotFound     = failure.NotFound("room not found")
	ErrUnknownRoomType  = &failure.Failure{Code: http.StatusBadRequest, Message: "The selected room type does not exist."}
	bookingsOfRoomOrder = gDto.QueryParams{SortBy: bookingModel.TableName + "." + bookingModel.FieldCheckin, SortDir: gDto.SortDirDesc}
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, search string) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id string) (dto.RoomDetailResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, req dto.SearchRoomsRequest) (dto.SearchRoomsResponse, error)
}

type serviceImpl struct {
	repo        repository.Room
	bookingRepo bookingRepository.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Room, bookingRepo bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	imageURL, objectName, err := s.upload(ctx, req.Image)
	if err != nil {
		return res, err
	}

	room := req.ToModel(imageURL)

	if err = s.repo.Insert(ctx, room); err != nil {
		s.discard(ctx, objectName)

		if gRepo.IsForeignKeyViolation(err) {
			return res, ErrUnknownRoomType
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), constant.Empty, true)

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, search string) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.SortDir == constant.Empty {
		req.SortDir = gDto.SortDirAsc
	}

	req.RestrictSort(model.FieldName, model.FieldName, constant.FieldCreatedAt)
	req.SortBy = model.TableName + "." + req.SortBy

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if search = strings.TrimSpace(search); search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldName,
			Value:    search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheListRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

// Get returns the room and all of its bookings. Only the room part is cached.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.RoomResponse, err = s.getRoom(ctx, id)
	if err != nil {
		return res, err
	}

	bookings, err := s.bookingRepo.GetAll(ctx, bookingsOfRoomOrder, shared.FilterByID(id, bookingModel.FieldRoomID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings of room")

		return res, fmt.Errorf("failed to get bookings of room: %w", err)
	}

	res.Bookings = bookingDto.FromModels(bookings)

	today := stay.Today()
	for _, b := range bookings {
		if b.Active() && b.Stay().Covers(today) {
			res.OccupiedToday = true

			break
		}
	}

	return res, nil
}

func (s *serviceImpl) getRoom(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, ErrRoomNotFound
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImage)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if current.ID == constant.Empty {
		return ErrRoomNotFound
	}

	imageURL, objectName, err := s.upload(ctx, req.Image)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		s.discard(ctx, objectName)

		if gRepo.IsForeignKeyViolation(err) {
			return ErrUnknownRoomType
		}

		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	if imageURL != constant.Empty && current.Image != constant.Empty {
		s.discard(ctx, s.s3.GetObjectNameFromURL(model.EntityName, current.Image))
	}

	go s.invalidate(context.WithoutCancel(ctx), id, false)

	return nil
}

// Delete removes the room. Its bookings stay on record without a room.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImage)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if current.ID == constant.Empty {
		return ErrRoomNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if current.Image != constant.Empty {
		s.discard(ctx, s.s3.GetObjectNameFromURL(model.EntityName, current.Image))
	}

	go s.invalidate(context.WithoutCancel(ctx), id, true)

	return nil
}

// Search lists the rooms able to host req.Guests for the whole stay, cheapest capacity first.
func (s *serviceImpl) Search(ctx context.Context, req dto.SearchRoomsRequest) (res dto.SearchRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	r, err := stay.Parse(req.Checkin, req.Checkout)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	rooms, err := s.repo.SearchAvailable(ctx, r, req.Guests)
	if err != nil {
		log.Error().Err(err).Msg("failed to search available rooms")

		return res, fmt.Errorf("failed to search available rooms: %w", err)
	}

	res.Checkin = stay.FormatDay(r.Checkin)
	res.Checkout = stay.FormatDay(r.Checkout)
	res.Guests = req.Guests
	res.FromModels(rooms, r.Nights())

	return res, nil
}

// upload stores the photo under a random name, keeping its extension.
func (s *serviceImpl) upload(ctx context.Context, image *multipart.FileHeader) (url, objectName string, err error) {
	if image == nil {
		return constant.Empty, constant.Empty, nil
	}

	objectName = uuid.NewString() + strings.ToLower(path.Ext(image.Filename))

	url, err = s.s3.UploadFile(ctx, model.EntityName, image, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, objectName, nil
}

func (s *serviceImpl) discard(ctx context.Context, objectName string) {
	if objectName == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, model.EntityName, objectName); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to delete room image")
	}
}

// invalidate drops cached rooms. The dashboard is cleared too when the room count changed.
func (s *serviceImpl) invalidate(ctx context.Context, id string, roomCountChanged bool) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheListRoom)

	if roomCountChanged {
		shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixDashboard)
	}
}
