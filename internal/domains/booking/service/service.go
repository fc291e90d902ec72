package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pms/config"
	"pms/infras/kafka"
	"pms/infras/otel"
	"pms/internal/domains/booking/model"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/repository"
	customerDto "pms/internal/domains/customer/model/dto"
	customerRepository "pms/internal/domains/customer/repository"
	customerService "pms/internal/domains/customer/service"
	roomModel "pms/internal/domains/room/model"
	roomRepository "pms/internal/domains/room/repository"
	"pms/shared"
	"pms/shared/cache"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	gRepo "pms/shared/repository"
	"pms/shared/stay"
	"pms/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	noAvailabilityMessage = "No availability for the selected dates"
	maxCodeAttempts       = 3
)

var errCodeTaken = errors.New("booking code already in use")

var (
	ErrBookingNotFound = failure.NotFound("booking not found")
	ErrRoomNotFound    = failure.NotFound("room not found")
	ErrRoomTaken       = &failure.Failure{Code: http.StatusConflict, Message: "Sorry! The room was just booked by another guest."}
	ErrNoAvailability  = &failure.Failure{Code: http.StatusConflict, Message: noAvailabilityMessage + "."}
	ErrRoomNotBookable = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "This room has no room type and cannot be booked."}
	ErrTooManyGuests   = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "The room cannot host that many guests."}
)

type Booking interface {
	Quote(ctx context.Context, roomID string, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Create(ctx context.Context, roomID string, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, search string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateDates(ctx context.Context, id string, req dto.UpdateDatesRequest) (dto.BookingResponse, error)
	UpdateCustomer(ctx context.Context, id string, req customerDto.UpdateCustomerRequest) error
	Cancel(ctx context.Context, id string) error
	IsAvailable(ctx context.Context, roomID string, r stay.Range, excludeID string) (bool, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepository.Room
	customerRepo customerRepository.Customer
	customers    customerService.Customer
	transactor   gRepo.Transactor
	cfg          *config.Config
	cache        cache.RedisCache
	kafka        kafka.Client
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	customerRepo customerRepository.Customer,
	customers customerService.Customer,
	transactor gRepo.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		customers:    customers,
		transactor:   transactor,
		cfg:          cfg,
		cache:        cache,
		kafka:        kafka,
		otel:         otel,
	}
}

// Quote prices a stay in a room before the guest confirms it.
func (s *serviceImpl) Quote(ctx context.Context, roomID string, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	r, err := stay.Parse(req.Checkin, req.Checkout)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if err = bookable(room, req.Guests); err != nil {
		return res, err
	}

	res.Available, err = s.IsAvailable(ctx, roomID, r, constant.Empty)
	if err != nil {
		return res, err
	}

	res.RoomID = room.ID
	res.RoomName = room.Name
	res.RoomTypeName = *room.RoomTypeName
	res.Checkin = stay.FormatDay(r.Checkin)
	res.Checkout = stay.FormatDay(r.Checkout)
	res.Guests = req.Guests
	res.Nights = r.Nights()
	res.Price = *room.Price
	res.Total = r.Total(*room.Price)

	return res, nil
}

// Create stores the guest and the booking together, or neither.
//
// Inside one transaction the room row is locked first, so concurrent bookings of the same
// room queue up behind each other; then the overlapping NEW bookings are locked and
// re-checked. A conflict rolls back the customer row as well. A booking code that collides
// with an existing one reruns the whole transaction under a fresh code.
func (s *serviceImpl) Create(ctx context.Context, roomID string, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	r, err := stay.Parse(req.Checkin, req.Checkout)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = r.NotPast(stay.Today()); err != nil {
		return res, err //nolint:wrapcheck
	}

	var (
		booking  model.Booking
		room     roomModel.Room
		customer = req.Customer.ToModel()
	)

	book := func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		room, err = s.roomRepo.LockOneTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if err = bookable(room, req.Guests); err != nil {
			return err
		}

		if err = s.customerRepo.InsertTx(ctx, tx, customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}

		taken, err := s.repo.LockTx(ctx, tx, repository.Overlapping(roomID, r, constant.Empty), model.FieldID)
		if err != nil {
			return fmt.Errorf("failed to lock overlapping bookings: %w", err)
		}

		if len(taken) > 0 {
			return ErrRoomTaken
		}

		booking = req.ToModel(roomID, customer.ID, r, r.Total(*room.Price))

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			if gRepo.IsExclusionViolation(err) {
				return ErrRoomTaken
			}

			if gRepo.IsUniqueViolation(err) {
				return errCodeTaken
			}

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	}

	for attempt := 1; ; attempt++ {
		err = s.transactor.WithinTransaction(ctx, book)
		if !errors.Is(err, errCodeTaken) || attempt == maxCodeAttempts {
			break
		}

		log.Warn().Int("attempt", attempt).Msg("booking code collided, retrying")
	}

	if err != nil {
		if !failure.IsFailure(err) {
			log.Error().Err(err).Msg("failed to create booking")
		}

		return res, err //nolint:wrapcheck
	}

	booking.RoomName = &room.Name
	booking.CustomerName = &customer.Name

	s.publish(ctx, dto.EventCreated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, search string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.RestrictSort(constant.FieldCreatedAt, constant.FieldCreatedAt, model.FieldCheckin, model.FieldCheckout, model.FieldCode)
	req.SortBy = model.TableName + "." + req.SortBy

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if search = strings.TrimSpace(search); search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: model.FieldCode, Value: search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "customer_name", Field: "name", Value: search, Operator: gDto.FilterOperatorLike, Table: "customers"},
			},
		})
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// UpdateDates moves a booking to new dates and reprices it. Checks run in a fixed order and
// the first failure wins: both dates present, both parseable, checkout after checkin, and
// no other NEW booking of the room overlapping. The booking never conflicts with itself.
func (s *serviceImpl) UpdateDates(ctx context.Context, id string, req dto.UpdateDatesRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateDates")
	defer scope.End()
	defer scope.TraceIfError(err)

	r, err := stay.Parse(req.Checkin, req.Checkout)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if current.RoomID == nil {
		return res, ErrRoomNotBookable
	}

	roomID := *current.RoomID
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	// Room first, then bookings: the same order Create takes its locks in.
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		room, err := s.roomRepo.LockOneTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty || !room.Bookable() {
			return ErrRoomNotBookable
		}

		locked, err := s.repo.LockOneTx(ctx, tx, filter, model.FieldID)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if locked.ID == constant.Empty {
			return ErrBookingNotFound
		}

		conflicts, err := s.repo.LockTx(ctx, tx, repository.Overlapping(roomID, r, id),
			model.FieldID, model.FieldCode, model.FieldCheckin, model.FieldCheckout)
		if err != nil {
			return fmt.Errorf("failed to lock overlapping bookings: %w", err)
		}

		if len(conflicts) > 0 {
			return noAvailability(conflicts[0])
		}

		total := r.Total(*room.Price)
		fields := map[string]any{
			model.FieldCheckin:       r.Checkin,
			model.FieldCheckout:      r.Checkout,
			model.FieldTotal:         total,
			constant.FieldModifiedAt: timezone.Now(),
		}

		if err = s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			if gRepo.IsExclusionViolation(err) {
				return ErrNoAvailability
			}

			return fmt.Errorf("failed to update booking dates: %w", err)
		}

		current, err = s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to reload booking: %w", err)
		}

		return nil
	})
	if err != nil {
		if !failure.IsFailure(err) {
			log.Error().Err(err).Msg("failed to update booking dates")
		}

		return res, err //nolint:wrapcheck
	}

	s.publish(ctx, dto.EventRescheduled, current)

	res.FromModel(current)

	return res, nil
}

// UpdateCustomer edits the guest attached to a booking.
func (s *serviceImpl) UpdateCustomer(ctx context.Context, id string, req customerDto.UpdateCustomerRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCustomer")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if booking.CustomerID == nil {
		return customerService.ErrCustomerNotFound
	}

	return s.customers.Update(ctx, req, *booking.CustomerID) //nolint:wrapcheck
}

// Cancel soft-deletes the booking: the row stays with state DEL. Cancelling twice is a no-op.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Active() {
		return nil
	}

	fields := map[string]any{
		model.FieldState:         model.StateDeleted,
		constant.FieldModifiedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.State = model.StateDeleted
	s.publish(ctx, dto.EventCancelled, booking)

	return nil
}

// IsAvailable reports whether no NEW booking of the room other than excludeID shares a night with r.
func (s *serviceImpl) IsAvailable(ctx context.Context, roomID string, r stay.Range, excludeID string) (ok bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	taken, err := s.repo.Exist(ctx, repository.Overlapping(roomID, r, excludeID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return !taken, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

// publish announces a committed change. Without Kafka the dashboard cache is dropped before
// returning, so the next dashboard read sees the write. With Kafka the worker drops it on
// receipt, and the dashboard may lag until then.
func (s *serviceImpl) publish(ctx context.Context, event string, booking model.Booking) {
	if !s.cfg.Kafka.Enable {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CachePrefixDashboard)

		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		var payload dto.Event
		payload.FromModel(booking)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{
			Key:   booking.ID,
			Event: event,
			Value: payload,
		})
		if err != nil {
			log.Error().Err(err).Str("event", event).Str("booking", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func bookable(room roomModel.Room, guests int) error {
	if room.ID == constant.Empty {
		return ErrRoomNotFound
	}

	if !room.Bookable() {
		return ErrRoomNotBookable
	}

	if guests > *room.MaxGuests {
		return ErrTooManyGuests
	}

	return nil
}

func noAvailability(conflict model.Booking) error {
	return failure.Conflict(fmt.Sprintf("%s (booking %s from %s to %s).",
		noAvailabilityMessage, conflict.Code, stay.FormatDay(conflict.Checkin), stay.FormatDay(conflict.Checkout)))
}
