package event

import (
	"context"
	"pms/config"
	"pms/infras/kafka"
	"pms/infras/otel"
	"pms/internal/domains/booking/model/dto"
	dashboardService "pms/internal/domains/dashboard/service"
	"pms/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Handler consumes booking events and keeps derived read models fresh.
type Handler struct {
	dashboard dashboardService.Dashboard
	kafka     kafka.Client
	cfg       *config.Config
	otel      otel.Otel
}

func New(dashboard dashboardService.Dashboard, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		dashboard: dashboard,
		kafka:     kafka,
		cfg:       cfg,
		otel:      otel,
	}
}

// Run blocks consuming the booking topic until ctx is done.
func (handler *Handler) Run(ctx context.Context) error {
	log.Info().Str("topic", handler.cfg.Kafka.Topics.BookingEvents).Msg("Consuming booking events")

	return handler.kafka.Consume(ctx, handler.cfg.Kafka.ConsumerGroup, handler.cfg.Kafka.Topics.BookingEvents, handler.HandleBookingEvent) //nolint:wrapcheck
}

// HandleBookingEvent drops cached dashboards on any booking change. Unknown events are skipped.
func (handler *Handler) HandleBookingEvent(ctx context.Context, message kafkaGo.Message) error {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleBookingEvent")
	defer scope.End()

	name := kafka.EventOf(message)

	switch name {
	case dto.EventCreated, dto.EventCancelled, dto.EventRescheduled:
	default:
		log.Warn().Str("event", name).Msg("skipping unknown booking event")

		return nil
	}

	event, err := kafka.DecodeKafkaMessage[dto.Event](message)
	if err != nil {
		scope.TraceError(err)

		return err //nolint:wrapcheck
	}

	scope.SetAttribute("booking.code", event.Code)

	handler.dashboard.Invalidate(ctx)

	log.Info().Str("event", name).Str("booking", event.ID).Msg("dashboard invalidated")

	return nil
}
