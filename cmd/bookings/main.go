package main

import (
	"context"

	"slotbook/internal/bookings/calendar"
	"slotbook/internal/bookings/capacity"
	"slotbook/internal/bookings/draft"
	"slotbook/internal/bookings/engine"
	"slotbook/internal/bookings/handler"
	"slotbook/internal/bookings/service"
	"slotbook/internal/bookings/store"
	"slotbook/internal/bookings/validator"
	"slotbook/pkg/app"
	"slotbook/pkg/config"
	"slotbook/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	bookingStore := store.NewMongoStore(cfg)

	// The reconciliation engine is the only reader of the store's change
	// feed. If the initial subscription fails the service cannot serve
	// truthful slot occupancy, so failing to start is the right outcome.
	eng := engine.New(cfg.Log)
	unsubscribe, err := eng.Run(context.Background(), bookingStore)
	if err != nil {
		cfg.Log.Fatal("Failed to subscribe to booking changes", "error", err)
	}

	publisher := initPublisher(cfg)
	bookingService := initServices(cfg, bookingStore, eng, publisher)
	draftStore := draft.NewStore(cfg.DraftFilePath, cfg.Log.Component("draft"))

	serverApp := app.NewApplication(cfg,
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewCalendarHandler(bookingService, cfg.Log),
		handler.NewDraftHandler(draftStore, cfg.Log),
	)
	serverApp.OnShutdown(unsubscribe)
	if publisher != nil {
		serverApp.OnShutdown(func() {
			if err := publisher.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		})
	}

	serverApp.Run()
}

func initPublisher(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Event publishing disabled, no Kafka brokers configured")
		return nil
	}

	publisher, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic, cfg.Log.Component("kafka"))
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	cfg.Log.Info("Event publishing enabled", "topic", cfg.KafkaEventsTopic)
	return publisher
}

func initServices(cfg *config.Config, st store.Store, eng *engine.Engine, publisher *kafka.Producer) *service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	allocator := capacity.NewAllocator(cfg.SlotCapacity)
	aggregator := calendar.NewAggregator(allocator)

	// A typed nil *kafka.Producer must not reach the service as a
	// non-nil Publisher interface.
	var pub service.Publisher
	if publisher != nil {
		pub = publisher
	}

	bookingService := service.NewBookingService(
		st,
		eng,
		allocator,
		aggregator,
		bookingValidator,
		pub,
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"slot_capacity", cfg.SlotCapacity,
	)
	return bookingService
}
