package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// Two concurrent occupants per (date, slot). Advisory: enforced against
	// the local snapshot at admission time, not transactionally at the store.
	DefaultSlotCapacity = 2

	DefaultDraftFilePath = "bookingDraft.json"

	// Empty brokers disable event publishing entirely.
	DefaultKafkaBrokers     = ""
	DefaultKafkaEventsTopic = "booking-events"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
