package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

const (
	CollectionName = "Bookings"
)

// mongoStore keeps ids as ObjectID hex strings assigned before insert, so
// records round-trip through the string-typed model without a custom codec.
type mongoStore struct {
	cfg        *config.Config
	collection *mongo.Collection
	log        *logger.Logger
	now        func() time.Time
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStore{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		log:        cfg.Log.Component("store"),
		now:        time.Now,
	}
}

func (s *mongoStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *mongoStore) Create(ctx context.Context, draft *model.BookingDraft) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	booking := model.Booking{
		ID:        primitive.NewObjectID().Hex(),
		Name:      draft.Name,
		Team:      draft.Team,
		Date:      draft.Date,
		Slot:      draft.Slot,
		CreatedAt: s.timestamp(),
	}

	if _, err := s.collection.InsertOne(ctx, booking); err != nil {
		return "", NewStoreError("create", err)
	}

	s.log.Info("Booking created", "id", booking.ID, "date", booking.Date, "slot", booking.Slot)
	return booking.ID, nil
}

func (s *mongoStore) Update(ctx context.Context, id string, patch *model.BookingPatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{"updated_at": s.timestamp()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Team != nil {
		set["team"] = *patch.Team
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Slot != nil {
		set["slot"] = *patch.Slot
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return NewStoreError("update", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	s.log.Info("Booking updated", "id", id)
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return NewStoreError("delete", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	s.log.Info("Booking deleted", "id", id)
	return nil
}

// fetchAll reads the entire collection. There is no server-side filtering
// anywhere: the dataset is a single facility's bookings and every consumer
// works from the full set.
func (s *mongoStore) fetchAll(ctx context.Context) ([]model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (s *mongoStore) Subscribe(ctx context.Context, onChange ChangeHandler, onError ErrorHandler) (Unsubscribe, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := s.collection.Watch(streamCtx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, NewStoreError("subscribe", err)
	}

	initial, err := s.fetchAll(streamCtx)
	if err != nil {
		cancel()
		_ = stream.Close(context.Background())
		return nil, NewStoreError("subscribe", err)
	}

	// The delivery mutex guarantees that once Unsubscribe returns, no
	// further onChange or onError call is in flight.
	var mu sync.Mutex
	closed := false

	deliver := func(set []model.Booking) {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			onChange(set)
		}
	}
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			onError(err)
		}
	}

	deliver(initial)

	go func() {
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			// The event itself is discarded: the contract is full-set
			// delivery, so each event just triggers a refetch.
			set, err := s.fetchAll(streamCtx)
			if err != nil {
				if streamCtx.Err() != nil {
					return
				}
				fail(NewStoreError("refetch", err))
				continue
			}
			deliver(set)
		}

		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.Error("Change stream terminated", "error", err, "kind", Classify(err).String())
			fail(NewStoreError("watch", err))
		}
	}()

	unsubscribe := func() {
		mu.Lock()
		closed = true
		mu.Unlock()
		cancel()
	}

	return unsubscribe, nil
}
