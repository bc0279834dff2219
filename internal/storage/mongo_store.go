package storage

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
	"tourvisto/internal/models"
	"tourvisto/internal/structures"
)

type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	trips   *mongo.Collection
	timeout time.Duration
}

// Connect opens the client and verifies the server answers a ping.
func Connect(ctx context.Context, conf structures.MongoConfig) (*mongo.Client, error) {
	if conf.URI == "" {
		return nil, errors.New("mongo connection URI is empty")
	}

	clientOptions := options.Client().ApplyURI(conf.URI).
		SetMaxPoolSize(50).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func NewMongoStore(client *mongo.Client, conf structures.MongoConfig) *MongoStore {
	db := client.Database(conf.Database)
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoStore{
		client:  client,
		users:   db.Collection(conf.UsersCollection),
		trips:   db.Collection(conf.TripsCollection),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique accountId index that makes user creation
// exclusive, plus lookup indexes used by listings.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "accountId", Value: 1}},
		Options: options.Index().SetName("users_account_id").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "joinedAt", Value: 1}},
		Options: options.Index().SetName("users_joined_at"),
	}); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if _, err := s.trips.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("trips_user_created_at"),
	}); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func filterDoc(q Query) bson.D {
	filter := bson.D{}
	for _, f := range q.Filters {
		field := f.Field
		if field == "id" {
			field = "_id"
		}
		filter = append(filter, bson.E{Key: field, Value: f.Value})
	}
	return filter
}

func findOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}

func list[T any](ctx context.Context, coll *mongo.Collection, q Query) ([]*T, int, error) {
	filter := filterDoc(q)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}

	cursor, err := coll.Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, int(total), nil
}

func (s *MongoStore) ListUsers(ctx context.Context, q Query) (*models.UserList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users, total, err := list[models.UserDocument](ctx, s.users, q)
	if err != nil {
		return nil, err
	}
	return &models.UserList{Users: users, Total: total}, nil
}

func (s *MongoStore) ListTrips(ctx context.Context, q Query) (*models.TripList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	trips, total, err := list[models.TripDocument](ctx, s.trips, q)
	if err != nil {
		return nil, err
	}
	return &models.TripList{Trips: trips, Total: total}, nil
}

func (s *MongoStore) GetTrip(ctx context.Context, id string) (*models.TripDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var trip models.TripDocument
	err := s.trips.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&trip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find trip %s: %w", id, err)
	}
	return &trip, nil
}

func (s *MongoStore) CreateTrip(ctx context.Context, trip *models.TripDocument) error {
	if err := trip.Validate(); err != nil {
		return fmt.Errorf("invalid trip document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.trips.InsertOne(ctx, trip); err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertUserIfAbsent(ctx context.Context, user *models.UserDocument) (*models.UserDocument, bool, error) {
	if err := user.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid user document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.users.InsertOne(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}

	var existing models.UserDocument
	err = s.users.FindOne(ctx, bson.D{{Key: "accountId", Value: user.AccountID}}).Decode(&existing)
	if err != nil {
		return nil, false, fmt.Errorf("load existing user %s: %w", user.AccountID, err)
	}
	return &existing, false, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
