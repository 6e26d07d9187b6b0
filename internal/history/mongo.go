package history

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection runs are stored in.
const MongoCollection = "runs"

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and prepares the runs collection of dbName.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	coll := client.Database(dbName).Collection(MongoCollection)
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "started_at", Value: -1}},
	}
	if _, err := coll.Indexes().CreateOne(connectCtx, index); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create started_at index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Add inserts r.
func (s *MongoStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "started_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}
	for i := range records {
		records[i].StartedAt = records[i].StartedAt.UTC()
	}
	return records, nil
}

// Summary aggregates every stored run server-side.
func (s *MongoStore) Summary(ctx context.Context) (Summary, error) {
	countIf := func(cond any) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{cond, 1, 0}}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "runs", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "cracked", Value: countIf("$cracked")},
			{Key: "cancelled", Value: countIf(bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$not", Value: bson.A{"$cracked"}}},
				"$cancelled",
			}}})},
			{Key: "attempts", Value: bson.D{{Key: "$sum", Value: "$attempts"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize runs: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Runs      int   `bson:"runs"`
		Cracked   int   `bson:"cracked"`
		Cancelled int   `bson:"cancelled"`
		Attempts  int64 `bson:"attempts"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return Summary{}, fmt.Errorf("failed to decode summary: %w", err)
	}

	var sum Summary
	if len(rows) > 0 {
		sum.Runs = rows[0].Runs
		sum.Cracked = rows[0].Cracked
		sum.Cancelled = rows[0].Cancelled
		sum.TotalAttempts = rows[0].Attempts
		sum.Exhausted = sum.Runs - sum.Cracked - sum.Cancelled
	}
	sum.finish()
	return sum, nil
}

// Clear deletes every run.
func (s *MongoStore) Clear(ctx context.Context) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	return int(res.DeletedCount), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
