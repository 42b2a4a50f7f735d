package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/apecglobal/logofield/pkg/layout"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "logofield"
	DefaultCollection = "layouts"
)

// MongoStore keeps pins in a MongoDB collection, one document per tenant
// keyed by the tenant name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type pinDocument struct {
	Tenant   string        `bson:"_id"`
	Layout   layout.Layout `bson:"layout"`
	PinnedAt time.Time     `bson:"pinned_at"`
}

// NewMongoStore connects to uri, pings the primary and returns a store on
// database.layouts. An empty database selects DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, tenant string) (layout.Layout, error) {
	var doc pinDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": tenant}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return layout.Layout{}, ErrNotFound
	}
	if err != nil {
		return layout.Layout{}, fmt.Errorf("find pin %s: %w", tenant, err)
	}
	return doc.Layout, nil
}

func (s *MongoStore) Pin(ctx context.Context, l layout.Layout) error {
	l, err := prepare(l)
	if err != nil {
		return err
	}
	doc := pinDocument{Tenant: l.Tenant, Layout: l, PinnedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": l.Tenant}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert pin %s: %w", l.Tenant, err)
	}
	return nil
}

func (s *MongoStore) Unpin(ctx context.Context, tenant string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": tenant})
	if err != nil {
		return fmt.Errorf("delete pin %s: %w", tenant, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]layout.Layout, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	var docs []pinDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pins: %w", err)
	}
	out := make([]layout.Layout, len(docs))
	for i, d := range docs {
		out[i] = d.Layout
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
