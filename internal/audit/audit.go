// Package audit keeps a trail of admin actions on the catalog and order log.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/ordenes-mesa/internal/config"
)

const (
	ActionLogin       = "login"
	ActionLogout      = "logout"
	ActionReset       = "credential.reset"
	ActionFoodAdd     = "food.add"
	ActionFoodUpdate  = "food.update"
	ActionFoodDelete  = "food.delete"
	ActionOrdersClear = "orders.clear"
)

const defaultLimit = 50

// Entry is one recorded admin action.
// swagger:model AuditEntry
type Entry struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Service   string    `bson:"service" json:"service"`
	Action    string    `bson:"action" json:"action"`
	EntityID  string    `bson:"entity_id" json:"entity_id"`
	Data      bson.M    `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, entityID string, limit int64) ([]*Entry, error)
	Close(ctx context.Context) error
}

// Mongo stores entries in one collection, newest read first.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

func (m *Mongo) Record(ctx context.Context, e *Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e.CreatedAt = m.now().UTC()
	_, err := m.coll.InsertOne(ctx, e)
	return err
}

// List returns the latest entries, optionally for one entity.
func (m *Mongo) List(ctx context.Context, entityID string, limit int64) ([]*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if entityID != "" {
		filter["entity_id"] = entityID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(normLimit(limit))

	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*Entry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Nop records nothing. Used when no Mongo URI is configured.
type Nop struct{}

func (Nop) Record(context.Context, *Entry) error { return nil }

func (Nop) List(context.Context, string, int64) ([]*Entry, error) { return []*Entry{}, nil }

func (Nop) Close(context.Context) error { return nil }

// Open returns a Mongo recorder when a URI is configured and Nop otherwise.
func Open(ctx context.Context, cfg config.MongoConfig) (Recorder, error) {
	if cfg.URI == "" {
		return Nop{}, nil
	}
	return NewMongo(ctx, cfg)
}

func normLimit(limit int64) int64 {
	if limit <= 0 || limit > 500 {
		return defaultLimit
	}
	return limit
}
