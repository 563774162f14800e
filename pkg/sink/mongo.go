package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/latticetile/pkg/solver"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "latticetile"
	DefaultMongoCollection = "solutions"

	// mongoBatch is the number of documents buffered before an insert.
	mongoBatch = 256
)

// MongoConfig configures a [Mongo] sink.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	// RunID and Puzzle are stored with every document.
	RunID  string
	Puzzle string
}

// Mongo stores solutions in a MongoDB collection, one document each.
// Documents are buffered and inserted in batches; Close flushes the rest and
// disconnects.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	cfg    MongoConfig
	buf    []any
}

// mongoDocument is the stored form of a solution.
type mongoDocument struct {
	RunID      string           `bson:"run_id"`
	Puzzle     string           `bson:"puzzle"`
	Index      int              `bson:"index"`
	Text       string           `bson:"text"`
	Placements []mongoPlacement `bson:"placements"`
	CreatedAt  time.Time        `bson:"created_at"`
}

type mongoPlacement struct {
	Symbol string `bson:"symbol"`
	Name   string `bson:"name,omitempty"`
	Anchor int    `bson:"anchor"`
	Config int    `bson:"config"`
	Sites  []int  `bson:"sites"`
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "index", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Mongo{client: client, coll: coll, cfg: cfg}, nil
}

func (m *Mongo) Write(ctx context.Context, sol solver.Solution) error {
	m.buf = append(m.buf, newMongoDocument(m.cfg, sol, time.Now().UTC()))
	if len(m.buf) >= mongoBatch {
		return m.flush(ctx)
	}
	return nil
}

func (m *Mongo) flush(ctx context.Context) error {
	if len(m.buf) == 0 {
		return nil
	}
	if _, err := m.coll.InsertMany(ctx, m.buf); err != nil {
		return fmt.Errorf("insert %d solutions: %w", len(m.buf), err)
	}
	m.buf = m.buf[:0]
	return nil
}

// Close flushes buffered documents and disconnects.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := m.flush(ctx)
	if derr := m.client.Disconnect(ctx); err == nil {
		err = derr
	}
	return err
}

func newMongoDocument(cfg MongoConfig, sol solver.Solution, now time.Time) mongoDocument {
	doc := mongoDocument{
		RunID:      cfg.RunID,
		Puzzle:     cfg.Puzzle,
		Index:      sol.Index,
		Text:       sol.Text,
		Placements: make([]mongoPlacement, len(sol.Placements)),
		CreatedAt:  now,
	}
	for i, p := range sol.Placements {
		doc.Placements[i] = mongoPlacement{
			Symbol: string(p.Symbol),
			Name:   p.Name,
			Anchor: p.Anchor,
			Config: p.Config,
			Sites:  p.Sites,
		}
	}
	return doc
}
