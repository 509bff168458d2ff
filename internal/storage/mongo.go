package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "focusCrawl"
	mongoCollection = "pages"
)

// Mongo stores records as documents. With an empty URI it is a no-op sink.
type Mongo struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		return &Mongo{}, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{
		Client:     client,
		Collection: client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *Mongo) Write(ctx context.Context, r Record) error {
	if s.Client == nil {
		return nil
	}
	res, err := s.Collection.InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("mongo insert %s: %w", r.URL, err)
	}
	logrus.WithField("id", res.InsertedID).Debug("mongo insert")
	return nil
}

func (s *Mongo) Close() error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(context.Background())
}
