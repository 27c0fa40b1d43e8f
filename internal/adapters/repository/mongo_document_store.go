package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*MongoDocumentStore)(nil)

const documentsCollection = "documents"

type mongoDocument struct {
	OwnerID   string    `bson:"owner_id"`
	Key       string    `bson:"key"`
	Data      []byte    `bson:"data"`
	Version   int       `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoDocumentStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo opens the client and makes sure the (owner_id, key) pair is
// unique, which is what turns a concurrent first write into a conflict.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoDocumentStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	coll := client.Database(dbName).Collection(documentsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "key", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error creating document index: %w", err)
	}

	return &MongoDocumentStore{client: client, coll: coll}, nil
}

func (s *MongoDocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoDocumentStore) Get(ctx context.Context, ownerID, key string) (*domain.Document, error) {
	var stored mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"owner_id": ownerID, "key": key}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		OwnerID:   stored.OwnerID,
		Key:       stored.Key,
		Data:      stored.Data,
		Version:   stored.Version,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (s *MongoDocumentStore) Put(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()

	if doc.Version == 0 {
		_, err := s.coll.InsertOne(ctx, mongoDocument{
			OwnerID:   doc.OwnerID,
			Key:       doc.Key,
			Data:      doc.Data,
			Version:   1,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDocumentConflict
		}
		if err != nil {
			return err
		}
	} else {
		res, err := s.coll.UpdateOne(ctx,
			bson.M{"owner_id": doc.OwnerID, "key": doc.Key, "version": doc.Version},
			bson.M{"$set": bson.M{"data": doc.Data, "version": doc.Version + 1, "updated_at": now}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrDocumentConflict
		}
	}

	doc.Version++
	doc.UpdatedAt = now
	return nil
}

func (s *MongoDocumentStore) Delete(ctx context.Context, ownerID, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"owner_id": ownerID, "key": key})
	return err
}
