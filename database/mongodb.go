package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/docrag/docrag-be/config"
	"github.com/docrag/docrag-be/types"
)

// MongoBlobStore keeps the raw PDF files in GridFS buckets. A container name
// maps to a bucket name.
type MongoBlobStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func NewMongoBlobStore(ctx context.Context, cfg config.StorageConfig, timeout time.Duration) (*MongoBlobStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoBlobStore{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: timeout,
	}, nil
}

type gridFile struct {
	ID     interface{} `bson:"_id"`
	Name   string      `bson:"filename"`
	Length int64       `bson:"length"`
}

func (s *MongoBlobStore) bucket(container string) *mongo.GridFSBucket {
	return s.db.GridFSBucket(options.GridFSBucket().SetName(container))
}

// List returns name and size of every blob in the container.
func (s *MongoBlobStore) List(ctx context.Context, container string) ([]types.BlobInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.bucket(container).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs in %s: %w", container, err)
	}
	defer cursor.Close(ctx)

	var blobs []types.BlobInfo
	for cursor.Next(ctx) {
		var file gridFile
		if err := cursor.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode blob entry: %w", err)
		}
		blobs = append(blobs, types.BlobInfo{
			Name: file.Name,
			Size: file.Length,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list blobs in %s: %w", container, err)
	}
	return blobs, nil
}

// Download reads a blob into memory.
func (s *MongoBlobStore) Download(ctx context.Context, container, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stream, err := s.bucket(container).OpenDownloadStreamByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", name, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Upload stores a blob. With overwrite set, an existing blob of the same name
// is removed first; without it, a duplicate name is an error.
func (s *MongoBlobStore) Upload(ctx context.Context, container, name string, data []byte, overwrite bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bucket := s.bucket(container)

	existing, err := s.findFile(ctx, container, name)
	if err != nil && !errors.Is(err, mongo.ErrFileNotFound) {
		return err
	}
	if existing != nil {
		if !overwrite {
			return fmt.Errorf("blob %s already exists in %s", name, container)
		}
		if err := bucket.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to replace blob %s: %w", name, err)
		}
	}

	if _, err := bucket.UploadFromStream(ctx, name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", name, err)
	}
	return nil
}

// Delete removes a blob.
func (s *MongoBlobStore) Delete(ctx context.Context, container, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	file, err := s.findFile(ctx, container, name)
	if err != nil {
		return err
	}
	if err := s.bucket(container).Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

func (s *MongoBlobStore) findFile(ctx context.Context, container, name string) (*gridFile, error) {
	cursor, err := s.bucket(container).Find(ctx, bson.D{{Key: "filename", Value: name}})
	if err != nil {
		return nil, fmt.Errorf("failed to look up blob %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to look up blob %s: %w", name, err)
		}
		return nil, mongo.ErrFileNotFound
	}
	var file gridFile
	if err := cursor.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode blob entry: %w", err)
	}
	return &file, nil
}

// Disconnect releases the underlying client.
func (s *MongoBlobStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
