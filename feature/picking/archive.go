package picking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"pick-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrRecordNotFound is returned when no archived record exists for a session.
var ErrRecordNotFound = errors.New("archived session not found")

// Archiver stores closed session records as JSON objects.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
}

// NewArchiver creates an archiver writing under prefix in bucket.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object name of a session record.
func (a *Archiver) Key(orderID, sessionID string) string {
	return path.Join(a.prefix, orderID, sessionID+".json")
}

// Archive uploads the record and returns its object name.
func (a *Archiver) Archive(ctx context.Context, record SessionRecord) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session %s: %w", record.SessionID, err)
	}

	key := a.Key(record.OrderID, record.SessionID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Fetch downloads and decodes an archived record.
func (a *Archiver) Fetch(ctx context.Context, orderID, sessionID string) (SessionRecord, error) {
	var record SessionRecord

	key := a.Key(orderID, sessionID)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return record, fetchError(key, "get", err)
	}
	defer obj.Close()

	// minio reports a missing object on the first read, not on GetObject.
	if err := json.NewDecoder(obj).Decode(&record); err != nil {
		return record, fetchError(key, "decode", err)
	}
	return record, nil
}

func fetchError(key, op string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}
	return fmt.Errorf("failed to %s %s: %w", op, key, err)
}

// List returns the object names archived for an order.
func (a *Archiver) List(ctx context.Context, orderID string) ([]string, error) {
	var keys []string
	opts := minio.ListObjectsOptions{Prefix: path.Join(a.prefix, orderID) + "/", Recursive: true}
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
