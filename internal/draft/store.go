// Package draft keeps program builder state in Redis between requests.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const keyPrefix = "draft:"

var ErrDraftNotFound = errors.New("draft not found or expired")

// Store persists builder snapshots per coach with a sliding TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(coachID primitive.ObjectID, id string) string {
	return keyPrefix + coachID.Hex() + ":" + id
}

// Create stores a new snapshot and returns its draft id.
func (s *Store) Create(ctx context.Context, coachID primitive.ObjectID, snap builder.Snapshot) (string, error) {
	id := ulid.Make().String()
	if err := s.put(ctx, key(coachID, id), snap); err != nil {
		return "", err
	}
	return id, nil
}

// Load returns the snapshot of a coach's draft and refreshes its TTL.
func (s *Store) Load(ctx context.Context, coachID primitive.ObjectID, id string) (builder.Snapshot, error) {
	k := key(coachID, id)
	data, err := s.client.GetEx(ctx, k, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return builder.Snapshot{}, ErrDraftNotFound
		}
		return builder.Snapshot{}, fmt.Errorf("failed to load draft: %w", err)
	}

	var snap builder.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return builder.Snapshot{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return snap, nil
}

// Save overwrites an existing draft. A draft that expired in the meantime is
// not resurrected.
func (s *Store) Save(ctx context.Context, coachID primitive.ObjectID, id string, snap builder.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	ok, err := s.client.SetXX(ctx, key(coachID, id), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	if !ok {
		return ErrDraftNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, coachID primitive.ObjectID, id string) error {
	n, err := s.client.Del(ctx, key(coachID, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (s *Store) put(ctx context.Context, k string, snap builder.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, k, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}
