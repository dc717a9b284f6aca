package record

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// archiveKeyPrefix namespaces archived games within the redis keyspace.
const archiveKeyPrefix = "game:"

// Archive mirrors saved game records into redis so other tooling can read
// them without access to the record directory. The JSON files stay the
// source of truth: callers should log archive failures and carry on.
type Archive struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArchive returns an Archive backed by the redis server at addr.
// A zero ttl archives records without expiry.
func NewArchive(addr, password string, db int, ttl time.Duration) *Archive {
	return &Archive{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies the connection to the archive server.
func (a *Archive) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach archive: %w", err)
	}
	return nil
}

// Put stores the record under game:<id>, replacing any previous copy.
func (a *Archive) Put(ctx context.Context, g *Game) error {
	if g.ID == "" {
		return fmt.Errorf("record: cannot archive a game without an ID")
	}

	data, err := encodeGame(g)
	if err != nil {
		return err
	}
	if err := a.client.Set(ctx, archiveKeyPrefix+g.ID, data, a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to archive game %s: %w", g.ID, err)
	}
	return nil
}

// Get retrieves an archived record by ID.
func (a *Archive) Get(ctx context.Context, id string) (*Game, error) {
	data, err := a.client.Get(ctx, archiveKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read archived game %s: %w", id, err)
	}

	g, err := decodeGame(data)
	if err != nil {
		return nil, err
	}
	g.ID = id
	return g, nil
}

// List returns the IDs of all archived games in lexical order.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := a.client.Scan(ctx, 0, archiveKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), archiveKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan archive: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes an archived record.
func (a *Archive) Delete(ctx context.Context, id string) error {
	n, err := a.client.Del(ctx, archiveKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete archived game %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying redis connection.
func (a *Archive) Close() error {
	return a.client.Close()
}
