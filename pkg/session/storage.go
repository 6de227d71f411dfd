package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
)

// RecordStore persists the current user record across process restarts.
// Load returns (nil, nil) when no record exists.
type RecordStore interface {
	Load() (*User, error)
	Save(user *User) error
	Clear() error
}

// FileRecordStore keeps the session record as a JSON file on disk.
type FileRecordStore struct {
	path string
}

// NewFileRecordStore creates a file-backed record store at path. The parent
// directory is created if needed.
func NewFileRecordStore(path string) (*FileRecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileRecordStore{path: path}, nil
}

// Path returns the location of the record file, for watchers.
func (s *FileRecordStore) Path() string {
	return s.path
}

// Load reads the persisted record. A missing file means no session.
func (s *FileRecordStore) Load() (*User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	return &user, nil
}

// Save writes the record atomically via a temp file and rename, so a watcher
// or concurrent reader never observes a partial record.
func (s *FileRecordStore) Save(user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil session record")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session record: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *FileRecordStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session record: %w", err)
	}
	return nil
}

// RedisRecordStore keeps the session record in Redis, for deployments where
// more than one process shares a session.
type RedisRecordStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisRecordStore creates a Redis-backed record store. A zero ttl means
// the record never expires on its own.
func NewRedisRecordStore(client *redis.Client, key string, ttl time.Duration) *RedisRecordStore {
	if key == "" {
		key = "millii:session:record"
	}
	return &RedisRecordStore{client: client, key: key, ttl: ttl}
}

// Load reads the persisted record. A missing key means no session.
func (s *RedisRecordStore) Load() (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	return &user, nil
}

// Save writes the record, replacing any previous one.
func (s *RedisRecordStore) Save(user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil session record")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

// Clear removes the record.
func (s *RedisRecordStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to remove session record: %w", err)
	}
	return nil
}
