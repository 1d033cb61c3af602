package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Store reads and writes JSON documents under string keys.
type Store interface {
	// Read decodes the value under key into dst. It reports false, with a
	// nil error, when the key was never written.
	Read(ctx context.Context, key string, dst any) (bool, error)
	// ReadRaw returns the stored bytes, or ErrNotFound.
	ReadRaw(ctx context.Context, key string) (json.RawMessage, error)
	Write(ctx context.Context, key string, value any) error
	Close() error
}

var ErrNotFound = errors.New("not found")

// backend is the byte-level storage a Store is built on.
type backend interface {
	get(ctx context.Context, key string) ([]byte, error)
	put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns a Store for url: sqlite://path, postgres://... or mem://.
func Open(ctx context.Context, url string) (Store, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return nil, fmt.Errorf("storage url %q: missing scheme", url)
	}
	var (
		b   backend
		err error
	)
	switch scheme {
	case "sqlite", "file":
		b, err = openSQLite(ctx, url)
	case "postgres", "postgresql":
		b, err = openPostgres(ctx, url)
	case "mem":
		b = newMemStore()
	default:
		return nil, fmt.Errorf("storage url %q: unsupported scheme %q", url, scheme)
	}
	if err != nil {
		return nil, err
	}
	return &jsonStore{b: b}, nil
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() Store { return &jsonStore{b: newMemStore()} }

type jsonStore struct{ b backend }

func (s *jsonStore) Read(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.b.get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *jsonStore) ReadRaw(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.b.get(ctx, key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (s *jsonStore) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.b.put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *jsonStore) Close() error { return s.b.Close() }
