package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("snapshots")

// BoltStore persists entries in a bbolt file so a restart can reuse a fresh
// snapshot. Each value is prefixed with its expiry as unix nanoseconds.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("bolt cache path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func (b *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var (
		out     []byte
		expired bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if len(raw) < 8 {
			return nil
		}
		if exp := int64(binary.BigEndian.Uint64(raw[:8])); exp > 0 && b.now().UnixNano() >= exp {
			expired = true
			return nil
		}
		out = append([]byte(nil), raw[8:]...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read cache key %q: %w", key, err)
	}
	if expired {
		return nil, false, b.Delete(context.Background(), key)
	}
	return out, out != nil, nil
}

func (b *BoltStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = b.now().Add(ttl).UnixNano()
	}
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(exp))
	copy(buf[8:], value)

	if err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), buf)
	}); err != nil {
		return fmt.Errorf("write cache key %q: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Delete(_ context.Context, key string) error {
	if err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("delete cache key %q: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
