// Package store provides a thin bbolt wrapper for padwatch's persisted
// state: the last-known latest/next launch pair and the last published
// attribute set. Persisting them means a restart has data to show before
// the first successful fetch completes.
//
// Buckets:
//
//	state — latest/next launch records, one envelope under a fixed key
//	attrs — last published attributes, one envelope under a fixed key
//	_meta — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mkrebs/padwatch/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// Bucket name constants.
var (
	bucketState    = []byte("state")
	bucketAttrs    = []byte("attrs")
	bucketInternal = []byte("_meta")
)

var (
	keyState = []byte("current")
	keyAttrs = []byte("current")
)

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketAttrs, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Launch State ─────────────────────────────────────────────────────────────

// stateEnvelope is the on-disk representation of the tracked launch pair.
// Nil launches are stored as JSON null so absence round-trips.
type stateEnvelope struct {
	Latest  *model.Launch `json:"latest"`
	Next    *model.Launch `json:"next"`
	SavedAt time.Time     `json:"saved_at"`
}

// PutState stores the current latest/next pair, stamping SavedAt.
func (s *Store) PutState(latest, next *model.Launch) error {
	data, err := json.Marshal(stateEnvelope{
		Latest:  latest,
		Next:    next,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put(keyState, data)
	})
}

// GetState retrieves the persisted latest/next pair.
// Returns (nil, nil, false, nil) when nothing has been stored yet.
func (s *Store) GetState() (latest, next *model.Launch, ok bool, err error) {
	var env stateEnvelope
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketState).Get(keyState)
		if v == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(v, &env)
	})
	if err != nil {
		return nil, nil, false, err
	}
	return env.Latest, env.Next, ok, nil
}

// ─── Attributes ───────────────────────────────────────────────────────────────

// PutAttributes stores the last published attribute set.
func (s *Store) PutAttributes(a model.Attributes) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding attributes: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAttrs).Put(keyAttrs, data)
	})
}

// GetAttributes retrieves the last published attribute set.
// Returns (zero, false, nil) when nothing has been stored yet.
func (s *Store) GetAttributes() (model.Attributes, bool, error) {
	var a model.Attributes
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAttrs).Get(keyAttrs)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &a)
	})
	if err != nil {
		return model.Attributes{}, false, err
	}
	return a, found, nil
}

// ─── Maintenance ──────────────────────────────────────────────────────────────

// Clear deletes all persisted state, keeping the schema buckets.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketAttrs} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("clearing bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}
