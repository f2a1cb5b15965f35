package server

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// FlagStore persists per-session one-time-action flags in bbolt, so a
// returning session keeps its used quick actions hidden.
type FlagStore struct {
	db *bolt.DB
}

// OpenFlagStore opens (or creates) the flag database at path.
func OpenFlagStore(path string) (*FlagStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening flag db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	return &FlagStore{db: db}, nil
}

// Flags returns the session's flag map. Unknown sessions get an empty map.
func (s *FlagStore) Flags(sessionID string) (map[string]bool, error) {
	flags := make(map[string]bool)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &flags)
	})
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", sessionID, err)
	}
	return flags, nil
}

// SetFlag marks one flag true for the session.
func (s *FlagStore) SetFlag(sessionID, flag string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)

		flags := make(map[string]bool)
		if data := b.Get([]byte(sessionID)); data != nil {
			if err := json.Unmarshal(data, &flags); err != nil {
				// Corrupt entry: start the session over.
				flags = make(map[string]bool)
			}
		}
		flags[flag] = true

		data, err := json.Marshal(flags)
		if err != nil {
			return err
		}
		return b.Put([]byte(sessionID), data)
	})
	if err != nil {
		return fmt.Errorf("writing session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *FlagStore) Close() error {
	return s.db.Close()
}
