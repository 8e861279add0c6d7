// Package statestore persists the host's install-status and enabled-flag
// state across process restarts using BoltDB. All writes are transactional;
// reads use read-only transactions to minimise contention.
package statestore

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketInstallStatus = []byte("install_status")
	bucketEnabled        = []byte("plugin_enabled")
)

// Status is the install status machine from the data model:
//
//	NotInstalled -> Installing{progress} -> Installed{version} | Failed{error}
//	Installed{v} -> UpdateAvailable{current, latest} (when a newer version is seen)
type Status struct {
	State    string `json:"state"` // not_installed | installing | installed | failed | update_available
	Progress int    `json:"progress,omitempty"`
	Version  string `json:"version,omitempty"`
	Latest   string `json:"latest,omitempty"`
	Error    string `json:"error,omitempty"`
}

// IsInstalled reports whether the package is usable (installed, or
// installed with an update available).
func (s Status) IsInstalled() bool {
	return s.State == "installed" || s.State == "update_available"
}

// HasUpdate reports whether a newer version than the installed one is known.
func (s Status) HasUpdate() bool {
	return s.State == "update_available"
}

// DB wraps a BoltDB instance with typed accessors for install status and
// enablement state.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketInstallStatus, bucketEnabled} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %q: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// PutStatus upserts the install status for packageID.
func (db *DB) PutStatus(packageID string, status Status) error {
	return db.putJSON(bucketInstallStatus, packageID, status)
}

// GetStatus retrieves the install status for packageID. Returns the zero
// Status (State == "") if none recorded.
func (db *DB) GetStatus(packageID string) (Status, error) {
	var s Status
	_, err := db.getJSON(bucketInstallStatus, packageID, &s)
	return s, err
}

// DeleteStatus removes the recorded install status for packageID.
func (db *DB) DeleteStatus(packageID string) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInstallStatus).Delete([]byte(packageID))
	})
}

// ListStatuses returns every recorded install status, keyed by package id.
func (db *DB) ListStatuses() (map[string]Status, error) {
	out := make(map[string]Status)
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInstallStatus).ForEach(func(k, v []byte) error {
			var s Status
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("unmarshal status %q: %w", k, err)
			}
			out[string(k)] = s
			return nil
		})
	})
	return out, err
}

// SetEnabled persists the last-known enabled flag for pluginID.
func (db *DB) SetEnabled(pluginID string, enabled bool) error {
	return db.putJSON(bucketEnabled, pluginID, enabled)
}

// IsEnabled reports the last-known enabled flag for pluginID. Defaults to
// false if never recorded.
func (db *DB) IsEnabled(pluginID string) (bool, error) {
	var enabled bool
	_, err := db.getJSON(bucketEnabled, pluginID, &enabled)
	return enabled, err
}

func (db *DB) putJSON(bucket []byte, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (db *DB) getJSON(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}
