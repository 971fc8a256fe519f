// Package history journals mutating dotstow runs in a bbolt database so
// `dotstow history` can show what was linked, backed up or installed.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

const (
	bucketRuns = "runs"
	bucketMeta = "meta"
	keyLastRun = "last_run"

	// keyLayout sorts lexically in time order, unlike RFC3339Nano.
	keyLayout = "2006-01-02T15:04:05.000000000Z"
)

// Entry is one journaled run
type Entry struct {
	Time     time.Time      `json:"time" yaml:"time"`
	Command  string         `json:"command" yaml:"command"`
	Args     []string       `json:"args,omitempty" yaml:"args,omitempty"`
	Counts   map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Backup   string         `json:"backup,omitempty" yaml:"backup,omitempty"`
	Failures []string       `json:"failures,omitempty" yaml:"failures,omitempty"`
	Fatal    string         `json:"fatal,omitempty" yaml:"fatal,omitempty"`
}

// OK reports whether the run finished without failures
func (e Entry) OK() bool {
	return len(e.Failures) == 0 && e.Fatal == ""
}

// Store is the run journal
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPermission, "cannot create %s", filepath.Dir(path))
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to open history database %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketRuns, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to initialize history buckets")
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends an entry. Entries recorded in the same instant keep their
// insertion order.
func (s *Store) Record(entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRuns))
		if bucket == nil {
			return errors.New(errors.ErrInternal, "history bucket not found")
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to marshal history entry")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := []byte(fmt.Sprintf("%s-%010d", entry.Time.UTC().Format(keyLayout), seq))
		if err := bucket.Put(key, data); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to save history entry")
		}

		if meta := tx.Bucket([]byte(bucketMeta)); meta != nil {
			_ = meta.Put([]byte(keyLastRun), key)
		}
		return nil
	})
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRuns))
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil && (limit <= 0 || len(entries) < limit); k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Last returns the newest entry, or nil when the journal is empty
func (s *Store) Last() (*Entry, error) {
	entries, err := s.List(1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// Count returns the number of journaled runs
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket([]byte(bucketRuns)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n, err
}
