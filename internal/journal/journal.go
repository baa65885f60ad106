// Package journal records delivery attempts in a local bbolt file for
// operational inspection. The pipeline never reads it back: it holds no
// dedup or seen-article state.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDeliveries = []byte("deliveries")

// Entry is one recorded delivery attempt.
type Entry struct {
	Feed       string    `json:"feed"`
	SinkID     string    `json:"sink_id"`
	Title      string    `json:"title"`
	Delivered  bool      `json:"delivered"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Journal appends delivery entries to a bbolt database.
type Journal struct {
	db *bolt.DB
}

// Open creates or opens the journal file.
func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDeliveries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal bucket: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one delivery entry. A nil journal is a no-op so
// callers need no guard when journaling is disabled.
func (j *Journal) Record(entry Entry) error {
	if j == nil || j.db == nil {
		return nil
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDeliveries)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, payload)
	})
}

// Recent returns up to limit entries, newest first. Intended for
// operational tooling, never for pipeline decisions.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if j == nil || j.db == nil || limit <= 0 {
		return nil, nil
	}

	var out []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketDeliveries).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode journal entry: %w", err)
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
