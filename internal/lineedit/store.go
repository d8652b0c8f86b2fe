package lineedit

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ninesh-dev/ninesh/domain/ports"
)

const bucketCmd = "cmd"

// BoltStore keeps input history in a bbolt database, one key per entry in
// sequence order.
type BoltStore struct {
	db *bolt.DB
}

var _ ports.HistoryStore = (*BoltStore)(nil)

// OpenStore opens or creates the history database at path. It gives up
// after a second if another process holds the database lock.
func OpenStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// AddCmd appends cmd and returns its sequence number.
func (s *BoltStore) AddCmd(cmd string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(cmd))
	})
	return int(seq), err
}

// LastCmds returns up to n most recent commands, oldest first.
func (s *BoltStore) LastCmds(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	var cmds []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, string(v))
		}
		return nil
	})
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
