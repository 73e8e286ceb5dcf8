package receipt

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const uploadBucketName = "uploads"

// BoltArchive implements the Archive interface on a single bbolt file,
// which is easier to back up than a directory of loose uploads.
type BoltArchive struct {
	db *bbolt.DB
}

// NewBoltArchive opens (or creates) the archive database at path.
func NewBoltArchive(path string) (*BoltArchive, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(uploadBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating upload bucket: %w", err)
	}

	return &BoltArchive{db: db}, nil
}

// Save stores a document under its filename.
func (b *BoltArchive) Save(filename string, data []byte) (string, error) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(uploadBucketName)).Put([]byte(filename), data)
	})
	if err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	return filename, nil
}

// Get retrieves a document by the path Save returned.
func (b *BoltArchive) Get(path string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket([]byte(uploadBucketName)).Get([]byte(path))
		if stored == nil {
			return fmt.Errorf("upload not found: %s", path)
		}
		data = make([]byte, len(stored))
		copy(data, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes a document.
func (b *BoltArchive) Delete(path string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadBucketName))
		if bucket.Get([]byte(path)) == nil {
			return fmt.Errorf("upload not found: %s", path)
		}
		return bucket.Delete([]byte(path))
	})
}

// Close closes the archive database.
func (b *BoltArchive) Close() error {
	return b.db.Close()
}
