package kv

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/utils/file"
)

const (
	// VitreusNodeDbDirName is the name of the directory containing the vitreus node database.
	VitreusNodeDbDirName = "vitreus"
	// DatabaseFileName is the name of the vitreus state database.
	DatabaseFileName = "state.db"

	boltAllocSize = 8 * 1024 * 1024
)

var log = logrus.WithField("prefix", "database")

// Config for the bolt db kv store.
type Config struct {
	InitialMMapSize int
}

// Store is the durable bbolt-backed implementation of state.Store.
type Store struct {
	db           *bolt.DB
	databasePath string
	ctx          context.Context
}

var _ state.Store = (*Store)(nil)

// KVStoreDatafilePath is the canonical location of the state database file.
func KVStoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the state buckets, and stores an open connection
// db object as a property of the Store struct.
func NewKVStore(ctx context.Context, dirPath string, config *Config) (*Store, error) {
	hasDir, err := file.HasDir(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := file.MkdirAll(dirPath); err != nil {
			return nil, err
		}
	}

	datafile := KVStoreDatafilePath(dirPath)
	boltDB, err := bolt.Open(
		datafile,
		params.VitreusIoConf().ReadWritePermissions,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: config.InitialMMapSize,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		ctx:          ctx,
	}

	if err := kv.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range state.Buckets() {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	log.Debugf("State database opened at %s", datafile)

	return kv, nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(KVStoreDatafilePath(s.databasePath))
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

func (s *Store) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errors.Errorf("bucket %s does not exist", bucket)
		}

		v := b.Get(key)
		if v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	return value, err
}

func (s *Store) Put(bucket, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errors.Errorf("bucket %s does not exist", bucket)
		}
		return b.Put(key, value)
	})
}

func (s *Store) Delete(bucket, key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errors.Errorf("bucket %s does not exist", bucket)
		}
		return b.Delete(key)
	})
}

func (s *Store) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errors.Errorf("bucket %s does not exist", bucket)
		}
		return b.ForEach(fn)
	})
}
