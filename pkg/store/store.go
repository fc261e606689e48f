package store

import (
	"os"
	"strings"

	sliceutil "github.com/projectdiscovery/utils/slice"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const Megabyte = 1 << 20

// Store is a temporary on-disk index of ip -> hostnames used for
// ip based wildcard removal. It is deleted on Close.
type Store struct {
	DB   *leveldb.DB
	path string
}

// New creates a new storage for ip based wildcard removal in a
// temporary directory under dbPath (the system default when empty).
func New(dbPath string) (*Store, error) {
	storeDb, err := os.MkdirTemp(dbPath, "hawkbind-db-")
	if err != nil {
		return nil, err
	}
	db, err := leveldb.OpenFile(storeDb, &opt.Options{
		CompactionTableSize: 256 * Megabyte,
	})
	if err != nil {
		_ = os.RemoveAll(storeDb)
		return nil, err
	}
	return &Store{DB: db, path: storeDb}, nil
}

// Append adds hostnames to the ones already known for ip.
func (s *Store) Append(ip string, hostnames ...string) error {
	if len(hostnames) == 0 {
		return nil
	}
	value := strings.Join(hostnames, ",")
	existing, err := s.DB.Get([]byte(ip), nil)
	switch {
	case err == leveldb.ErrNotFound:
	case err != nil:
		return err
	default:
		value = string(existing) + "," + value
	}
	return s.DB.Put([]byte(ip), []byte(value), nil)
}

// Exists indicates if an IP exists in the store
func (s *Store) Exists(ip string) bool {
	ok, err := s.DB.Has([]byte(ip), nil)
	return err == nil && ok
}

// GetHostnames returns the unique hostnames known for an IP address.
func (s *Store) GetHostnames(ip string) []string {
	hostnames, err := s.DB.Get([]byte(ip), nil)
	if err != nil {
		return nil
	}
	return sliceutil.Dedupe(strings.Split(string(hostnames), ","))
}

// Delete deletes the records for an IP from store.
func (s *Store) Delete(ip string) error {
	return s.DB.Delete([]byte(ip), nil)
}

// Close closes the database and removes its files.
func (s *Store) Close() {
	_ = s.DB.Close()
	_ = os.RemoveAll(s.path)
}

// Iterate calls f for every ip with its unique hostnames and their count.
func (s *Store) Iterate(f func(ip string, hostnames []string, counter int)) {
	iter := s.DB.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		ip := string(iter.Key())
		hostnames := strings.Split(string(iter.Value()), ",")
		hostnames = sliceutil.Dedupe(hostnames)
		counter := len(hostnames)
		f(ip, hostnames, counter)
	}
}
