package wildcards

import (
	"bufio"
	"errors"
	"os"
	"sort"

	mapsutil "github.com/projectdiscovery/utils/maps"
)

// Store holds the addresses identified as wildcard answers.
type Store struct {
	wildcards *mapsutil.SyncLockMap[string, struct{}]
}

func NewStore() *Store {
	m := mapsutil.NewSyncLockMap[string, struct{}]()
	return &Store{wildcards: m}
}

func (s *Store) Set(wildcard string) error {
	return s.wildcards.Set(wildcard, struct{}{})
}

func (s *Store) Has(wildcard string) bool {
	return s.wildcards.Has(wildcard)
}

func (s *Store) Iterate(f func(wildcard string) error) error {
	return s.wildcards.Iterate(func(k string, v struct{}) error {
		return f(k)
	})
}

func (s *Store) IsEmpty() bool {
	return s.wildcards.IsEmpty()
}

// Items returns the wildcard addresses sorted.
func (s *Store) Items() []string {
	var items []string
	_ = s.Iterate(func(k string) error {
		items = append(items, k)
		return nil
	})
	sort.Strings(items)
	return items
}

// SaveToFile writes one wildcard address per line to file.
func (s *Store) SaveToFile(file string) error {
	if s.wildcards.IsEmpty() {
		return errors.New("no wildcards")
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	bw := bufio.NewWriter(f)
	for _, item := range s.Items() {
		if _, err := bw.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
