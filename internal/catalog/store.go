// Package catalog is the document store side of the system: a BadgerDB-backed
// index of beer documents used for name search and bulk loading. The graph
// only ever sees it through (id, name, brewery, type, origin) tuples.
package catalog

import (
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	apperrors "brewgraph/pkg/errors"
	"brewgraph/pkg/logger"
)

// Beer is one catalog document
type Beer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Brewery string `json:"brewery"`
	Type    string `json:"type"`
	Origin  string `json:"origin"`
}

// Key prefix for beer documents
const beerKeyPrefix = "beer:"

// Store is a BadgerDB-backed beer catalog
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens a catalog store at the given path. An empty path opens an
// in-memory store.
func Open(path string) (*Store, error) {
	if path == "" {
		return OpenInMemory()
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailable(path, err)
	}
	return &Store{db: db, logger: logger.Get()}, nil
}

// OpenInMemory opens an ephemeral catalog store, used by tests and dev runs
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailable("(in-memory)", err)
	}
	return &Store{db: db, logger: logger.Get()}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a beer document, overwriting any existing one with the same id
func (s *Store) Insert(beer Beer) error {
	data, err := json.Marshal(beer)
	if err != nil {
		return apperrors.NewBaseError(apperrors.ErrorTypeCatalog, "marshal beer", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(beerKeyPrefix+beer.ID), data)
	})
}

// GetByID retrieves a beer document by id
func (s *Store) GetByID(id string) (*Beer, error) {
	var beer Beer

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(beerKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewCatalogBeerNotFound(id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &beer)
		})
	})
	if err != nil {
		return nil, err
	}

	return &beer, nil
}

// Search returns up to limit beers whose name contains the query,
// case-insensitive. An empty query matches everything.
func (s *Store) Search(query string, limit int) ([]Beer, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := []Beer{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(beerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if len(results) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var beer Beer
				if err := json.Unmarshal(val, &beer); err != nil {
					return err
				}
				if needle == "" || strings.Contains(strings.ToLower(beer.Name), needle) {
					results = append(results, beer)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// All returns every beer in the catalog
func (s *Store) All() ([]Beer, error) {
	beers := []Beer{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(beerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var beer Beer
				if err := json.Unmarshal(val, &beer); err != nil {
					return err
				}
				beers = append(beers, beer)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return beers, nil
}

// DeleteAll removes every beer document. Used by the loader before a reseed.
func (s *Store) DeleteAll() error {
	if err := s.db.DropPrefix([]byte(beerKeyPrefix)); err != nil {
		return err
	}
	s.logger.Warn("All catalog documents deleted")
	return nil
}
