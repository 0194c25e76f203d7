package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fohr/contracts-backend/internal/domain/account"
	"github.com/fohr/contracts-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountStore persists the brand/creator account collection as a single
// JSON document with the same whole-file rewrite semantics as the
// contract store.
type AccountStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// accountFile is the on-disk layout: the brand list holds exactly one
// record, creators are keyed by email.
type accountFile struct {
	Brands   []account.Account `json:"brands"`
	Creators []account.Account `json:"creators"`
}

// NewAccountStore creates a store backed by the JSON file at path.
func NewAccountStore(path string, logger *zap.Logger) *AccountStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountStore{path: path, logger: logger}
}

// Ensure creates an empty collection file when none exists. The brand
// singleton is seeded as an empty record so updates always have a target.
func (s *AccountStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("accounts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	s.logger.Info("creating empty account collection", zap.String("path", s.path))
	return s.save(accountFile{Brands: []account.Account{{}}, Creators: []account.Account{}})
}

func (s *AccountStore) load() (accountFile, error) {
	var f accountFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return f, fmt.Errorf("read accounts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse accounts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	if len(f.Brands) == 0 {
		return f, fmt.Errorf("accounts file %s: no brand record: %w", s.path, shared.ErrStorage)
	}
	return f, nil
}

func (s *AccountStore) save(f accountFile) error {
	if f.Creators == nil {
		f.Creators = []account.Account{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %v: %w", err, shared.ErrStorage)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write accounts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	return nil
}

// Brand returns the singleton brand record.
func (s *AccountStore) Brand() (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	b := f.Brands[0]
	return &b, nil
}

// CreatorByEmail returns the creator with the given email.
func (s *AccountStore) CreatorByEmail(email string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Creators {
		if f.Creators[i].Email == email {
			c := f.Creators[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("creator %s: %w", email, shared.ErrNotFound)
}

// CreatorByAccountID returns the creator holding a provider account id.
func (s *AccountStore) CreatorByAccountID(accountID string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Creators {
		if f.Creators[i].AccountID == accountID {
			c := f.Creators[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("creator with account %s: %w", accountID, shared.ErrNotFound)
}

// UpdateBrand merges the linkage onto the brand record and rewrites the
// collection.
func (s *AccountStore) UpdateBrand(l account.Linkage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	l.Apply(&f.Brands[0])
	return s.save(f)
}

// UpsertCreator merges the linkage onto the creator with the given
// email, inserting the record when absent.
func (s *AccountStore) UpsertCreator(email string, l account.Linkage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	for i := range f.Creators {
		if f.Creators[i].Email == email {
			l.Apply(&f.Creators[i])
			return s.save(f)
		}
	}
	c := account.Account{Email: email}
	l.Apply(&c)
	f.Creators = append(f.Creators, c)
	return s.save(f)
}

var _ account.Registry = (*AccountStore)(nil)
