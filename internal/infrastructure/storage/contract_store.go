package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fohr/contracts-backend/internal/domain/contract"
	"github.com/fohr/contracts-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContractStore persists the contract collection as a single JSON
// document, read in full and rewritten in full on every mutation. A
// store-level mutex serializes load-modify-save cycles.
type ContractStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// contractFile is the on-disk layout: one top-level array.
type contractFile struct {
	Contracts []contract.Contract `json:"contracts"`
}

// NewContractStore creates a store backed by the JSON file at path.
func NewContractStore(path string, logger *zap.Logger) *ContractStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractStore{path: path, logger: logger}
}

// Ensure creates an empty collection file when none exists, so Load's
// missing-file failure only fires on genuine loss.
func (s *ContractStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("contracts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	s.logger.Info("creating empty contract collection", zap.String("path", s.path))
	return s.save(nil)
}

// Load reads the whole collection. A missing or malformed file is an
// explicit error wrapping shared.ErrStorage, never an undefined value.
func (s *ContractStore) Load() ([]contract.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ContractStore) load() ([]contract.Contract, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	var f contractFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse contracts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	return f.Contracts, nil
}

func (s *ContractStore) save(list []contract.Contract) error {
	if list == nil {
		list = []contract.Contract{}
	}
	data, err := json.MarshalIndent(contractFile{Contracts: list}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contracts: %v: %w", err, shared.ErrStorage)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write contracts file %s: %v: %w", s.path, err, shared.ErrStorage)
	}
	return nil
}

// FindByParticipant returns the contract for a participant id.
func (s *ContractStore) FindByParticipant(participantID int64) (*contract.Contract, error) {
	list, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ParticipantID == participantID {
			c := list[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("contract for participant %d: %w", participantID, shared.ErrNotFound)
}

// Upsert replaces any contract sharing the participant id, inserts
// otherwise, and rewrites the collection.
func (s *ContractStore) Upsert(c contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, existing := range list {
		if existing.ParticipantID != c.ParticipantID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, c)
	return s.save(kept)
}

// Patch merges partial fields onto the stored contract. A miss is
// reported as shared.ErrNotFound rather than silently dropped.
func (s *ContractStore) Patch(participantID int64, p contract.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for i := range list {
		if list[i].ParticipantID == participantID {
			p.Apply(&list[i])
			found = true
		}
	}
	if !found {
		return fmt.Errorf("contract for participant %d: %w", participantID, shared.ErrNotFound)
	}
	return s.save(list)
}

var _ contract.Repository = (*ContractStore)(nil)
