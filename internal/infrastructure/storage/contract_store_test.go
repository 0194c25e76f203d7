package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fohr/contracts-backend/internal/domain/contract"
	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContractStore(t *testing.T) *ContractStore {
	t.Helper()
	s := NewContractStore(filepath.Join(t.TempDir(), "contracts.json"), nil)
	require.NoError(t, s.Ensure())
	return s
}

func TestContractStore_LoadMissingFile(t *testing.T) {
	s := NewContractStore(filepath.Join(t.TempDir(), "contracts.json"), nil)

	_, err := s.Load()

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStorage))
}

func TestContractStore_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s := NewContractStore(path, nil)

	_, err := s.Load()

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStorage))
}

func TestContractStore_EnsureIsIdempotent(t *testing.T) {
	s := newTestContractStore(t)

	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 7, Status: contract.StatusPendingChanges}))
	require.NoError(t, s.Ensure())

	list, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContractStore_RoundTrip(t *testing.T) {
	s := newTestContractStore(t)

	want := []contract.Contract{
		{ParticipantID: 1, DocID: "doc-1", DocURL: "https://docs.google.com/document/d/doc-1/edit", Status: contract.StatusPendingChanges, CampaignID: "spring"},
		{ParticipantID: 2, DocID: "doc-2", Status: contract.StatusPendingInitiation},
		{ParticipantID: 3, DocID: "doc-3", AgreementID: "agr-3", Status: contract.StatusOutForSignature},
	}
	for _, c := range want {
		require.NoError(t, s.Upsert(c))
	}

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestContractStore_UpsertReplacesOnCollision(t *testing.T) {
	s := newTestContractStore(t)

	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 42, DocID: "old", Status: contract.StatusPendingChanges}))
	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 42, DocID: "new", Status: contract.StatusPendingChanges}))

	list, err := s.Load()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].DocID)
}

func TestContractStore_FindByParticipant(t *testing.T) {
	s := newTestContractStore(t)
	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 42, DocID: "doc-42", Status: contract.StatusPendingChanges}))

	c, err := s.FindByParticipant(42)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", c.DocID)

	_, err = s.FindByParticipant(99)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestContractStore_PatchMissingIsNotFound(t *testing.T) {
	s := newTestContractStore(t)
	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 1, Status: contract.StatusPendingChanges}))

	st := contract.StatusPendingInitiation
	err := s.Patch(99, contract.Patch{Status: &st})

	assert.True(t, errors.Is(err, shared.ErrNotFound))

	// the collection is unchanged
	list, lerr := s.Load()
	require.NoError(t, lerr)
	require.Len(t, list, 1)
	assert.Equal(t, contract.StatusPendingChanges, list[0].Status)
}

func TestContractStore_PatchMergesFields(t *testing.T) {
	s := newTestContractStore(t)
	require.NoError(t, s.Upsert(contract.Contract{ParticipantID: 1, DocID: "doc-1", Status: contract.StatusPendingInitiation}))

	st := contract.StatusOutForSignature
	agr := "agr-123"
	require.NoError(t, s.Patch(1, contract.Patch{Status: &st, AgreementID: &agr}))

	c, err := s.FindByParticipant(1)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusOutForSignature, c.Status)
	assert.Equal(t, "agr-123", c.AgreementID)
	assert.Equal(t, "doc-1", c.DocID) // untouched field survives
}
