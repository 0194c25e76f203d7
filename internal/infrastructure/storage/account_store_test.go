package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fohr/contracts-backend/internal/domain/account"
	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccountStore(t *testing.T) *AccountStore {
	t.Helper()
	s := NewAccountStore(filepath.Join(t.TempDir(), "accounts.json"), nil)
	require.NoError(t, s.Ensure())
	return s
}

func TestAccountStore_BrandSingleton(t *testing.T) {
	s := newTestAccountStore(t)

	require.NoError(t, s.UpdateBrand(account.Link("acct_brand1")))
	require.NoError(t, s.UpdateBrand(account.Link("acct_brand2")))

	b, err := s.Brand()
	require.NoError(t, err)
	assert.Equal(t, "acct_brand2", b.AccountID)
}

func TestAccountStore_LinkClearsAuditPair(t *testing.T) {
	s := newTestAccountStore(t)

	require.NoError(t, s.UpdateBrand(account.Unlink("ops", "2026-08-01T00:00:00Z")))
	require.NoError(t, s.UpdateBrand(account.Link("acct_new")))

	b, err := s.Brand()
	require.NoError(t, err)
	assert.True(t, b.Connected())
	assert.Empty(t, b.DisconnectedBy)
	assert.Empty(t, b.DisconnectedOn)
}

func TestAccountStore_UnlinkStampsAuditPair(t *testing.T) {
	s := newTestAccountStore(t)
	require.NoError(t, s.UpsertCreator("jane@example.com", account.Link("acct_jane")))

	require.NoError(t, s.UpsertCreator("jane@example.com", account.Unlink("ops", "2026-08-28T12:00:00Z")))

	c, err := s.CreatorByEmail("jane@example.com")
	require.NoError(t, err)
	assert.False(t, c.Connected())
	assert.Equal(t, "ops", c.DisconnectedBy)
	assert.Equal(t, "2026-08-28T12:00:00Z", c.DisconnectedOn)
}

func TestAccountStore_UpsertCreatorInsertsOnMiss(t *testing.T) {
	s := newTestAccountStore(t)

	require.NoError(t, s.UpsertCreator("a@x.com", account.Link("acct_a")))
	require.NoError(t, s.UpsertCreator("b@x.com", account.Link("acct_b")))
	require.NoError(t, s.UpsertCreator("a@x.com", account.Link("acct_a2")))

	a, err := s.CreatorByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "acct_a2", a.AccountID)

	b, err := s.CreatorByEmail("b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "acct_b", b.AccountID)
}

func TestAccountStore_CreatorByAccountID(t *testing.T) {
	s := newTestAccountStore(t)
	require.NoError(t, s.UpsertCreator("jane@example.com", account.Link("acct_jane")))

	c, err := s.CreatorByAccountID("acct_jane")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", c.Email)

	_, err = s.CreatorByAccountID("acct_nobody")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAccountStore_LoadMissingFile(t *testing.T) {
	s := NewAccountStore(filepath.Join(t.TempDir(), "accounts.json"), nil)

	_, err := s.Brand()

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStorage))
}
