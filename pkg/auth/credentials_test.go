package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory CredentialStore for tests
type memoryStore struct {
	accounts map[string]*Account
	readOnly bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: make(map[string]*Account)}
}

func (m *memoryStore) Store(account *Account) error {
	if m.readOnly {
		return ErrStoreUnavailable
	}
	saved := *account
	m.accounts[account.Username] = &saved
	return nil
}

func (m *memoryStore) Retrieve(username string) (*Account, error) {
	account, ok := m.accounts[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return account, nil
}

func (m *memoryStore) List() ([]*Account, error) {
	var result []*Account
	for _, a := range m.accounts {
		result = append(result, a)
	}
	return result, nil
}

func (m *memoryStore) Delete(username string) error {
	if _, ok := m.accounts[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, username)
	return nil
}

func (m *memoryStore) Exists(username string) bool {
	_, ok := m.accounts[username]
	return ok
}

func testAccount(username string) *Account {
	return &Account{
		Username:  username,
		SessionID: "session-" + username,
		CSRFToken: "csrf-" + username,
	}
}

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := newMemoryStore()
	m := NewManagerWithStores(store, NewEnvironmentStore())

	require.NoError(t, m.Store(testAccount("alice")))

	account, err := m.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "session-alice", account.SessionID)
	assert.False(t, account.LastModified.IsZero())
}

func TestManagerStoreValidation(t *testing.T) {
	m := NewManagerWithStores(newMemoryStore())

	tests := []struct {
		name    string
		account *Account
	}{
		{"missing username", &Account{SessionID: "s", CSRFToken: "c"}},
		{"missing session", &Account{Username: "u", CSRFToken: "c"}},
		{"missing csrf", &Account{Username: "u", SessionID: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, m.Store(tt.account))
		})
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := &memoryStore{accounts: make(map[string]*Account), readOnly: true}
	working := newMemoryStore()
	m := NewManagerWithStores(broken, working)

	require.NoError(t, m.Store(testAccount("bob")))
	assert.True(t, working.Exists("bob"))
}

func TestManagerRetrieveNotFound(t *testing.T) {
	m := NewManagerWithStores(newMemoryStore())

	_, err := m.Retrieve("ghost")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerDelete(t *testing.T) {
	store := newMemoryStore()
	m := NewManagerWithStores(store)

	require.NoError(t, m.Store(testAccount("carol")))
	require.NoError(t, m.Delete("carol"))
	assert.False(t, store.Exists("carol"))

	assert.Error(t, m.Delete("carol"))
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := newMemoryStore()
	older.accounts["dave"] = &Account{Username: "dave", SessionID: "old", LastModified: time.Now().Add(-time.Hour)}
	newer := newMemoryStore()
	newer.accounts["dave"] = &Account{Username: "dave", SessionID: "new", LastModified: time.Now()}

	m := NewManagerWithStores(older, newer)

	accounts, err := m.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "new", accounts[0].SessionID)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("IGFOLLOW_SESSION_ID", "env-session")
	t.Setenv("IGFOLLOW_CSRF_TOKEN", "env-csrf")

	store := NewEnvironmentStore()
	assert.True(t, store.Exists(""))

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Username)
	assert.Equal(t, "env-session", account.SessionID)

	assert.ErrorIs(t, store.Store(testAccount("x")), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)
}

func TestEnvironmentStoreMissing(t *testing.T) {
	t.Setenv("IGFOLLOW_SESSION_ID", "")
	t.Setenv("IGFOLLOW_CSRF_TOKEN", "")

	store := NewEnvironmentStore()
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("IGFOLLOW_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(testAccount("erin")))

	// Reopen to prove the data survives on disk.
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	account, err := reopened.Retrieve("erin")
	require.NoError(t, err)
	assert.Equal(t, "session-erin", account.SessionID)
	assert.Equal(t, "csrf-erin", account.CSRFToken)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("IGFOLLOW_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(testAccount("frank")))

	t.Setenv("IGFOLLOW_PASSPHRASE", "second")
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = reopened.Retrieve("frank")
	assert.Error(t, err)
}

func TestEncryptedFileStoreDeleteLastRemovesFile(t *testing.T) {
	t.Setenv("IGFOLLOW_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(testAccount("gina")))
	require.NoError(t, store.Delete("gina"))

	assert.False(t, store.Exists("gina"))
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{
		Username:  "alice",
		SessionID: "1234567890abcdef",
		CSRFToken: "short",
	}

	masked := SanitizeAccount(account)
	assert.Equal(t, "alice", masked.Username)
	assert.Equal(t, "1234...cdef", masked.SessionID)
	assert.Equal(t, "********", masked.CSRFToken)

	// Original untouched.
	assert.Equal(t, "1234567890abcdef", account.SessionID)

	assert.Nil(t, SanitizeAccount(nil))
}

func TestAccountCredentials(t *testing.T) {
	account := &Account{
		Username:  "alice",
		SessionID: "sid",
		CSRFToken: "csrf",
		UserAgent: "agent",
	}

	creds := account.Credentials()
	assert.Equal(t, "sid", creds.SessionID)
	assert.Equal(t, "csrf", creds.CSRFToken)
	assert.Equal(t, "agent", creds.UserAgent)
}
