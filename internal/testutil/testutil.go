// Package testutil provides shared test helpers for setting up vaults, the
// note index and the document store.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/brainbrew/internal/index"
	"github.com/starford/brainbrew/internal/kv"
	"github.com/starford/brainbrew/internal/storage"
)

// TestDB creates a temporary note index that is automatically closed.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestKV creates a temporary SQLite-backed document store.
func TestKV(t *testing.T) kv.Store {
	t.Helper()
	store, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
