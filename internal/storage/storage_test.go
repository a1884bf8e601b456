package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := fs.Set("auth_token_alice", []byte("tok-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := fs.Get("auth_token_alice")
	if !ok || string(got) != "tok-1" {
		t.Fatalf("expected tok-1, got %q (ok=%v)", got, ok)
	}

	// a second store on the same dir sees the value (shared durable state)
	fs2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if got, ok := fs2.Get("auth_token_alice"); !ok || string(got) != "tok-1" {
		t.Fatalf("expected shared value, got %q (ok=%v)", got, ok)
	}

	fs.Delete("auth_token_alice")
	if _, ok := fs.Get("auth_token_alice"); ok {
		t.Fatalf("expected key to be gone after delete")
	}
}

func TestFileStoreKeysPrefix(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, k := range []string{"user_alice", "user_bob", "cart_guest"} {
		if err := fs.Set(k, []byte("{}")); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	keys := fs.Keys("user_")
	if len(keys) != 2 {
		t.Fatalf("expected 2 user_ keys, got %v", keys)
	}
	for _, k := range keys {
		if k != "user_alice" && k != "user_bob" {
			t.Fatalf("unexpected key %q", k)
		}
	}
}

// keys holding usernames with path-hostile characters must not escape the dir
func TestFileStoreUnsafeKey(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	key := "user_../../etc/passwd"
	if err := fs.Set(key, []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fs.Get(key); !ok {
		t.Fatalf("expected value back for unsafe key")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in store dir, got %d", len(entries))
	}
}

func TestGetJSONCorruptValueIsAbsent(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Set("cart_guest", []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []string
	if GetJSON(fs, "cart_guest", &out) {
		t.Fatalf("corrupt value should read as absent")
	}

	// a file dropped into the dir that is not a store entry is ignored
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if keys := fs.Keys(""); len(keys) != 1 {
		t.Fatalf("expected 1 key, got %v", keys)
	}
}

func TestMemStoreIsolation(t *testing.T) {
	m := NewMemStore()
	if err := m.Set("currentUsername", []byte("alice")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok := m.Get("currentUsername")
	if !ok || string(v) != "alice" {
		t.Fatalf("expected alice, got %q", v)
	}

	// mutating the returned slice must not corrupt the stored value
	v[0] = 'X'
	v2, _ := m.Get("currentUsername")
	if string(v2) != "alice" {
		t.Fatalf("stored value was mutated through the returned slice")
	}

	other := NewMemStore()
	if _, ok := other.Get("currentUsername"); ok {
		t.Fatalf("mem stores must be independent")
	}
}
