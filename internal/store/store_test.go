package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "saytui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	value, ok, err := st.Get(context.Background(), KeySettings)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected missing key, got %q ok=%v", value, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, KeyStats, `{"visits":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, KeyStats, `{"visits":2}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := st.Get(ctx, KeyStats)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `{"visits":2}` {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}

func TestKeysAndDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{KeyVolume, KeyPitch, KeyRate} {
		if err := st.Set(ctx, key, "1"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := st.Delete(ctx, KeyRate); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, "never-written"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != KeyPitch || keys[1] != KeyVolume {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saytui.db")
	ctx := context.Background()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(ctx, KeyUser, `{"profile":{}}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	if _, ok, err := st.Get(ctx, KeyUser); err != nil || !ok {
		t.Fatalf("expected value after reopen, ok=%v err=%v", ok, err)
	}
}
