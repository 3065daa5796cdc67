package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/saytui/internal/config"
	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/profile"
	"github.com/verte-zerg/saytui/internal/speech"
	"github.com/verte-zerg/saytui/internal/store"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "saytui.db"))
	t.Setenv(config.EnvLogPath, filepath.Join(dir, "saytui.log"))
	t.Cleanup(func() {
		closeLog()
		closeLog = func() {}
	})
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	closeLog()
	closeLog = func() {}
	return out.String(), err
}

func seedProfile(t *testing.T, fn func(*profile.Store)) {
	t.Helper()
	db, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	prof := profile.New(db)
	if err := prof.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	fn(prof)
}

func TestProfileCmdUpdatesAndLists(t *testing.T) {
	isolate(t)
	seedProfile(t, func(p *profile.Store) {
		p.AddToFavorites(model.SavedText{ID: "fav-1", InputText: "good night moon", Title: "Bedtime"})
		p.AddToHistory(model.SavedText{InputText: "hello   world"})
	})

	if _, err := execute(t, "profile", "--name", "Ada", "--language", "en-GB",
		"--auto-play", "--max-history", "5", "--highlights=false"); err != nil {
		t.Fatalf("update: %v", err)
	}
	out, err := execute(t, "profile")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{
		"User:         Ada",
		"Language:     en-GB",
		"Highlights:   off",
		"Max history:  5",
		"Auto-play:    on",
		"Favorites (1)",
		"  Bedtime",
		"History (1)",
		"hello world",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestProfileCmdSignOutAndClearFavorites(t *testing.T) {
	isolate(t)
	seedProfile(t, func(p *profile.Store) {
		p.UpdateProfile(func(pr *model.Profile) { pr.Name = "Ada" })
		p.AddToFavorites(model.SavedText{ID: "fav-1", InputText: "good night moon"})
	})

	out, err := execute(t, "profile", "--name", "", "--clear-favorites")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "(signed out)") || !strings.Contains(out, "Favorites (0)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestProfileCmdResetRestoresGuest(t *testing.T) {
	isolate(t)
	seedProfile(t, func(p *profile.Store) {
		p.UpdateProfile(func(pr *model.Profile) { pr.Name = "Ada" })
		p.UpdatePreferences(func(pr *model.UserPreferences) { pr.AutoPlay = true })
	})

	out, err := execute(t, "profile", "--reset")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "User:         Guest") || !strings.Contains(out, "Auto-play:    off") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestProfileCmdExportYAML(t *testing.T) {
	isolate(t)
	seedProfile(t, func(p *profile.Store) {
		p.RecordConversion(11, profile.Words("hello world"), "en-US")
	})

	out, err := execute(t, "profile", "--export", "--format", "yaml")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, want := range []string{"maxHistoryItems: 100", "totalConversions: 1", "- hello", "- en-US"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in export:\n%s", want, out)
		}
	}
}

func TestProfileCmdRejectsMaxHistory(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "profile", "--max-history", "0"); err == nil {
		t.Fatalf("expected error for --max-history 0")
	}
}

func TestDataCmdListsAndDeletes(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "profile", "--name", "Ada"); err != nil {
		t.Fatalf("profile: %v", err)
	}
	out, err := execute(t, "data")
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !strings.Contains(out, store.KeyUser) {
		t.Fatalf("expected %q listed:\n%s", store.KeyUser, out)
	}

	out, err = execute(t, "data", "--delete", store.KeyUser)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if strings.Contains(out, store.KeyUser) {
		t.Fatalf("expected %q deleted:\n%s", store.KeyUser, out)
	}
	out, err = execute(t, "profile")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "User:         Guest") {
		t.Fatalf("expected guest profile after delete:\n%s", out)
	}
}

func TestSpeechConfigSeedsOnlyUnstoredPrefs(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvSpeechCommand, "")
	mem := store.NewMemory()
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeyRate, "1.4"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rate, pitch := 2.0, 0.5
	cfg := config.SpeechConfig{Rate: &rate, Pitch: &pitch}

	load := func() *speech.Prefs {
		prefs := speech.NewPrefs(mem)
		if err := prefs.Load(ctx); err != nil {
			t.Fatalf("load: %v", err)
		}
		return prefs
	}
	parse := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "saytui"}
		addSpeechFlags(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("parse: %v", err)
		}
		return cmd
	}

	prefs := load()
	applySpeechConfig(parse(), cfg, prefs)
	got := prefs.Prefs()
	if got.Rate != 1.4 {
		t.Fatalf("expected stored rate kept, got %v", got.Rate)
	}
	if got.Pitch != 0.5 {
		t.Fatalf("expected config pitch seeded, got %v", got.Pitch)
	}
	if mem.Writes(store.KeyVolume) != 0 {
		t.Fatalf("expected volume untouched without config or flag")
	}

	prefs = load()
	applySpeechConfig(parse("--rate", "0.8"), cfg, prefs)
	if got := prefs.Prefs().Rate; got != 0.8 {
		t.Fatalf("expected flag rate stored, got %v", got)
	}
	if got := load().Prefs().Rate; got != 0.8 {
		t.Fatalf("expected flag rate persisted, got %v", got)
	}
}
