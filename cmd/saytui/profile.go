package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/saytui/internal/config"
	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/stats"
	"github.com/verte-zerg/saytui/internal/store"
)

var (
	profileName           string
	profileLanguage       string
	profileHighlights     bool
	profileSaveHistory    bool
	profileAutoPlay       bool
	profileMaxHistory     int
	profileClearFavorites bool
	profileReset          bool
	profileExport         bool
	profileFormat         string
	profileLimit          int

	dataDelete []string
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the user profile, favorites and history",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileName, "name", "", "display name (empty signs out)")
	cmd.Flags().StringVar(&profileLanguage, "language", "", "language tag recorded with conversions")
	cmd.Flags().BoolVar(&profileHighlights, "highlights", true, "highlight the spoken word")
	cmd.Flags().BoolVar(&profileSaveHistory, "save-history", true, "keep a user history")
	cmd.Flags().BoolVar(&profileAutoPlay, "auto-play", false, "speak --text as soon as the TUI starts")
	cmd.Flags().IntVar(&profileMaxHistory, "max-history", 0, "user history cap")
	cmd.Flags().BoolVar(&profileClearFavorites, "clear-favorites", false, "remove every favorite")
	cmd.Flags().BoolVar(&profileReset, "reset", false, "restore the guest profile")
	cmd.Flags().BoolVar(&profileExport, "export", false, "print the whole record as JSON or YAML")
	cmd.Flags().StringVar(&profileFormat, "format", stats.FormatJSON, "export format (json, yaml)")
	cmd.Flags().IntVar(&profileLimit, "limit", defaultHistoryLen, "number of history entries to show")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("max-history") && profileMaxHistory < 1 {
		return fmt.Errorf("--max-history must be >= 1")
	}
	if profileLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	svc, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()
	prof := svc.profile

	if profileReset {
		prof.Reset()
	}
	if profileClearFavorites {
		prof.ClearFavorites()
	}
	if flags.Changed("name") || flags.Changed("language") {
		prof.UpdateProfile(func(p *model.Profile) {
			if flags.Changed("name") {
				p.Name = strings.TrimSpace(profileName)
			}
			if flags.Changed("language") {
				p.Language = strings.TrimSpace(profileLanguage)
			}
		})
	}
	if flags.Changed("highlights") || flags.Changed("save-history") ||
		flags.Changed("auto-play") || flags.Changed("max-history") {
		prof.UpdatePreferences(func(p *model.UserPreferences) {
			if flags.Changed("highlights") {
				p.ShowHighlights = profileHighlights
			}
			if flags.Changed("save-history") {
				p.SaveHistory = profileSaveHistory
			}
			if flags.Changed("auto-play") {
				p.AutoPlay = profileAutoPlay
			}
			if flags.Changed("max-history") {
				p.MaxHistoryItems = profileMaxHistory
			}
		})
	}

	out := cmd.OutOrStdout()
	if profileExport {
		return stats.Encode(out, prof.Record(), profileFormat)
	}

	p := prof.Profile()
	prefs := prof.Preferences()
	user := p.Name
	if !prof.IsAuthenticated() {
		user = "(signed out)"
	}
	lines := []string{
		fmt.Sprintf("User:         %s", user),
		fmt.Sprintf("Language:     %s", p.Language),
		fmt.Sprintf("Highlights:   %s", onOff(prefs.ShowHighlights)),
		fmt.Sprintf("Save history: %s", onOff(prefs.SaveHistory)),
		fmt.Sprintf("Max history:  %d", prefs.MaxHistoryItems),
		fmt.Sprintf("Auto-play:    %s", onOff(prefs.AutoPlay)),
		fmt.Sprintf("Conversions:  %d", prof.Usage().TotalConversions),
	}

	favorites := prof.Favorites()
	lines = append(lines, "", fmt.Sprintf("Favorites (%d)", len(favorites)))
	for _, f := range favorites {
		lines = append(lines, "  "+savedTitle(f))
	}

	history := prof.History()
	lines = append(lines, "", fmt.Sprintf("History (%d)", len(history)))
	if profileLimit > 0 && len(history) > profileLimit {
		history = history[:profileLimit]
	}
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			h.Timestamp.Local().Format("2006-01-02 15:04"), savedTitle(h)))
	}
	return writeLines(out, lines)
}

func savedTitle(t model.SavedText) string {
	title := t.Title
	if title == "" {
		title = strings.Join(strings.Fields(t.InputText), " ")
	}
	return runewidth.Truncate(title, historyTextWidth, "…")
}

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "List or delete stored keys",
		Args:  cobra.NoArgs,
		RunE:  runDataCmd,
	}
	cmd.Flags().StringSliceVar(&dataDelete, "delete", nil, "keys to delete (their defaults apply on next start)")
	return cmd
}

func runDataCmd(cmd *cobra.Command, _ []string) error {
	db, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	for _, key := range dataDelete {
		if err := db.Delete(ctx, strings.TrimSpace(key)); err != nil {
			return err
		}
	}
	keys, err := db.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) == 0 {
		logErrln("Nothing stored yet.")
		return nil
	}
	return writeLines(cmd.OutOrStdout(), keys)
}
