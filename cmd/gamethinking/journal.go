package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mahecode/gamethinking-mcp-server/internal/config"
	"github.com/mahecode/gamethinking-mcp-server/internal/journal"
	"github.com/mahecode/gamethinking-mcp-server/internal/render"
	"github.com/spf13/cobra"
)

// newJournalCmd builds the offline journal inspection commands. They read
// the SQLite file a previous serve run wrote; a running server never
// reads it back.
func newJournalCmd(c *cli) *cobra.Command {
	var path string

	open := func() (*journal.Journal, error) {
		p := path
		if p == "" {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return nil, err
			}
			p = cfg.Journal.Path
		}
		if p == "" || p == journal.MemoryPath {
			return nil, errors.New("no journal file configured (set journal.path, " + config.EnvJournalPath + " or --path)")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("journal %s: %w", p, err)
		}
		return journal.Open(p)
	}

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "List journaled session ids, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			ids, err := j.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	var asJSON bool
	var color string
	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the thoughts journaled for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			rows, err := j.Session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("session %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			f := render.New(out, render.ColorMode(color))
			for _, r := range rows {
				fmt.Fprintf(out, "#%d  %s\n%s\n", r.Sequence, r.RecordedAt, f.Format(r.Thought))
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	showCmd.Flags().StringVar(&color, "color", string(render.ColorAuto), "color mode: auto, always, never")

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the thought journal",
	}
	journalCmd.PersistentFlags().StringVar(&path, "path", "", "journal file (default: journal.path from config)")
	journalCmd.AddCommand(sessionsCmd, showCmd)
	return journalCmd
}
