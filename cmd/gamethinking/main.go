// gamethinking: Game Design Thinking MCP Server
//
// An MCP server exposing a single tool, gamedesignthinking, that records
// numbered game design steps with revisions and alternative branches.
//
// Usage:
//
//	gamethinking serve          # Start MCP server (stdio transport)
//	gamethinking version        # Print the version
//	gamethinking config init    # Write a default config file
//	gamethinking journal show   # Print a journaled session
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mahecode/gamethinking-mcp-server/internal/config"
	"github.com/mahecode/gamethinking-mcp-server/internal/logging"
	gtserver "github.com/mahecode/gamethinking-mcp-server/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigFile = "gamethinking.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the flags shared by all commands.
type cli struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "gamethinking",
		Short: "Game design thinking MCP server",
		Long: `gamethinking is an MCP server for step-by-step game design reasoning.

It exposes the gamedesignthinking tool over stdio. Run without arguments
(or with "serve") to start the server.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "gamethinking": {
        "command": "gamethinking",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runServe,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the MCP server (stdio transport)",
			Args:  cobra.NoArgs,
			RunE:  c.runServe,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "gamethinking v%s\n", gtserver.Version)
			},
		},
		newConfigCmd(),
		newJournalCmd(c),
	)
	return root
}

func newConfigCmd() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", path, err)
				}
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, tracker, cleanup := gtserver.New(cfg, logger, cmd.ErrOrStderr())
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving on stdio",
		zap.String("version", gtserver.Version),
		zap.String("session_id", tracker.SessionID()),
		zap.Bool("diagnostics", cfg.Diagnostics.Enabled),
	)

	router := gtserver.NewRouter(s, logger.Named("router"))
	if err := gtserver.Serve(ctx, router, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	logger.Info("shutting down", zap.Int("thoughts", tracker.Len()))
	return nil
}

