package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devreplay/internal/config"
	"devreplay/internal/logging"
	"devreplay/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the devreplay language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.Log.Level
	}
	logging.SetLevel(level)

	if isTerminal(os.Stdin) {
		logging.Default().Warn("stdin is a terminal; the lsp command expects an editor client over stdio")
	}

	maxDiagnostics, _ := cmd.Flags().GetInt("max-diagnostics")
	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Lint.MaxDiagnostics
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		MaxDiagnostics: maxDiagnostics,
		Logger:         logging.Default(),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
