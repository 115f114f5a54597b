package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"devreplay/internal/config"
	"devreplay/internal/engine"
	"devreplay/internal/rule"
	"devreplay/internal/ui/pretty"
)

var errProblemsFound = errors.New("problems found")

var lintCmd = &cobra.Command{
	Use:           "lint <file>...",
	Short:         "Lint files against the project's rules",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLint,
}

type fileReport struct {
	path    string
	results []engine.Result
	lines   []string
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	workspace, err := findWorkspace(".")
	if err != nil {
		return err
	}
	rules, err := rule.Load(workspace)
	if err != nil {
		return err
	}

	maxDiagnostics, _ := cmd.Flags().GetInt("max-diagnostics")
	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Lint.MaxDiagnostics
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	styles := pretty.NewStyles(colorEnabled(cmd, cfg))

	reports := make([]fileReport, len(args))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text := string(content)
			results := engine.Lint(path, text, rules.Rules)
			if len(results) > maxDiagnostics {
				results = results[:maxDiagnostics]
			}
			reports[i] = fileReport{
				path:    path,
				results: results,
				lines:   strings.Split(text, "\n"),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	out := cmd.OutOrStdout()
	for _, report := range reports {
		total += len(report.results)
		for _, res := range report.results {
			sourceLine := ""
			if !quiet && res.Start.Line-1 < len(report.lines) {
				sourceLine = report.lines[res.Start.Line-1]
			}
			fmt.Fprint(out, styles.FormatResult(report.path, res, sourceLine))
		}
	}

	if total == 0 {
		if !quiet {
			color.New(color.FgGreen).Fprintf(out, "no problems in %d file(s)\n", len(args))
		}
		return nil
	}
	if !quiet {
		color.New(color.FgRed, color.Bold).Fprintf(out, "%d problem(s) in %d file(s)\n", total, len(args))
	}
	return errProblemsFound
}

// findWorkspace locates the directory holding the rule file by walking up
// from startDir, mirroring how editors resolve the workspace root. When no
// rule file exists anywhere above, startDir itself is returned and the
// lint pass simply sees zero rules.
func findWorkspace(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	start := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, rule.FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

func colorEnabled(cmd *cobra.Command, cfg config.Config) bool {
	mode, _ := cmd.Flags().GetString("color")
	if mode == "" {
		mode = cfg.Output.Color
	}
	return pretty.ColorEnabled(mode)
}
