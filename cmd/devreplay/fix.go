package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"devreplay/internal/engine"
	"devreplay/internal/rule"
)

var fixDryRun bool

func init() {
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "report what would change without writing")
}

var fixCmd = &cobra.Command{
	Use:          "fix <file>...",
	Short:        "Rewrite files by applying every matching rule",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	workspace, err := findWorkspace(".")
	if err != nil {
		return err
	}
	rules, err := rule.Load(workspace)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	out := cmd.OutOrStdout()
	changed := 0
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text := string(content)
		fixed, ok := engine.FixWithRules(text, engine.Applicable(path, text, rules.Rules))
		if !ok {
			continue
		}
		changed++
		if fixDryRun {
			fmt.Fprintf(out, "would fix %s\n", path)
			continue
		}
		if err := os.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if !quiet {
			fmt.Fprintf(out, "fixed %s\n", path)
		}
	}
	if !quiet {
		color.New(color.FgGreen).Fprintf(out, "%d of %d file(s) changed\n", changed, len(args))
	}
	return nil
}
