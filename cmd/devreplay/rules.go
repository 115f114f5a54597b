package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"devreplay/internal/config"
	"devreplay/internal/rule"
	"devreplay/internal/ui/pretty"
)

var rulesAsJSON bool

func init() {
	rulesCmd.Flags().BoolVar(&rulesAsJSON, "json", false, "dump the rules as JSON")
}

var rulesCmd = &cobra.Command{
	Use:          "rules",
	Short:        "List the project's rules and their effective severities",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	workspace, err := findWorkspace(".")
	if err != nil {
		return err
	}
	f, err := rule.Load(workspace)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if rulesAsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(f.Rules)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	styles := pretty.NewStyles(colorEnabled(cmd, cfg))
	if len(f.Rules) == 0 {
		fmt.Fprintf(out, "no rules found (looked for %s at or above the current directory)\n", rule.FileName)
		return nil
	}
	for i, r := range f.Rules {
		id := r.RuleID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(out, "  %-24s %-8s %s\n",
			styles.RuleID.Render(id),
			styles.FormatSeverity(r.EffectiveSeverity()),
			r.Description(),
		)
	}
	return nil
}
