package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/plan"
	"github.com/grahamcooke/apphound/internal/report"
)

var (
	planAll      bool
	planNoScript bool
)

var planCmd = &cobra.Command{
	Use:   "plan [app name...]",
	Short: "Build a deletion plan from a fresh scan",
	Long: `Plan scans the named applications and derives a deletion plan: one entry
per artifact with a suggested removal command. Only artifacts rated safe and
present on disk are enabled by default. The plan is written as JSON together
with an executable shell script that confirms each removal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := resolveApps(args)
		if err != nil {
			return err
		}
		results, err := runScan(apps)
		if err != nil {
			return err
		}

		policy := plan.EnablePolicy(nil)
		if planAll {
			policy = func(a artifact.Artifact) bool { return a.Exists }
		}
		p := plan.FromResults(results, policy)

		report.WriteSummary(os.Stdout, results)
		sink.Info("Plan %s: %d entries, %d enabled", p.ID, len(p.Entries), len(p.Enabled()))

		dir, err := outputDir()
		if err != nil {
			return err
		}
		planPath := filepath.Join(dir, "plan.json")
		if err := p.SaveJSON(planPath); err != nil {
			return fmt.Errorf("writing plan: %w", err)
		}
		sink.Success("Wrote deletion plan to %s", planPath)

		if planNoScript {
			return nil
		}
		scriptPath := filepath.Join(dir, "delete.sh")
		opts := plan.ScriptOptions{OnlyEnabled: true, PromptEach: true}
		if err := p.SaveScript(scriptPath, opts); err != nil {
			return fmt.Errorf("writing deletion script: %w", err)
		}
		sink.Success("Wrote deletion script to %s", scriptPath)
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planAll, "all", false, "enable every existing artifact, not just safe ones")
	planCmd.Flags().BoolVar(&planNoScript, "no-script", false, "skip writing the shell script")
	planCmd.Flags().BoolVar(&scanDeepHome, "deep-home", false, "also walk the home directory for name matches")
	rootCmd.AddCommand(planCmd)
}
