package cli

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/grahamcooke/apphound/internal/plan"
	"github.com/grahamcooke/apphound/internal/security"
	"github.com/grahamcooke/apphound/internal/ui"
)

var (
	cleanPlanPath    string
	cleanExecute     bool
	cleanInteractive bool
	cleanPrompt      bool
	cleanForce       bool
	cleanStopOnError bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Execute a previously generated deletion plan",
	Long: `Clean reads a deletion plan and removes the enabled entries. Without
--execute it only prints what would be removed. With --interactive it opens a
review screen where entries can be toggled before anything is deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlan()
		if err != nil {
			return err
		}

		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		validator := security.NewPathValidator(home)
		remover := plan.NewRemover(sink, validator)

		if cleanInteractive {
			if !cleanExecute {
				return fmt.Errorf("--interactive requires --execute; the review screen performs real deletions")
			}
			confirmed, removed, err := ui.RunReview(p, func(e plan.Entry) error {
				report := remover.Remove([]plan.Entry{e}, plan.RemoveOptions{Force: true})
				if len(report.Failed) > 0 {
					return report.Failed[0].Err
				}
				return nil
			})
			if err != nil {
				return err
			}
			if !confirmed {
				sink.Info("No entries removed.")
				return nil
			}
			sink.Success("Removed %d artifacts", removed)
			return nil
		}

		result := remover.Remove(p.Entries, plan.RemoveOptions{
			DryRun:      !cleanExecute,
			Prompt:      cleanPrompt,
			Force:       cleanForce,
			StopOnError: cleanStopOnError,
		})

		sink.Info("Removed: %d, failed: %d, skipped: %d",
			len(result.Succeeded), len(result.Failed), len(result.Skipped))
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d removals failed", len(result.Failed))
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanPlanPath, "plan", "", "plan file (default is <output-dir>/plan.json)")
	cleanCmd.Flags().BoolVar(&cleanExecute, "execute", false, "actually delete; the default is a dry run")
	cleanCmd.Flags().BoolVarP(&cleanInteractive, "interactive", "i", false, "review and toggle entries in a TUI before deleting")
	cleanCmd.Flags().BoolVar(&cleanPrompt, "prompt", false, "confirm each entry before deleting")
	cleanCmd.Flags().BoolVar(&cleanForce, "force", false, "attempt disabled entries too")
	cleanCmd.Flags().BoolVar(&cleanStopOnError, "stop-on-error", false, "abort on the first failed removal")
	rootCmd.AddCommand(cleanCmd)
}

func loadPlan() (plan.Plan, error) {
	path := cleanPlanPath
	if path == "" {
		dir, err := outputDir()
		if err != nil {
			return plan.Plan{}, err
		}
		path = filepath.Join(dir, "plan.json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("reading plan %s: %w", path, err)
	}
	return plan.LoadJSON(data)
}
