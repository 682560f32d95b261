package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grahamcooke/apphound/internal/report"
	"github.com/grahamcooke/apphound/pkg/utils"
)

var (
	reportCSVPath string
	reportMinSize string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the most recent scan without rescanning",
	Long: `Report reads the artifacts.json written by a previous scan and prints the
per-app summary again. With --csv it also re-exports the audit CSV, which is
useful after the original file has been edited or deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := outputDir()
		if err != nil {
			return err
		}
		jsonPath := filepath.Join(dir, "artifacts.json")
		results, err := report.LoadJSON(jsonPath)
		if err != nil {
			return fmt.Errorf("no previous scan found: %w (run 'apphound scan' first)", err)
		}

		if reportMinSize != "" {
			min, err := utils.ParseSize(reportMinSize)
			if err != nil {
				return fmt.Errorf("invalid --min-size: %w", err)
			}
			results = report.FilterMinSize(results, min)
		}

		report.WriteSummary(os.Stdout, results)

		if reportCSVPath != "" {
			if err := report.SaveCSV(reportCSVPath, results); err != nil {
				return fmt.Errorf("writing CSV report: %w", err)
			}
			sink.Success("Wrote CSV report to %s", reportCSVPath)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportCSVPath, "csv", "", "re-export the audit CSV to this path")
	reportCmd.Flags().StringVar(&reportMinSize, "min-size", "", "only include files of at least this size (e.g. 10MB)")
	rootCmd.AddCommand(reportCmd)
}
