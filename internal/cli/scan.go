package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/config"
	"github.com/grahamcooke/apphound/internal/progress"
	"github.com/grahamcooke/apphound/internal/report"
	"github.com/grahamcooke/apphound/internal/scanner"
)

var (
	scanDeepHome bool
	scanNoReport bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [app name...]",
	Short: "Scan for application artifacts and write audit reports",
	Long: `Scan audits the filesystem footprint of the named applications, or of
every app in the config file when no names are given. Results are written as
CSV and JSON reports under the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := resolveApps(args)
		if err != nil {
			return err
		}

		results, err := runScan(apps)
		if err != nil {
			return err
		}

		report.WriteSummary(os.Stdout, results)

		if scanNoReport {
			return nil
		}

		dir, err := outputDir()
		if err != nil {
			return err
		}
		csvPath := filepath.Join(dir, "audit.csv")
		jsonPath := filepath.Join(dir, "artifacts.json")
		if err := report.SaveCSV(csvPath, results); err != nil {
			return fmt.Errorf("writing CSV report: %w", err)
		}
		sink.Success("Wrote CSV report to %s", csvPath)
		if err := report.SaveJSON(jsonPath, results); err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
		sink.Success("Wrote JSON report to %s", jsonPath)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanDeepHome, "deep-home", false, "also walk the home directory for name matches")
	scanCmd.Flags().BoolVar(&scanNoReport, "no-report", false, "print the summary without writing report files")
	rootCmd.AddCommand(scanCmd)
}

// resolveApps builds the app list from positional names, the config file, or
// both. Names given on the command line are scanned even when absent from
// the config.
func resolveApps(names []string) ([]config.App, error) {
	var apps []config.App

	switch {
	case cfgFile != "":
		path, err := config.ResolvePath(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		apps = cfg.Apps
	case len(names) == 0:
		cfg, err := config.Load(config.DefaultFileName)
		if err != nil {
			return nil, fmt.Errorf("no app names given and no %s in the current directory", config.DefaultFileName)
		}
		apps = cfg.Apps
	}

	for _, name := range names {
		if existing := findApp(apps, name); existing != nil {
			continue
		}
		apps = append(apps, config.App{Name: name})
	}

	if len(names) > 0 {
		filtered := apps[:0]
		for _, app := range apps {
			for _, name := range names {
				if app.Name == name {
					filtered = append(filtered, app)
					break
				}
			}
		}
		apps = filtered
	}

	if len(apps) == 0 {
		return nil, fmt.Errorf("no applications to scan: pass app names or provide a config file")
	}

	if scanDeepHome {
		for i := range apps {
			apps[i].DeepHomeSearch = true
		}
	}
	return apps, nil
}

func findApp(apps []config.App, name string) *config.App {
	for i := range apps {
		if apps[i].Name == name {
			return &apps[i]
		}
	}
	return nil
}

// runScan executes a batch scan with live progress on the console sink.
func runScan(apps []config.App) ([]artifact.ScanResult, error) {
	reporter := progress.NewReporter()
	s := scanner.New(scanner.WithReporter(reporter))

	updates := reporter.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			switch update.Phase {
			case progress.PhaseComplete:
				sink.Info("%s", progress.Format(update))
			case progress.PhaseError:
				sink.Error("%s", progress.Format(update))
			}
		}
	}()

	results := s.ScanAll(apps)
	reporter.Unsubscribe(updates)
	<-done

	for i := range results {
		for _, msg := range results[i].Errors {
			sink.Warning("%s: %s", results[i].AppName, msg)
		}
	}
	return results, nil
}
