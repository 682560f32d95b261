package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grahamcooke/apphound/internal/config"
	"github.com/grahamcooke/apphound/internal/installer"
)

var installCmd = &cobra.Command{
	Use:   "install <app name or installer path>",
	Short: "Launch an application's installer",
	Long: `Install runs the installer for an app. The argument is either a direct
path to a .pkg, .dmg, .app bundle, or executable, or the name of a configured
app whose installation_path is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		// A configured app name resolves through its installation_path.
		if cfgFile != "" {
			if path, err := config.ResolvePath(cfgFile); err == nil {
				if cfg, err := config.Load(path); err == nil {
					for _, app := range cfg.Apps {
						if app.Name == target && app.InstallationPath != "" {
							target = app.InstallationPath
							break
						}
					}
				}
			}
		}

		runner := installer.NewRunner(sink, nil)
		outcome := runner.Run(target)
		switch outcome.Status {
		case installer.StatusSuccess:
			return nil
		case installer.StatusManualActionRequired:
			return nil
		case installer.StatusNotFound:
			return fmt.Errorf("installer not found: %s", outcome.Path)
		default:
			return fmt.Errorf("installer failed: %s", outcome.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
