package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grahamcooke/apphound/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the apps configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the parsed apps configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cfgFile
		if input == "" {
			input = config.DefaultFileName
		}
		path, err := config.ResolvePath(input)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter apphound.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			return fmt.Errorf("%s already exists", config.DefaultFileName)
		}
		starter := `apps:
  - name: Slack
    deep_home_search: false
  - name: PDF Expert
    additional_locations:
      - /opt/pdfexpert
    patterns:
      - "~/Documents/PDF Expert/**"
`
		if err := os.WriteFile(config.DefaultFileName, []byte(starter), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", config.DefaultFileName, err)
		}
		sink.Success("Wrote %s", config.DefaultFileName)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
