// Package cli wires the apphound command tree: scan, plan, clean, install,
// and config subcommands over the scanner and plan packages.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grahamcooke/apphound/internal/output"
)

var (
	cfgFile string
	sink    output.Sink = output.NopSink{}
)

const logo = ` _______  _______  _______         _______  __   __  __    _  ______
|   _   ||       ||       |       |   _   ||  | |  ||  |  | ||      |
|  |_|  ||    _  ||    _  | ____  |  |_|  ||  |_|  ||   |_| ||  _    |
|       ||   |_| ||   |_| ||____| |       ||       ||       || | |   |
|       ||    ___||    ___|       |       ||       ||  _    || |_|   |
|   _   ||   |    |   |          |   _   ||   _   || | |   ||       |
|__| |__||___|    |___|          |__| |__||__| |__||_|  |__||______|
`

var rootCmd = &cobra.Command{
	Use:   "apphound",
	Short: "Audit the filesystem footprint of installed applications.",
	Long: logo + `apphound finds every trace an application leaves on a macOS system:
the bundle itself, support files, caches, preferences, logs, and launch
agents. It writes CSV/JSON audit reports and can build and execute a
reviewed deletion plan.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(viper.GetString("loglevel"))
		if viper.GetBool("quiet") {
			sink = output.NopSink{}
		} else {
			sink = output.NewConsoleSink()
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "apps config file (default is ./apphound.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "directory for reports and plans (default is $HOME/.apphound/audit)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress console output")

	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig reads tool settings from the environment and an optional
// .apphound.yaml in the home directory. The apps config file is separate and
// handled by the config package.
func initConfig() {
	home, err := homedir.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	viper.AddConfigPath(home)
	viper.SetConfigName(".apphound")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("APPHOUND")
	viper.AutomaticEnv()

	viper.SetDefault("output-dir", filepath.Join(home, ".apphound", "audit"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	default:
		logrus.Fatalf("unknown log level %q", level)
	}
}

// outputDir resolves the report directory, creating it if needed.
func outputDir() (string, error) {
	dir := viper.GetString("output-dir")
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expanding output dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", expanded, err)
	}
	return expanded, nil
}
