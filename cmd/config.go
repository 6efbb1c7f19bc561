package cmd

import (
	"os"

	"github.com/benoctopus/devflow/internal/config"
	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/fuzzy"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change devflow configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Show every setting after applying environment variables
(DEVFLOW_DB_PATH, DEVFLOW_LOG_LEVEL, DEVFLOW_FUZZY_FINDER), config.yaml and defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.yaml with the current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in config.yaml",
	Long: `Change one setting and write config.yaml.

Keys: db_path, log_level, default_days, heatmap_weeks, vcs_stats, fuzzy_finder

Examples:
  devflow config set default_days 14
  devflow config set vcs_stats false`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE:      runConfigSet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check config.yaml for invalid values",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config.yaml")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the configuration, applying --db on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	finder := cfg.FuzzyFinder
	if finder == config.DefaultFuzzyFinder {
		if fuzzy.IsAvailable() {
			finder += " (" + fuzzy.GetAvailableFinder() + ")"
		} else {
			finder += " (none found, numbered prompt)"
		}
	}

	out := display.New(cmd.OutOrStdout())
	out.Header("Configuration")
	out.Field("config file", path)
	out.Field("db_path", cfg.DBPath)
	out.Field("log_level", cfg.LogLevel)
	out.Field("default_days", cfg.DefaultDays)
	out.Field("heatmap_weeks", cfg.HeatmapWeeks)
	out.Field("vcs_stats", cfg.VCSStats)
	out.Field("fuzzy_finder", finder)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	out := display.New(cmd.OutOrStdout())
	if _, err := os.Stat(path); err == nil && !configInitForce {
		display.New(cmd.ErrOrStderr()).Warningf("%s already exists; use --force to overwrite", path)
		return nil
	}

	// --db is a per-run override and is not persisted
	cfg, err := config.LoadConfig()
	if err != nil {
		return eris.Wrap(err, "failed to load configuration")
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	out.Successf("Wrote %s", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return eris.Wrap(err, "failed to load configuration")
	}

	key, value := args[0], args[1]
	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	display.New(cmd.OutOrStdout()).Successf("%s set to %s", key, value)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	if err := config.ValidateConfigFile(path); err != nil {
		return err
	}
	display.New(cmd.OutOrStdout()).Successf("%s is valid", path)
	return nil
}
