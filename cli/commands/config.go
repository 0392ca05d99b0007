package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yourusername/termreel/core/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage termreel configuration settings.

Settings are read from the config file, then TERMREEL_* environment
variables (TERMREEL_FPS, TERMREEL_RENDER_THEME, ...), then flags.`,
	}

	// Subcommands
	cmd.AddCommand(
		newConfigInitCommand(cli),
		newConfigSetCommand(cli),
		newConfigGetCommand(cli),
		newConfigShowCommand(cli),
		newConfigListCommand(cli),
		newConfigPathCommand(cli),
	)

	return cmd
}

// newConfigInitCommand creates the config init command
func newConfigInitCommand(cli *CLI) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cli.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.SaveToFile(config.DefaultConfig(), path); err != nil {
				return err
			}
			cli.Output.Success("Wrote " + path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// newConfigSetCommand creates the config set command
func newConfigSetCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a value in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			path := cli.configPath()

			// Edit the file alone so flags and environment are not persisted.
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.ValidateSettings(); err != nil {
				return err
			}
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			cli.Output.Success(fmt.Sprintf("Set %s = %s", key, value))
			return nil
		},
	}
}

// newConfigGetCommand creates the config get command
func newConfigGetCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print the effective value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !cli.viper.IsSet(key) {
				return fmt.Errorf("key not found: %s", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.viper.Get(key))
			return nil
		},
	}
}

// newConfigShowCommand creates the config show command
func newConfigShowCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cli.Config.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// newConfigListCommand creates the config list command
func newConfigListCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting key",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			keys := config.Keys()
			sort.Strings(keys)
			for _, key := range keys {
				if key == "command" {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
		},
	}
}

// newConfigPathCommand creates the config path command
func newConfigPathCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := cli.configPath()
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				cli.Output.Debug("file does not exist yet; run `termreel config init`")
			}
		},
	}
}
