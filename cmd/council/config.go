package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/council/internal/config"
)

var configYAML bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify council configuration.

Without arguments, displays the effective configuration and the files it came from.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value in the user config file
(or the --config file) and saves it. Project files and environment
variables are not copied into it.

Configuration is stored at ~/.config/council/config.yaml
Project-specific overrides can be placed in .council.yaml
Environment variables use the COUNCIL_ prefix, e.g. COUNCIL_COUNCIL_CHAIRMAN.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(2)(cmd, args); err != nil {
			return err
		}
		if len(args) > 0 && !config.IsKey(args[0]) {
			return fmt.Errorf("unknown configuration key: %s", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 2 {
			return setConfigKey(out, args[0], args[1])
		}

		var (
			cfg *config.Config
			err error
		)
		if configPath != "" {
			cfg, err = config.LoadFromPath(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if len(args) == 1 {
			value, err := config.GetValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		}
		if configYAML {
			return displayConfigYAML(out, cfg)
		}
		displayConfigSources(out)
		return displayAllConfig(out, cfg)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print the effective configuration as YAML")
}

// displayConfigSources prints which files the effective configuration
// was read from.
func displayConfigSources(w io.Writer) {
	if configPath != "" {
		fmt.Fprintf(w, "# config file: %s\n", configPath)
		return
	}

	user := config.GetUserConfigPath()
	if _, err := os.Stat(user); err != nil {
		user += " (not found)"
	}
	fmt.Fprintf(w, "# user config: %s\n", user)

	project := config.GetProjectConfigPath()
	if project == "" {
		project = "(none)"
	}
	fmt.Fprintf(w, "# project config: %s\n", project)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(w io.Writer, cfg *config.Config) error {
	for _, key := range config.Keys {
		value, err := config.GetValue(cfg, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}
	return nil
}

func displayConfigYAML(w io.Writer, cfg *config.Config) error {
	doc, err := config.ToYAML(cfg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

// setConfigKey sets one value in the user config file, or the --config
// file, and saves it. Only that file's own values are written back.
func setConfigKey(w io.Writer, key, value string) error {
	path := config.GetUserConfigPath()
	save := config.Save
	if configPath != "" {
		path = configPath
		save = func(cfg *config.Config) error { return config.SaveTo(cfg, configPath) }
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.SetValue(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}
