package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
)

func (a *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the settings file",
		// Only the printer is needed; no session is opened.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.effectiveConfig(cmd)
			if err != nil {
				return err
			}
			path := a.flags.configPath
			if path == "" {
				if path, err = config.DefaultFilePath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveFile(path, config.FileFromConfig(cfg)); err != nil {
				return fmt.Errorf("write settings: %w", err)
			}
			out, err := newPrinter(a.Out, a.flags.output)
			if err != nil {
				return err
			}
			return out.message("wrote %s", path)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.effectiveConfig(cmd)
			if err != nil {
				return err
			}
			out, err := newPrinter(a.Out, a.flags.output)
			if err != nil {
				return err
			}
			file := config.FileFromConfig(cfg)
			if file.Session.EncryptionKey != "" {
				file.Session.EncryptionKey = "********"
			}
			if file.Session.RedisPassword != "" {
				file.Session.RedisPassword = "********"
			}
			if file.Session.DatabaseURL != "" {
				file.Session.DatabaseURL = "********"
			}
			if out.json() {
				return out.render(file, nil, nil)
			}
			return out.render(nil, []string{"SETTING", "VALUE"}, [][]string{
				{"api_base_url", file.BaseURL},
				{"api_prefix", orDash(file.APIPrefix)},
				{"endpoint", cfg.Endpoint()},
				{"http_timeout_seconds", fmt.Sprint(file.TimeoutSeconds)},
				{"session.backend", file.Session.Backend},
				{"session.path", orDash(file.Session.Path)},
				{"session.encryption_key", orDash(file.Session.EncryptionKey)},
				{"session.redis_addr", file.Session.RedisAddr},
				{"log.level", file.Log.Level},
				{"log.format", file.Log.Format},
			})
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}

// effectiveConfig loads settings and applies the global flag overrides.
func (a *App) effectiveConfig(cmd *cobra.Command) (config.ClientConfig, error) {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		if a.flags.configPath == "" || !errors.Is(err, os.ErrNotExist) {
			return config.ClientConfig{}, err
		}
		// init may target a file that does not exist yet.
		cfg = config.LoadClientConfig()
	}
	if a.flags.api != "" {
		cfg.BaseURL = config.NormalizeBaseURL(a.flags.api)
	}
	if cmd.Flags().Changed("prefix") {
		cfg.APIPrefix = config.NormalizePrefix(a.flags.prefix)
	}
	if a.flags.session != "" {
		cfg.Session.Backend = a.flags.session
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	return cfg, cfg.Validate()
}
