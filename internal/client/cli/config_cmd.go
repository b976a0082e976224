package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/client/iocli"
	"github.com/iudanet/finkeeper/internal/config"
	"github.com/iudanet/finkeeper/internal/validation"
)

// configKeys ключи, которые можно менять через config set
var configKeys = []string{
	"server.url",
	"server.user",
	"insights.base_url",
	"insights.model",
	"insights.timeout_seconds",
	"display.currency",
	"display.page_size",
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient(a.opts.ConfigPath)
			if err != nil {
				return err
			}
			printConfig(iocli.NewStream(cmd.InOrStdin(), cmd.OutOrStdout()), a.opts.ConfigPath, cfg)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting",
		Long:      "Change one setting. Keys: " + strings.Join(configKeys, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadClient(a.opts.ConfigPath)
			if err != nil {
				return err
			}
			if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveClient(a.opts.ConfigPath, cfg); err != nil {
				return err
			}
			cmd.Printf("%s updated.\n", args[0])
			return nil
		},
	}

	setKeyCmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store the insights API key (input is hidden)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetKey(iocli.NewStdio(), a.opts.ConfigPath)
		},
	}

	cmd.AddCommand(setCmd, setKeyCmd)
	return cmd
}

func printConfig(io iocli.IO, path string, cfg config.Client) {
	io.Printf("  Config file: %s\n", path)
	io.Println()
	io.Println("  [Server]")
	io.Printf("    URL:  %s\n", cfg.Server.URL)
	io.Printf("    User: %s\n", cfg.Server.User)
	io.Println()
	io.Println("  [Storage]")
	io.Printf("    Cache: %s\n", cfg.Storage.DBPath)
	io.Println()
	io.Println("  [Insights]")
	if cfg.Insights.APIKey != "" {
		io.Printf("    API key: %s\n", maskAPIKey(cfg.Insights.APIKey))
	} else {
		io.Println("    API key: not configured")
	}
	if cfg.Insights.BaseURL != "" {
		io.Printf("    Base URL: %s\n", cfg.Insights.BaseURL)
	}
	if cfg.Insights.Model != "" {
		io.Printf("    Model:    %s\n", cfg.Insights.Model)
	}
	io.Printf("    Timeout:  %s\n", cfg.Insights.Timeout())
	io.Println()
	io.Println("  [Display]")
	io.Printf("    Currency:  %s\n", cfg.Display.Currency)
	io.Printf("    Page size: %d\n", cfg.Display.PageSize)
}

func setConfigValue(cfg *config.Client, key, value string) error {
	switch key {
	case "server.url":
		cfg.Server.URL = strings.TrimRight(value, "/")
	case "server.user":
		cfg.Server.User = value
	case "insights.base_url":
		cfg.Insights.BaseURL = value
	case "insights.model":
		cfg.Insights.Model = value
	case "insights.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout must be a positive number of seconds")
		}
		cfg.Insights.TimeoutSeconds = n
	case "display.currency":
		value = strings.ToUpper(value)
		if err := validation.ValidateCurrency(value); err != nil {
			return err
		}
		cfg.Display.Currency = value
	case "display.page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("page size must be a positive number")
		}
		cfg.Display.PageSize = n
	default:
		return fmt.Errorf("unknown key %q, expected one of: %s", key, strings.Join(configKeys, ", "))
	}
	return nil
}

func runSetKey(io iocli.IO, path string) error {
	key, err := io.ReadPassword("Insights API key: ")
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	cfg, err := config.ReadClient(path)
	if err != nil {
		return err
	}
	cfg.Insights.APIKey = key
	if err := config.SaveClient(path, cfg); err != nil {
		return err
	}

	io.Printf("API key saved to %s\n", path)
	return nil
}
