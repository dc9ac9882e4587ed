package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockbin/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if overwrite {
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}

			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Enable a supplier and set its API key (for example STOCKBIN_DIGIKEY_API_KEY) before looking up metadata.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-24s %s\n", "Data directory:", cfg.Paths.DataDir)
			fmt.Fprintf(out, "%-24s %s\n", "Log directory:", cfg.Paths.LogDir)
			fmt.Fprintf(out, "%-24s %s / %s\n", "Logging:", cfg.Logging.Level, cfg.Logging.Format)
			fmt.Fprintf(out, "%-24s %s\n", "Debounce window:", cfg.DebounceWindow())
			fmt.Fprintf(out, "%-24s %s\n", "Existence check:", yesNo(cfg.Lookup.ExistenceCheck))
			fmt.Fprintf(out, "%-24s %s\n", "Scanner monitor:", yesNo(cfg.Scanner.MonitorEnabled))

			rows := make([][]string, 0, len(cfg.Providers))
			for _, p := range cfg.Providers {
				rows = append(rows, []string{
					p.Name,
					yesNo(p.Enabled),
					p.BaseURL,
					yesNo(p.APIKey != ""),
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Supplier", "Enabled", "Base URL", "Key Set"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Enabled suppliers: %d\n", len(cfg.EnabledProviders()))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
