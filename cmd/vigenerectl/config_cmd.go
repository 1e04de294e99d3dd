package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(flags *globalFlags) *cobra.Command {
	cmd := groupCommand(&cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Key != "" {
				cfg.Key = "[REDACTED]"
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
