package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/learnify-engine/internal/config"
)

const masked = "********"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the engine configuration",
	}

	var envFile string
	check := &cobra.Command{
		Use:   "check [config.yaml]",
		Short: "Load and validate a configuration, then print the effective values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			var envFiles []string
			if envFile != "" {
				envFiles = append(envFiles, envFile)
			}

			cfg, err := config.Load(path, envFiles...)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}

			redact(cfg)
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	check.Flags().StringVar(&envFile, "env-file", "", "dotenv file loaded before the environment")

	cmd.AddCommand(check)
	return cmd
}

func redact(cfg *config.Config) {
	for _, s := range []*string{&cfg.Auth.JWTSecret, &cfg.Database.Password, &cfg.Redis.Password} {
		if *s != "" {
			*s = masked
		}
	}
}
