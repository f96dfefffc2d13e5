package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macroman/macroman/internal/infra/config"
	"github.com/macroman/macroman/internal/tool"
	"github.com/macroman/macroman/internal/tools"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools and their schemas",
		RunE:  runTools,
	}

	cmd.Flags().Bool("json", false, "Print the full discovery payload as JSON")

	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry := tool.NewRegistry()
	if err := tools.RegisterAll(registry, tools.Options{ServiceURL: cfg.ServiceURL}); err != nil {
		return err
	}
	if err := tool.RegisterDiscovery(registry); err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(tool.Describe(registry), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for descriptor := range registry.List() {
		line := descriptor.Name
		if descriptor.Description != "" {
			line += "  -  " + descriptor.Description
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
