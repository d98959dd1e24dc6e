package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the name registry",
}

func init() {
	dump := &cobra.Command{
		Use:   "dump",
		Short: "List every declared agent and resource with its assigned key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryDump()
		},
	}
	registryCmd.AddCommand(dump)
	rootCmd.AddCommand(registryCmd)
}

func runRegistryDump() error {
	ctx, err := loadContext()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	agentPaths := ctx.Registry.AgentPaths()
	sort.Strings(agentPaths)
	resourceNames := ctx.Registry.ResourceNames()
	sort.Strings(resourceNames)

	if jsonOut {
		type agentRow struct {
			Path string `json:"path"`
			Key  uint32 `json:"key"`
		}
		type resourceRow struct {
			Name string `json:"name"`
			Key  uint32 `json:"key"`
			Type string `json:"type"`
		}
		agents := make([]agentRow, 0, len(agentPaths))
		for _, p := range agentPaths {
			agents = append(agents, agentRow{Path: p, Key: uint32(ctx.Registry.GetAgentKey(p))})
		}
		resources := make([]resourceRow, 0, len(resourceNames))
		for _, n := range resourceNames {
			key := ctx.Registry.GetResourceKey(n)
			resources = append(resources, resourceRow{Name: n, Key: uint32(key), Type: ctx.Registry.GetResourceType(key).String()})
		}
		return printJSON(map[string]any{"agents": agents, "resources": resources})
	}

	printInfo("agents:\n")
	for _, p := range agentPaths {
		printInfo("  %-20s key=%d\n", p, ctx.Registry.GetAgentKey(p))
	}
	printInfo("resources:\n")
	for _, n := range resourceNames {
		key := ctx.Registry.GetResourceKey(n)
		printInfo("  %-20s key=%-12d type=%s\n", n, key, ctx.Registry.GetResourceType(key))
	}
	return nil
}
