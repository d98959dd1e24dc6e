package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	agentMaxCount int
	agentMaxSize  int
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Create or destroy agent queues",
}

func init() {
	create := &cobra.Command{
		Use:   "create <path>",
		Short: "Create an agent's queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgentCreate(args)
		},
	}
	create.Flags().IntVar(&agentMaxCount, "max-count", 5, "Maximum queued messages")
	create.Flags().IntVar(&agentMaxSize, "max-size", 4096, "Maximum message body size in bytes")
	addSolipsismFlag(create)

	destroy := &cobra.Command{
		Use:   "destroy <path>",
		Short: "Destroy an agent's queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgentDestroy(args)
		},
	}
	addSolipsismFlag(destroy)

	agentCmd.AddCommand(create, destroy)
	rootCmd.AddCommand(agentCmd)
}

func runAgentCreate(args []string) error {
	path := args[0]
	ctx, err := loadContext()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	key, err := ctx.Agents.CreateAgentWithLimits(path, agentMaxCount, agentMaxSize, true)
	if err != nil {
		return fmt.Errorf("create agent %q: %w", path, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"path": path, "key": key, "maxCount": agentMaxCount, "maxSize": agentMaxSize})
	}
	printInfo("created agent %s (key=%d, maxCount=%d, maxSize=%d)\n", path, key, agentMaxCount, agentMaxSize)
	return nil
}

func runAgentDestroy(args []string) error {
	path := args[0]
	ctx, err := loadContext()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	if err := ctx.Agents.DestroyAgent(path); err != nil {
		return fmt.Errorf("destroy agent %q: %w", path, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"path": path, "destroyed": true})
	}
	printInfo("destroyed agent %s\n", path)
	return nil
}
