package main

import (
	"github.com/agentwire/agentwire/pkg/agentwire"
	"github.com/agentwire/agentwire/pkg/transport"
	"github.com/spf13/cobra"
)

var useSolipsism bool

func addSolipsismFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&useSolipsism, "solipsism", false, "Use the in-process backend instead of real POSIX queues (no cross-process delivery)")
}

func loadContext() (*agentwire.Context, error) {
	mode := transport.ModeOSQueue
	if useSolipsism {
		mode = transport.ModeSolipsism
	}
	printVerbose("loading registry config: %s\n", configPath)
	return agentwire.New(configPath, false, mode)
}
