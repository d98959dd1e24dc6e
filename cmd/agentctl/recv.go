package main

import (
	"fmt"

	"github.com/agentwire/agentwire/internal/wire"
	"github.com/spf13/cobra"
)

var recvBlocking bool

func init() {
	cmd := newRecvCmd()
	cmd.Flags().BoolVar(&recvBlocking, "blocking", false, "Wait indefinitely instead of a single non-blocking poll")
	addSolipsismFlag(cmd)
	rootCmd.AddCommand(cmd)
}

func newRecvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recv <selfPath>",
		Short: "Receive one message and print its fields",
		Long: `recv polls selfPath's queue once (or blocks indefinitely with --blocking)
and prints the received message's verb, sender, and body size.

Example:
  agentctl recv /b
  agentctl recv /b --blocking`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecv(args)
		},
	}
	return cmd
}

func runRecv(args []string) error {
	selfPath := args[0]

	ctx, err := loadContext()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	self := ctx.Registry.GetAgentKey(selfPath)
	if self == wire.NotAnAgent {
		return fmt.Errorf("unknown agent %q", selfPath)
	}

	var m wire.Message
	var ok bool
	if recvBlocking {
		m, err = ctx.Transport.BlockingReceive(self)
		ok = err == nil
	} else {
		m, ok, err = ctx.Transport.Receive(self)
	}
	if err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	if !ok {
		if jsonOut {
			return printJSON(map[string]any{"received": false})
		}
		printInfo("no message available for %s\n", selfPath)
		return nil
	}

	if jsonOut {
		return printJSON(map[string]any{
			"received": true,
			"verb":     m.Verb().String(),
			"sender":   ctx.Registry.GetAgentPath(m.Sender()),
			"bodySize": m.BodySize(),
		})
	}
	printInfo("received %s from %s (%d body bytes)\n", m.Verb(), ctx.Registry.GetAgentPath(m.Sender()), m.BodySize())
	return nil
}
