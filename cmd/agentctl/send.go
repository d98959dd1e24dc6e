package main

import (
	"fmt"

	"github.com/agentwire/agentwire/internal/wire"
	"github.com/spf13/cobra"
)

var sendFrom string

func init() {
	cmd := newSendCmd()
	cmd.Flags().StringVar(&sendFrom, "from", "/agentctl", "Sender agent path")
	addSolipsismFlag(cmd)
	rootCmd.AddCommand(cmd)
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <recipientPath> <verb> [<resource> <value>]...",
		Short: "Build a message and send it to an agent",
		Long: `send builds a TLV message with the given verb and resource/value
fields and sends it to recipientPath.

Example:
  agentctl send /b set color blue
  agentctl send /b create color blue flag 1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(args)
		},
	}
	return cmd
}

func runSend(args []string) error {
	recipientPath := args[0]
	verb := wire.ParseVerb(args[1])
	fields := args[2:]
	if len(fields)%2 != 0 {
		return fmt.Errorf("resource/value arguments must come in pairs, got %d", len(fields))
	}

	ctx, err := loadContext()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	sender := ctx.Registry.DeclareAgent(sendFrom)
	recipient := ctx.Registry.GetAgentKey(recipientPath)
	if recipient == wire.NotAnAgent {
		return fmt.Errorf("unknown recipient %q", recipientPath)
	}

	m := wire.NewVerb(verb)
	m.SetSender(sender)
	m.SetRecipient(recipient)

	maxBody := ctx.Agents.GetMaxBodySize(recipient)
	if maxBody == 0 {
		maxBody = wire.Cap
	}

	for i := 0; i < len(fields); i += 2 {
		name, value := fields[i], fields[i+1]
		key := ctx.Registry.GetResourceKey(name)
		if key == wire.NotAResource {
			printVerbose("unknown resource %q, declaring as OCTET_STR\n", name)
			key = ctx.Registry.DeclareResource(name, "OCTET_STR")
		}
		if err := ctx.Codec.AppendString(&m, key, len(value), []byte(value), maxBody); err != nil {
			return fmt.Errorf("append %s=%s: %w", name, value, err)
		}
	}

	if err := ctx.Transport.Send(&m); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"sender":    sendFrom,
			"recipient": recipientPath,
			"verb":      verb.String(),
			"bodySize":  m.BodySize(),
		})
	}
	printInfo("sent %s from %s to %s (%d body bytes)\n", verb, sendFrom, recipientPath, m.BodySize())
	return nil
}
