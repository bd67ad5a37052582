package main

import (
	"context"
	"errors"

	"github.com/agentdeck/agentdeck/internal/agents"
	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/spf13/cobra"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Agent operations",
	}
	var owner string
	list := &cobra.Command{
		Use:     "list",
		Short:   "List the agents of one owner",
		Example: `  agentctl agents list --owner 3f6c2a1e-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				repo := agents.NewRepository(b.store, nil)
				list, err := repo.ListByOwner(ctx, owner)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "owner id (the token subject)")
	cmd.AddCommand(list)
	return cmd
}

func newContentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contents",
		Short: "Content operations",
	}
	var agentID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List an agent's contents, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentID == "" {
				return errors.New("--agent is required")
			}
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				list, err := contents.NewRepository(b.store).ListByAgent(ctx, agentID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	list.Flags().StringVar(&agentID, "agent", "", "agent id")
	cmd.AddCommand(list)
	return cmd
}
