package main

import (
	"context"

	"github.com/agentdeck/agentdeck/internal/agents"
	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/spf13/cobra"
)

type purgeReport struct {
	*agents.CascadeResult
	Failed map[string]string `json:"failed,omitempty"`
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <agentId>",
		Short: "Delete an agent and all of its contents",
		Long: `Delete every content of the agent, then the agent itself.

If any content cannot be deleted the agent is kept, the progress is printed
and the command exits 1. Running it again finishes the deletion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				cr := contents.NewRepository(b.store)
				repo := agents.NewRepository(b.store, agents.NewCoordinator(cr, b.concurrency))
				res, err := repo.Delete(ctx, args[0])
				if res != nil {
					report := purgeReport{CascadeResult: res}
					if len(res.Failed) > 0 {
						report.Failed = map[string]string{}
						for id, ferr := range res.Failed {
							report.Failed[id] = ferr.Error()
						}
					}
					if perr := printJSON(cmd.OutOrStdout(), report); perr != nil && err == nil {
						err = perr
					}
				}
				return err
			})
		},
	}
}
