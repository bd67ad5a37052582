package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/pkg/logger"
	"github.com/agentdeck/agentdeck/pkg/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ContentStore is the part of the content repository the coordinator needs.
type ContentStore interface {
	ListByAgent(ctx context.Context, agentID string) ([]contents.Content, error)
	Delete(ctx context.Context, contentID string) error
}

// CascadeResult records how far a cascade delete progressed.
type CascadeResult struct {
	AgentID string `json:"agentId"`
	// Matched is the number of content records found for the agent.
	Matched      int              `json:"matched"`
	Deleted      []string         `json:"deleted"`
	Failed       map[string]error `json:"-"`
	AgentDeleted bool             `json:"agentDeleted"`
}

// FailedIDs returns the content ids whose deletion failed, sorted.
func (r *CascadeResult) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CascadeError reports that one or more content deletions failed. The agent
// record was left in place; running the delete again finishes the cascade.
type CascadeError struct {
	Result *CascadeResult
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete of agent %s: %d of %d content deletions failed: %v",
		e.Result.AgentID, len(e.Result.Failed), e.Result.Matched, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// Coordinator deletes an agent's content before the agent itself.
type Coordinator struct {
	children    ContentStore
	concurrency int
	log         zerolog.Logger
}

// NewCoordinator returns a coordinator issuing at most concurrency sibling
// deletes at once (minimum 1).
func NewCoordinator(children ContentStore, concurrency int) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{children: children, concurrency: concurrency, log: logger.With("cascade")}
}

// Run deletes every content record of agentID (phase 1) and, only if all of
// them were removed, calls deleteAgent (phase 2). The returned result is never
// nil. A failed listing is returned unchanged; failed content deletions yield a
// *CascadeError. In both cases deleteAgent is not called.
func (c *Coordinator) Run(ctx context.Context, agentID string, deleteAgent func(context.Context, string) error) (*CascadeResult, error) {
	res := &CascadeResult{AgentID: agentID, Deleted: []string{}, Failed: map[string]error{}}

	children, err := c.children.ListByAgent(ctx, agentID)
	if err != nil {
		metrics.CascadeDeletes.WithLabelValues("error").Inc()
		return res, err
	}
	res.Matched = len(children)
	c.log.Debug().Str("agentId", agentID).Int("matched", res.Matched).Msg("cascade: deleting content")

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(c.concurrency)
	for _, child := range children {
		id := child.ID
		g.Go(func() error {
			err := c.children.Delete(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[id] = err
			} else {
				res.Deleted = append(res.Deleted, id)
			}
			// failures are collected per child; never cancel siblings
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(res.Deleted)
	metrics.CascadeChildrenDeleted.Add(float64(len(res.Deleted)))

	if len(res.Failed) > 0 {
		errs := make([]error, 0, len(res.Failed))
		for _, id := range res.FailedIDs() {
			errs = append(errs, res.Failed[id])
		}
		metrics.CascadeDeletes.WithLabelValues("partial").Inc()
		c.log.Warn().Str("agentId", agentID).Int("failed", len(res.Failed)).Int("deleted", len(res.Deleted)).
			Msg("cascade: content deletions failed, agent kept")
		return res, &CascadeError{Result: res, Err: errors.Join(errs...)}
	}

	if err := deleteAgent(ctx, agentID); err != nil {
		metrics.CascadeDeletes.WithLabelValues("error").Inc()
		return res, err
	}
	res.AgentDeleted = true
	metrics.CascadeDeletes.WithLabelValues("ok").Inc()
	c.log.Info().Str("agentId", agentID).Int("contents", len(res.Deleted)).Msg("cascade: agent deleted")
	return res, nil
}
