package agents

import (
	"context"

	"github.com/agentdeck/agentdeck/internal/store"
)

// Repository performs CRUD over Agent records. Delete cascades to content.
type Repository struct {
	store   store.Store
	cascade *Coordinator
}

func NewRepository(s store.Store, cascade *Coordinator) *Repository {
	return &Repository{store: s, cascade: cascade}
}

// Create inserts a new agent for ownerID with a server-assigned creation time.
func (r *Repository) Create(ctx context.Context, ownerID, agentName, prompt string) (string, error) {
	fields := store.Fields{
		"ownerId":   ownerID,
		"agentName": agentName,
		"prompt":    prompt,
	}
	id, err := r.store.Insert(ctx, Collection, fields, store.WithServerTimestamp("createdAt"))
	if err != nil {
		return "", &store.WriteError{Op: "insert", Collection: Collection, Err: err}
	}
	return id, nil
}

// ListByOwner returns the owner's agents in store order; empty when none.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Agent, error) {
	recs, err := r.store.Query(ctx, Collection, "ownerId", ownerID)
	if err != nil {
		return nil, &store.ReadError{Op: "query", Collection: Collection, Key: "ownerId=" + ownerID, Err: err}
	}
	out := make([]Agent, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decode(rec))
	}
	return out, nil
}

// GetByID returns nil, nil when the agent does not exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*Agent, error) {
	rec, found, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return nil, &store.ReadError{Op: "get", Collection: Collection, Key: id, Err: err}
	}
	if !found {
		return nil, nil
	}
	a := decode(rec)
	return &a, nil
}

// Update overwrites the agent's name and prompt. A missing id is reported as a
// *store.WriteError wrapping store.ErrNotFound.
func (r *Repository) Update(ctx context.Context, id, agentName, prompt string) error {
	fields := store.Fields{"agentName": agentName, "prompt": prompt}
	if err := r.store.UpdateFields(ctx, Collection, id, fields); err != nil {
		return &store.WriteError{Op: "update", Collection: Collection, ID: id, Err: err}
	}
	return nil
}

// Delete removes every content record of the agent and then the agent. When a
// content deletion fails the agent is kept and a *CascadeError is returned.
func (r *Repository) Delete(ctx context.Context, id string) (*CascadeResult, error) {
	return r.cascade.Run(ctx, id, r.deleteRecord)
}

func (r *Repository) deleteRecord(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Collection, id); err != nil {
		return &store.WriteError{Op: "delete", Collection: Collection, ID: id, Err: err}
	}
	return nil
}

func decode(rec store.Record) Agent {
	return Agent{
		ID:        rec.ID,
		OwnerID:   rec.String("ownerId"),
		AgentName: rec.String("agentName"),
		Prompt:    rec.String("prompt"),
		CreatedAt: rec.Time("createdAt"),
	}
}
