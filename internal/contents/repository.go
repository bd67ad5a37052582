package contents

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/agentdeck/agentdeck/internal/store"
)

// Repository performs CRUD over Content records, each scoped to one agent.
type Repository struct {
	store   store.Store
	newCode func() string
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithCodeGenerator overrides the content code source.
func WithCodeGenerator(fn func() string) Option {
	return func(r *Repository) { r.newCode = fn }
}

func NewRepository(s store.Store, opts ...Option) *Repository {
	r := &Repository{
		store:   s,
		newCode: NewCode,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create inserts a new content record under agentID with a fresh content code
// and a server-assigned creation time. It returns the new id and the code.
func (r *Repository) Create(ctx context.Context, agentID, contentName, subPrompt, pdfURL string) (id, code string, err error) {
	code = r.newCode()
	fields := store.Fields{
		"agentId":     agentID,
		"contentName": contentName,
		"subPrompt":   subPrompt,
		"pdfUrl":      pdfURL,
		"contentCode": code,
	}
	id, err = r.store.Insert(ctx, Collection, fields, store.WithServerTimestamp("createdAt"))
	if err != nil {
		return "", "", &store.WriteError{Op: "insert", Collection: Collection, Err: err}
	}
	return id, code, nil
}

// ListByAgent returns the agent's content, most recent first.
func (r *Repository) ListByAgent(ctx context.Context, agentID string) ([]Content, error) {
	recs, err := r.store.Query(ctx, Collection, "agentId", agentID)
	if err != nil {
		return nil, &store.ReadError{Op: "query", Collection: Collection, Key: "agentId=" + agentID, Err: err}
	}
	out := r.decodeAll(recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListByCode returns every record carrying code. More than one match is
// possible because codes are not unique.
func (r *Repository) ListByCode(ctx context.Context, code string) ([]Content, error) {
	recs, err := r.store.Query(ctx, Collection, "contentCode", code)
	if err != nil {
		return nil, &store.ReadError{Op: "query", Collection: Collection, Key: "contentCode=" + code, Err: err}
	}
	return r.decodeAll(recs), nil
}

// GetByID returns nil, nil when the record does not exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*Content, error) {
	rec, found, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return nil, &store.ReadError{Op: "get", Collection: Collection, Key: id, Err: err}
	}
	if !found {
		return nil, nil
	}
	c := r.decode(rec)
	return &c, nil
}

// Update overwrites name, sub-prompt and PDF link. A nil subPrompt or pdfURL
// stores "" rather than keeping the previous value.
func (r *Repository) Update(ctx context.Context, id, contentName string, subPrompt, pdfURL *string) error {
	fields := store.Fields{
		"contentName": contentName,
		"subPrompt":   valueOrEmpty(subPrompt),
		"pdfUrl":      valueOrEmpty(pdfURL),
	}
	if err := r.store.UpdateFields(ctx, Collection, id, fields); err != nil {
		return &store.WriteError{Op: "update", Collection: Collection, ID: id, Err: err}
	}
	return nil
}

// SetPDF replaces only the PDF link, used after an upload.
func (r *Repository) SetPDF(ctx context.Context, id, pdfURL string) error {
	if err := r.store.UpdateFields(ctx, Collection, id, store.Fields{"pdfUrl": pdfURL}); err != nil {
		return &store.WriteError{Op: "update", Collection: Collection, ID: id, Err: err}
	}
	return nil
}

// Delete removes one record. Deleting an id that no longer exists succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, Collection, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return &store.WriteError{Op: "delete", Collection: Collection, ID: id, Err: err}
	}
	return nil
}

func (r *Repository) decodeAll(recs []store.Record) []Content {
	out := make([]Content, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.decode(rec))
	}
	return out
}

func (r *Repository) decode(rec store.Record) Content {
	created := rec.Time("createdAt")
	if created.IsZero() {
		// timestamp not yet materialised by the store; sorts as newest
		created = r.now()
	}
	return Content{
		ID:          rec.ID,
		AgentID:     rec.String("agentId"),
		ContentName: rec.String("contentName"),
		SubPrompt:   rec.String("subPrompt"),
		PDFURL:      rec.String("pdfUrl"),
		ContentCode: rec.String("contentCode"),
		CreatedAt:   created,
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
