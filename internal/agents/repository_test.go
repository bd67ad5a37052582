package agents

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/internal/store"
	"github.com/agentdeck/agentdeck/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

func newRepos(s store.Store) (*Repository, *contents.Repository) {
	cr := contents.NewRepository(s)
	return NewRepository(s, NewCoordinator(cr, 4)), cr
}

func TestAgentCRUD(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	ms.SetClock(func() time.Time { return fixed })
	repo, _ := newRepos(ms)

	id, err := repo.Create(ctx, "user-1", "Bot1", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "user-1", got.OwnerID)
	require.Equal(t, "Bot1", got.AgentName)
	require.Equal(t, "", got.Prompt)
	require.Equal(t, fixed, got.CreatedAt)

	require.NoError(t, repo.Update(ctx, id, "Bot1b", "be helpful"))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Bot1b", got.AgentName)
	require.Equal(t, "be helpful", got.Prompt)
	require.Equal(t, "user-1", got.OwnerID)
	require.Equal(t, fixed, got.CreatedAt)
}

func TestGetByIDMissingIsAbsentNotError(t *testing.T) {
	repo, _ := newRepos(store.NewMemoryStore())
	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListByOwnerFiltersAndIsEmptyWhenNone(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepos(store.NewMemoryStore())

	a, _ := repo.Create(ctx, "user-1", "A", "")
	_, _ = repo.Create(ctx, "user-2", "B", "")
	c, _ := repo.Create(ctx, "user-1", "C", "p")

	list, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.ElementsMatch(t, []string{a, c}, []string{list[0].ID, list[1].ID})
	for _, ag := range list {
		require.Equal(t, "user-1", ag.OwnerID)
	}

	none, err := repo.ListByOwner(ctx, "user-3")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestUpdateMissingAgentIsWriteError(t *testing.T) {
	repo, _ := newRepos(store.NewMemoryStore())
	err := repo.Update(context.Background(), "missing", "n", "p")
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateFailureIsWriteError(t *testing.T) {
	fs := storetest.NewFaultStore()
	fs.FailInsert(Collection)
	repo, _ := newRepos(fs)
	_, err := repo.Create(context.Background(), "user-1", "x", "")
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	require.ErrorIs(t, err, storetest.ErrInjected)
}

func TestListFailureIsReadError(t *testing.T) {
	fs := storetest.NewFaultStore()
	repo, _ := newRepos(fs)
	fs.FailQuery(Collection)
	_, err := repo.ListByOwner(context.Background(), "user-1")
	var rerr *store.ReadError
	require.ErrorAs(t, err, &rerr)

	fs.FailGet(Collection)
	_, err = repo.GetByID(context.Background(), "x")
	require.ErrorAs(t, err, &rerr)
}
