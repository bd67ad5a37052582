package contents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck/internal/store"
	"github.com/agentdeck/agentdeck/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func TestCreateWithoutPDFStoresEmptyLinkAndCode(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())

	id, _, err := repo.Create(ctx, "agent-1", "FAQ", "answer questions", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "agent-1", got.AgentID)
	require.Equal(t, "FAQ", got.ContentName)
	require.Equal(t, "answer questions", got.SubPrompt)
	require.Equal(t, "", got.PDFURL)
	require.Regexp(t, `^[0-9]{6}$`, got.ContentCode)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateAlwaysYieldsSixDigitCode(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())
	for i := 0; i < 200; i++ {
		id, code, err := repo.Create(ctx, "agent-1", "c", "", "")
		require.NoError(t, err)
		require.True(t, ValidCode(code), "bad code %q", code)
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, code, got.ContentCode)
	}
}

func TestListByAgentNewestFirst(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.SetClock(steppingClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), time.Minute))
	repo := NewRepository(ms)

	t1, _, err := repo.Create(ctx, "agent-1", "C1", "", "")
	require.NoError(t, err)
	t2, _, err := repo.Create(ctx, "agent-1", "C2", "", "")
	require.NoError(t, err)
	_, _, err = repo.Create(ctx, "agent-2", "other", "", "")
	require.NoError(t, err)

	list, err := repo.ListByAgent(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, t2, list[0].ID)
	require.Equal(t, t1, list[1].ID)
}

func TestListByAgentOrderingHoldsForManyRecords(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	// clock that jumps back and forth so insertion order differs from time order
	offsets := []int{5, 1, 9, 3, 3, 7, 0, 8}
	i := 0
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ms.SetClock(func() time.Time {
		t := base.Add(time.Duration(offsets[i%len(offsets)]) * time.Hour)
		i++
		return t
	})
	repo := NewRepository(ms)
	for range offsets {
		_, _, err := repo.Create(ctx, "agent-1", "c", "", "")
		require.NoError(t, err)
	}

	list, err := repo.ListByAgent(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, list, len(offsets))
	for k := 1; k < len(list); k++ {
		require.False(t, list[k-1].CreatedAt.Before(list[k].CreatedAt), "position %d out of order", k)
	}
}

func TestListByAgentEmpty(t *testing.T) {
	repo := NewRepository(store.NewMemoryStore())
	list, err := repo.ListByAgent(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUpdateIsFullOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())
	id, _, err := repo.Create(ctx, "agent-1", "Guide", "be brief", "https://example.com/a.pdf")
	require.NoError(t, err)
	before, _ := repo.GetByID(ctx, id)

	require.NoError(t, repo.Update(ctx, id, "Guide v2", nil, nil))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Guide v2", got.ContentName)
	require.Equal(t, "", got.SubPrompt)
	require.Equal(t, "", got.PDFURL)
	require.Equal(t, before.ContentCode, got.ContentCode)
	require.Equal(t, before.CreatedAt, got.CreatedAt)
	require.Equal(t, "agent-1", got.AgentID)

	sub, pdf := "long answers", "https://example.com/b.pdf"
	require.NoError(t, repo.Update(ctx, id, "Guide v3", &sub, &pdf))
	got, _ = repo.GetByID(ctx, id)
	require.Equal(t, sub, got.SubPrompt)
	require.Equal(t, pdf, got.PDFURL)
}

func TestUpdateMissingIsWriteError(t *testing.T) {
	repo := NewRepository(store.NewMemoryStore())
	err := repo.Update(context.Background(), "missing", "x", nil, nil)
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetPDFTouchesOnlyLink(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())
	id, _, _ := repo.Create(ctx, "agent-1", "Manual", "sub", "")

	require.NoError(t, repo.SetPDF(ctx, id, "https://files/manual.pdf"))
	got, _ := repo.GetByID(ctx, id)
	require.Equal(t, "https://files/manual.pdf", got.PDFURL)
	require.Equal(t, "sub", got.SubPrompt)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())
	id, _, _ := repo.Create(ctx, "agent-1", "x", "", "")

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStoreFailuresAreTyped(t *testing.T) {
	ctx := context.Background()
	fs := storetest.NewFaultStore()
	repo := NewRepository(fs)
	id, _, err := repo.Create(ctx, "agent-1", "x", "", "")
	require.NoError(t, err)

	fs.FailQuery(Collection)
	_, err = repo.ListByAgent(ctx, "agent-1")
	var rerr *store.ReadError
	require.ErrorAs(t, err, &rerr)

	fs.FailGet(Collection)
	_, err = repo.GetByID(ctx, id)
	require.ErrorAs(t, err, &rerr)

	fs.FailDelete(id, nil)
	err = repo.Delete(ctx, id)
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	require.True(t, errors.Is(err, storetest.ErrInjected))

	fs.FailInsert(Collection)
	_, _, err = repo.Create(ctx, "agent-1", "y", "", "")
	require.ErrorAs(t, err, &werr)
}

func TestListByCodeReturnsCollisions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore(), WithCodeGenerator(func() string { return "424242" }))
	a, _, _ := repo.Create(ctx, "agent-1", "a", "", "")
	b, _, _ := repo.Create(ctx, "agent-2", "b", "", "")

	list, err := repo.ListByCode(ctx, "424242")
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	require.ElementsMatch(t, []string{a, b}, ids)
}

func TestValidCode(t *testing.T) {
	require.True(t, ValidCode("000123"))
	require.False(t, ValidCode("12345"))
	require.False(t, ValidCode("12a456"))
	require.False(t, ValidCode("1234567"))
	for i := 0; i < 1000; i++ {
		require.True(t, ValidCode(NewCode()))
	}
}
