package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "agents", Fields{"ownerId": "u1", "agentName": "Bot1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, found, err := s.GetByID(ctx, "agents", id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Bot1", got.String("agentName"))

	require.NoError(t, s.UpdateFields(ctx, "agents", id, Fields{"agentName": "Bot2"}))
	got, _, err = s.GetByID(ctx, "agents", id)
	require.NoError(t, err)
	require.Equal(t, "Bot2", got.String("agentName"))
	require.Equal(t, "u1", got.String("ownerId"))

	require.NoError(t, s.Delete(ctx, "agents", id))
	_, found, err = s.GetByID(ctx, "agents", id)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreMissingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.GetByID(ctx, "agents", "nope")
	require.NoError(t, err)
	require.False(t, found)

	require.ErrorIs(t, s.UpdateFields(ctx, "agents", "nope", Fields{"x": "y"}), ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "agents", "nope"), ErrNotFound)
}

func TestMemoryStoreQueryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, _ := s.Insert(ctx, "contents", Fields{"agentId": "A"})
	_, _ = s.Insert(ctx, "contents", Fields{"agentId": "B"})
	c, _ := s.Insert(ctx, "contents", Fields{"agentId": "A"})

	recs, err := s.Query(ctx, "contents", "agentId", "A")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, a, recs[0].ID)
	require.Equal(t, c, recs[1].ID)

	none, err := s.Query(ctx, "contents", "agentId", "Z")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	require.NoError(t, s.Delete(ctx, "contents", a))
	recs, err = s.Query(ctx, "contents", "agentId", "A")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, c, recs[0].ID)
}

func TestMemoryStoreServerTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })

	id, err := s.Insert(ctx, "agents", Fields{"createdAt": "client-value"}, WithServerTimestamp("createdAt"))
	require.NoError(t, err)
	got, _, _ := s.GetByID(ctx, "agents", id)
	require.Equal(t, fixed, got.Time("createdAt"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	f := Fields{"agentName": "orig"}
	id, _ := s.Insert(ctx, "agents", f)
	f["agentName"] = "mutated"

	got, _, _ := s.GetByID(ctx, "agents", id)
	got.Fields["agentName"] = "mutated-again"

	again, _, _ := s.GetByID(ctx, "agents", id)
	require.Equal(t, "orig", again.String("agentName"))
}

func TestToRecordNormalisesBSONValues(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	oid := primitive.NewObjectID()
	rec := toRecord(bson.M{"_id": oid, "createdAt": primitive.NewDateTimeFromTime(ts), "agentName": "x"})
	require.Equal(t, oid.Hex(), rec.ID)
	require.Equal(t, ts, rec.Time("createdAt"))
	require.Equal(t, "x", rec.String("agentName"))
	_, hasID := rec.Fields["_id"]
	require.False(t, hasID)
}
