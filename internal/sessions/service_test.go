package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenResumeClose(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()

	r, err := svc.Open(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, r, 64)

	sess, err := svc.Resume(ctx, r)
	require.NoError(t, err)
	require.Equal(t, "owner-1", sess.OwnerID)
	require.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))

	require.NoError(t, svc.Close(ctx, r))
	_, err = svc.Resume(ctx, r)
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestResumeDropsExpiredSession(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Minute)
	ctx := context.Background()

	r, err := svc.Open(ctx, "owner-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	_, err = svc.Resume(ctx, r)
	require.ErrorIs(t, err, ErrUnknownSession)

	_, err = repo.Find(ctx, r)
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestResumeUnknownRefresh(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	_, err := svc.Resume(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestOpenRequiresOwner(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	_, err := svc.Open(context.Background(), "")
	require.Error(t, err)
}

func TestCloseUnknownRefreshIsNoop(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	require.NoError(t, svc.Close(context.Background(), "never-issued"))
}
