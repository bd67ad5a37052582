package database

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/stretchr/testify/require"
)

func TestOpenRecordStoreWithoutURIUsesMemory(t *testing.T) {
	ctx := context.Background()
	rs, err := OpenRecordStore(ctx, config.MongoDBConfig{})
	require.NoError(t, err)
	require.Nil(t, rs.Database())
	require.NoError(t, rs.Ping(ctx))

	id, err := rs.Insert(ctx, "things", map[string]interface{}{"a": "b"})
	require.NoError(t, err)
	_, found, err := rs.GetByID(ctx, "things", id)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, rs.Close(ctx))
}

func TestOpenRecordStoreGivesUpOnBadURI(t *testing.T) {
	prevAttempts, prevBackoff := connectAttempts, connectBackoff
	connectAttempts, connectBackoff = 2, time.Millisecond
	t.Cleanup(func() { connectAttempts, connectBackoff = prevAttempts, prevBackoff })

	_, err := OpenRecordStore(context.Background(), config.MongoDBConfig{URI: "not-a-mongo-uri", Timeout: time.Second})
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 2 attempts")
}
