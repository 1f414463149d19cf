package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVideo() *tubechat.Video {
	return &tubechat.Video{
		ID:          testVideoID,
		Title:       "Go Concurrency Patterns",
		Channel:     "Google for Developers",
		Description: "Goroutines and channels.",
	}
}

func testGraph() *tubechat.KnowledgeGraph {
	return &tubechat.KnowledgeGraph{
		Title:       "Go Concurrency Patterns",
		Summary:     "Channels connect goroutines.",
		MermaidCode: "mindmap\n  root((Go))",
		KeyPoints:   []tubechat.KeyPoint{{Title: "Goroutines", Description: "Cheap", Importance: tubechat.ImportanceHigh}},
		Connections: []tubechat.Connection{{From: "Goroutines", To: "Channels", Relationship: "use"}},
	}
}

func TestGraphService_SaveAndFind(t *testing.T) {
	t.Parallel()

	t.Run("round trips graph", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)
		ctx := context.Background()

		saved, err := svc.SaveGraph(ctx, testVideo(), testGraph())
		require.NoError(t, err)
		assert.Equal(t, sqlite.HashVideo(testVideo()), saved.MetadataHash)
		assert.False(t, saved.CreatedAt.IsZero())

		found, err := svc.FindGraph(ctx, testVideo())
		require.NoError(t, err)
		assert.Equal(t, testVideoID, found.VideoID)
		assert.Equal(t, testGraph(), found.Graph)
		assert.True(t, saved.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("replaces previous graph", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)
		ctx := context.Background()

		_, err := svc.SaveGraph(ctx, testVideo(), testGraph())
		require.NoError(t, err)

		updated := testGraph()
		updated.Summary = "Updated."
		_, err = svc.SaveGraph(ctx, testVideo(), updated)
		require.NoError(t, err)

		found, err := svc.FindGraph(ctx, testVideo())
		require.NoError(t, err)
		assert.Equal(t, "Updated.", found.Graph.Summary)
	})

	t.Run("changed metadata is a miss", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)
		ctx := context.Background()

		_, err := svc.SaveGraph(ctx, testVideo(), testGraph())
		require.NoError(t, err)

		edited := testVideo()
		edited.Description = "Edited description."
		_, err = svc.FindGraph(ctx, edited)

		require.Error(t, err)
		assert.Equal(t, tubechat.ENOTFOUND, tubechat.ErrorCode(err))
		assert.Contains(t, tubechat.ErrorMessage(err), "stale")
	})

	t.Run("missing graph is not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)

		_, err := svc.FindGraph(context.Background(), testVideo())

		require.Error(t, err)
		assert.Equal(t, tubechat.ENOTFOUND, tubechat.ErrorCode(err))
	})

	t.Run("rejects graph without mermaid code", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)

		_, err := svc.SaveGraph(context.Background(), testVideo(), &tubechat.KnowledgeGraph{Title: "t"})

		require.Error(t, err)
		assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
	})

	t.Run("rejects invalid video", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)

		_, err := svc.SaveGraph(context.Background(), &tubechat.Video{ID: "bad"}, testGraph())

		require.Error(t, err)
		assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
	})
}

func TestGraphService_DeleteGraph(t *testing.T) {
	t.Parallel()

	t.Run("deletes cached graph", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)
		ctx := context.Background()

		_, err := svc.SaveGraph(ctx, testVideo(), testGraph())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteGraph(ctx, testVideoID))

		_, err = svc.FindGraph(ctx, testVideo())
		assert.Equal(t, tubechat.ENOTFOUND, tubechat.ErrorCode(err))
	})

	t.Run("returns not found when nothing cached", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewGraphService(db)

		err := svc.DeleteGraph(context.Background(), testVideoID)

		require.Error(t, err)
		assert.Equal(t, tubechat.ENOTFOUND, tubechat.ErrorCode(err))
	})
}

func TestHashVideo(t *testing.T) {
	t.Parallel()

	base := testVideo()
	assert.Len(t, sqlite.HashVideo(base), 16)
	assert.Equal(t, sqlite.HashVideo(base), sqlite.HashVideo(testVideo()))

	shifted := testVideo()
	shifted.Title = base.Title + base.Channel[:1]
	shifted.Channel = base.Channel[1:]
	assert.NotEqual(t, sqlite.HashVideo(base), sqlite.HashVideo(shifted), "field boundaries must affect the hash")

	unrelated := testVideo()
	unrelated.URL = "https://youtu.be/" + testVideoID
	assert.Equal(t, sqlite.HashVideo(base), sqlite.HashVideo(unrelated), "URL is not part of the metadata hash")
}
