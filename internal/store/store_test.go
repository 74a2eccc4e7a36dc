package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsblur-sync/blursync/internal/database"
	"newsblur-sync/blursync/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(database.NewConfig(filepath.Join(t.TempDir(), "cache.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

var syncedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUpsertFeed_Overwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	feed := models.Feed{ID: 101, Title: "Old", Active: true, NeutralCount: 3, SyncedAt: syncedAt}
	require.NoError(t, s.UpsertFeed(ctx, feed))

	feed.Title = "New"
	feed.NeutralCount = 0
	require.NoError(t, s.UpsertFeed(ctx, feed))

	feeds, err := s.ListFeeds(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "New", feeds[0].Title)
	assert.Zero(t, feeds[0].NeutralCount)
	assert.True(t, feeds[0].Active)
	assert.True(t, syncedAt.Equal(feeds[0].SyncedAt))
}

func TestUpdateFeedCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFeed(ctx, models.Feed{ID: 7, Title: "Seven", SyncedAt: syncedAt}))

	changed, err := s.UpdateFeedCounts(ctx, models.FeedCount{FeedID: 7, Positive: 1, Neutral: 2, Negative: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	feed, err := s.GetFeed(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Seven", feed.Title)
	assert.Equal(t, 1, feed.PositiveCount)
	assert.Equal(t, 2, feed.NeutralCount)
	assert.Equal(t, 3, feed.NegativeCount)
}

func TestUpdateFeedCounts_UnknownFeedIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	changed, err := s.UpdateFeedCounts(ctx, models.FeedCount{FeedID: 999, Neutral: 5})
	require.NoError(t, err)
	assert.Zero(t, changed)

	_, err = s.GetFeed(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFolderMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFolder(ctx, models.Folder{Name: "Tech", SyncedAt: syncedAt}))
	require.NoError(t, s.UpsertFolder(ctx, models.Folder{Name: "Tech", SyncedAt: syncedAt}))
	for _, id := range []int64{102, 101, 101} {
		require.NoError(t, s.UpsertFeedFolder(ctx, models.FeedFolder{FeedID: id, FolderName: "Tech"}))
	}

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Tech", folders[0].Name)

	ids, err := s.FolderFeedIDs(ctx, "Tech")
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, ids)
}

func TestUpsertFeedFolder_RequiresFolder(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertFeedFolder(context.Background(), models.FeedFolder{FeedID: 1, FolderName: "Missing"})
	assert.Error(t, err)
}

func TestStoriesAndComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := models.Story{ID: "a", FeedID: 7, Title: "Older", SyncedAt: syncedAt,
		Date: sql.NullTime{Time: syncedAt.Add(-time.Hour), Valid: true}}
	newer := models.Story{ID: "b", FeedID: 7, Title: "Newer", SyncedAt: syncedAt,
		Date: sql.NullTime{Time: syncedAt, Valid: true}}
	otherFeed := models.Story{ID: "a", FeedID: 8, Title: "Same id, other feed", SyncedAt: syncedAt}

	for _, story := range []models.Story{older, newer, otherFeed, older} {
		require.NoError(t, s.UpsertStory(ctx, story))
	}

	stories, err := s.StoriesForFeed(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "b", stories[0].ID)
	assert.Equal(t, "a", stories[1].ID)

	stories, err = s.StoriesForFeed(ctx, 8)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.False(t, stories[0].Date.Valid)

	comment := models.Comment{ID: "a712", StoryID: "a", FeedID: 7, UserID: 12, Text: "first", SyncedAt: syncedAt}
	require.NoError(t, s.UpsertComment(ctx, comment))
	comment.Text = "edited"
	require.NoError(t, s.UpsertComment(ctx, comment))

	comments, err := s.CommentsForStory(ctx, "a")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].Text)
}

func TestSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, session.Valid())

	require.NoError(t, s.SaveSession(ctx, models.Session{Username: "samuel", Token: "tok-1"}))
	require.NoError(t, s.SaveSession(ctx, models.Session{Username: "samuel", Token: "tok-2"}))

	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{Username: "samuel", Token: "tok-2"}, session)

	require.NoError(t, s.ClearSession(ctx))
	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{}, session)
}

func TestProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CurrentProfile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	profile := models.UserProfile{UserID: 12, Username: "samuel", FollowerCount: 3, SyncedAt: syncedAt}
	require.NoError(t, s.SaveProfile(ctx, profile))

	got, err := s.CurrentProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "samuel", got.Username)
	assert.Equal(t, 3, got.FollowerCount)
}

func TestStoriesResource(t *testing.T) {
	assert.Equal(t, "stories/42", StoriesResource(42))
}
