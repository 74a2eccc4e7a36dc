// Package store persists synchronized entities in the local cache database.
//
// Every write is a single statement keyed by a deterministic identifier, so
// replaying the same payload leaves the same rows behind. Nothing here spans
// records in a transaction: a sync interrupted halfway leaves the rows written so
// far, and re-running it converges.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"newsblur-sync/blursync/internal/database"
	"newsblur-sync/blursync/internal/models"
)

// Resource paths of the collections the sync engine reports on.
const (
	ResourceFeeds    = "feeds"
	ResourceStories  = "stories"
	ResourceProfiles = "user_profiles"
)

// StoriesResource returns the feed-scoped story collection path.
func StoriesResource(feedID int64) string {
	return ResourceStories + "/" + strconv.FormatInt(feedID, 10)
}

// ErrNotFound is returned by single-record reads when no row matches.
var ErrNotFound = errors.New("record not found")

// Store implements the sync engine's persistence on top of sqlx.
type Store struct {
	db *database.DB
}

// New creates a Store over an open cache database.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// UpsertFeed inserts the feed or overwrites every column of the existing row.
func (s *Store) UpsertFeed(ctx context.Context, feed models.Feed) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO feeds (id, title, address, link, favicon_color, active, subscriber_count,
			last_updated, positive_count, neutral_count, negative_count, synced_at)
		VALUES (:id, :title, :address, :link, :favicon_color, :active, :subscriber_count,
			:last_updated, :positive_count, :neutral_count, :negative_count, :synced_at)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			address = excluded.address,
			link = excluded.link,
			favicon_color = excluded.favicon_color,
			active = excluded.active,
			subscriber_count = excluded.subscriber_count,
			last_updated = excluded.last_updated,
			positive_count = excluded.positive_count,
			neutral_count = excluded.neutral_count,
			negative_count = excluded.negative_count,
			synced_at = excluded.synced_at`, feed)
	if err != nil {
		return fmt.Errorf("failed to upsert feed %d: %w", feed.ID, err)
	}
	return nil
}

// UpdateFeedCounts writes only the unread counts of an existing feed.
// It never inserts: for an unknown feed id it changes nothing and returns 0.
func (s *Store) UpdateFeedCounts(ctx context.Context, counts models.FeedCount) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE feeds
		SET positive_count = :positive_count, neutral_count = :neutral_count, negative_count = :negative_count
		WHERE id = :id`, counts)
	if err != nil {
		return 0, fmt.Errorf("failed to update counts for feed %d: %w", counts.FeedID, err)
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for feed %d: %w", counts.FeedID, err)
	}
	return changed, nil
}

// UpsertFolder records a folder by name.
func (s *Store) UpsertFolder(ctx context.Context, folder models.Folder) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO folders (name, synced_at) VALUES (:name, :synced_at)
		ON CONFLICT(name) DO UPDATE SET synced_at = excluded.synced_at`, folder)
	if err != nil {
		return fmt.Errorf("failed to upsert folder %q: %w", folder.Name, err)
	}
	return nil
}

// UpsertFeedFolder records that a feed is listed under a folder. The folder row must exist.
func (s *Store) UpsertFeedFolder(ctx context.Context, membership models.FeedFolder) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO feed_folders (feed_id, folder_name) VALUES (:feed_id, :folder_name)
		ON CONFLICT(feed_id, folder_name) DO NOTHING`, membership)
	if err != nil {
		return fmt.Errorf("failed to upsert membership of feed %d in %q: %w", membership.FeedID, membership.FolderName, err)
	}
	return nil
}

// UpsertStory inserts or overwrites a story within its feed's scope.
func (s *Store) UpsertStory(ctx context.Context, story models.Story) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO stories (id, feed_id, hash, title, content, permalink, authors, tags, date,
			read, share_count, comment_count, synced_at)
		VALUES (:id, :feed_id, :hash, :title, :content, :permalink, :authors, :tags, :date,
			:read, :share_count, :comment_count, :synced_at)
		ON CONFLICT(feed_id, id) DO UPDATE SET
			hash = excluded.hash,
			title = excluded.title,
			content = excluded.content,
			permalink = excluded.permalink,
			authors = excluded.authors,
			tags = excluded.tags,
			date = excluded.date,
			read = excluded.read,
			share_count = excluded.share_count,
			comment_count = excluded.comment_count,
			synced_at = excluded.synced_at`, story)
	if err != nil {
		return fmt.Errorf("failed to upsert story %q of feed %d: %w", story.ID, story.FeedID, err)
	}
	return nil
}

// UpsertComment inserts or overwrites a comment by its derived id.
func (s *Store) UpsertComment(ctx context.Context, comment models.Comment) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO comments (id, story_id, feed_id, user_id, text, shared_date, date, like_count, synced_at)
		VALUES (:id, :story_id, :feed_id, :user_id, :text, :shared_date, :date, :like_count, :synced_at)
		ON CONFLICT(id) DO UPDATE SET
			story_id = excluded.story_id,
			feed_id = excluded.feed_id,
			user_id = excluded.user_id,
			text = excluded.text,
			shared_date = excluded.shared_date,
			date = excluded.date,
			like_count = excluded.like_count,
			synced_at = excluded.synced_at`, comment)
	if err != nil {
		return fmt.Errorf("failed to upsert comment %q: %w", comment.ID, err)
	}
	return nil
}
