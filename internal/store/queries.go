package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsblur-sync/blursync/internal/models"
)

// GetFeed returns one feed by id, or ErrNotFound.
func (s *Store) GetFeed(ctx context.Context, id int64) (*models.Feed, error) {
	var feed models.Feed
	err := s.db.GetContext(ctx, &feed, `SELECT * FROM feeds WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &feed, nil
}

// ListFeeds returns every cached feed ordered by title.
func (s *Store) ListFeeds(ctx context.Context) ([]models.Feed, error) {
	feeds := []models.Feed{}
	if err := s.db.SelectContext(ctx, &feeds, `SELECT * FROM feeds ORDER BY title COLLATE NOCASE, id`); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return feeds, nil
}

// ListFolders returns every cached folder ordered by name.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	folders := []models.Folder{}
	if err := s.db.SelectContext(ctx, &folders, `SELECT * FROM folders ORDER BY name`); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return folders, nil
}

// FolderFeedIDs returns the ids of feeds listed under a folder.
func (s *Store) FolderFeedIDs(ctx context.Context, folder string) ([]int64, error) {
	ids := []int64{}
	err := s.db.SelectContext(ctx, &ids, `SELECT feed_id FROM feed_folders WHERE folder_name = ? ORDER BY feed_id`, folder)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return ids, nil
}

// StoriesForFeed returns a feed's cached stories, newest first.
func (s *Store) StoriesForFeed(ctx context.Context, feedID int64) ([]models.Story, error) {
	stories := []models.Story{}
	err := s.db.SelectContext(ctx, &stories, `SELECT * FROM stories WHERE feed_id = ? ORDER BY date DESC, id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return stories, nil
}

// CommentsForStory returns the comments on a story, whichever feed it was synced through.
func (s *Store) CommentsForStory(ctx context.Context, storyID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.SelectContext(ctx, &comments, `SELECT * FROM comments WHERE story_id = ? ORDER BY user_id`, storyID)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return comments, nil
}
