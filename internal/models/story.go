package models

import (
	"database/sql"
	"time"
)

// Story represents a row in the 'stories' table, keyed by (feed_id, id).
type Story struct {
	ID           string       `db:"id"`
	FeedID       int64        `db:"feed_id"`
	Hash         string       `db:"hash"`
	Title        string       `db:"title"`
	Content      string       `db:"content"`
	Permalink    string       `db:"permalink"`
	Authors      string       `db:"authors"`
	Tags         string       `db:"tags"` // comma separated
	Date         sql.NullTime `db:"date"`
	Read         bool         `db:"read"`
	ShareCount   int          `db:"share_count"`
	CommentCount int          `db:"comment_count"`
	SyncedAt     time.Time    `db:"synced_at"`
}

// Comment represents a row in the 'comments' table.
type Comment struct {
	ID         string       `db:"id"`
	StoryID    string       `db:"story_id"`
	FeedID     int64        `db:"feed_id"` // the story's own feed, as used in ID
	UserID     int64        `db:"user_id"`
	Text       string       `db:"text"`
	SharedDate string       `db:"shared_date"` // server-rendered, e.g. "2 hours ago"
	Date       sql.NullTime `db:"date"`
	LikeCount  int          `db:"like_count"`
	SyncedAt   time.Time    `db:"synced_at"`
}
