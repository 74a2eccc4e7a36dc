package models

import "time"

// Feed represents a row in the 'feeds' table
type Feed struct {
	ID              int64     `db:"id"`
	Title           string    `db:"title"`
	Address         string    `db:"address"` // URL of the RSS/Atom document
	Link            string    `db:"link"`    // URL of the site
	FaviconColor    string    `db:"favicon_color"`
	Active          bool      `db:"active"`
	SubscriberCount int       `db:"subscriber_count"`
	LastUpdated     string    `db:"last_updated"` // server-rendered, e.g. "12 minutes"
	PositiveCount   int       `db:"positive_count"`
	NeutralCount    int       `db:"neutral_count"`
	NegativeCount   int       `db:"negative_count"`
	SyncedAt        time.Time `db:"synced_at"`
}

// FeedCount is the unread-count slice of a Feed row, applied as a partial update.
type FeedCount struct {
	FeedID   int64 `db:"id"`
	Positive int   `db:"positive_count"`
	Neutral  int   `db:"neutral_count"`
	Negative int   `db:"negative_count"`
}

// Folder represents a row in the 'folders' table
type Folder struct {
	Name     string    `db:"name"`
	SyncedAt time.Time `db:"synced_at"`
}

// FeedFolder represents a row in the 'feed_folders' membership table.
// FeedID is not constrained to an existing feed.
type FeedFolder struct {
	FeedID     int64  `db:"feed_id"`
	FolderName string `db:"folder_name"`
}
