package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"newsblur-sync/blursync/internal/models"
)

// FormErrors holds field -> messages as returned by the authentication endpoints.
// The server sends either an object of strings or string lists, or a bare list
// (filed under "__all__").
type FormErrors map[string][]string

func (e *FormErrors) UnmarshalJSON(data []byte) error {
	out := FormErrors{}
	iter := wire.BorrowIterator(data)
	defer wire.ReturnIterator(iter)

	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.Skip()
	case jsoniter.ArrayValue:
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			out["__all__"] = append(out["__all__"], it.ReadString())
			return it.Error == nil
		})
	case jsoniter.ObjectValue:
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			if it.WhatIsNext() == jsoniter.ArrayValue {
				it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
					out[field] = append(out[field], it.ReadString())
					return it.Error == nil
				})
			} else {
				out[field] = append(out[field], it.ReadString())
			}
			return it.Error == nil
		})
	default:
		return fmt.Errorf("form errors: unexpected %s", string(data))
	}
	if iter.Error != nil {
		return fmt.Errorf("form errors: %w", iter.Error)
	}
	*e = out
	return nil
}

// String renders the messages in a stable order, for logs.
func (e FormErrors) String() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return strings.Join(parts, ", ")
}

// LoginResponse is returned by both login and signup.
type LoginResponse struct {
	Authenticated bool       `json:"authenticated"`
	Code          int        `json:"code"`
	Result        string     `json:"result"`
	UserID        int64      `json:"user_id"`
	Errors        FormErrors `json:"errors"`
}

// UserProfile is the public profile block shared by the profile endpoints.
type UserProfile struct {
	UserID             int64  `json:"user_id"`
	Username           string `json:"username"`
	PhotoURL           string `json:"photo_url"`
	Location           string `json:"location"`
	Bio                string `json:"bio"`
	Website            string `json:"website"`
	FollowerCount      int    `json:"follower_count"`
	FollowingCount     int    `json:"following_count"`
	SharedStoriesCount int    `json:"shared_stories_count"`
}

func (p UserProfile) ToModel(syncedAt time.Time) models.UserProfile {
	return models.UserProfile{
		UserID:             p.UserID,
		Username:           p.Username,
		PhotoURL:           p.PhotoURL,
		Location:           p.Location,
		Bio:                p.Bio,
		Website:            p.Website,
		FollowerCount:      p.FollowerCount,
		FollowingCount:     p.FollowingCount,
		SharedStoriesCount: p.SharedStoriesCount,
		SyncedAt:           syncedAt,
	}
}

// ProfileResponse is returned by both the own-profile and user-profile endpoints.
type ProfileResponse struct {
	UserProfile *UserProfile `json:"user_profile"`
}

// Comment is a shared-story comment nested in a Story.
type Comment struct {
	UserID      int64     `json:"user_id"`
	Text        string    `json:"comments"`
	SharedDate  string    `json:"shared_date"`
	Date        Timestamp `json:"date"`
	LikingUsers []int64   `json:"liking_users"`
}

// ToModel converts the comment; id, story and feed are supplied by the caller
// because the server does not send them per comment.
func (c Comment) ToModel(id, storyID string, feedID int64, syncedAt time.Time) models.Comment {
	return models.Comment{
		ID:         id,
		StoryID:    storyID,
		FeedID:     feedID,
		UserID:     c.UserID,
		Text:       c.Text,
		SharedDate: c.SharedDate,
		Date:       c.Date.NullTime(),
		LikeCount:  len(c.LikingUsers),
		SyncedAt:   syncedAt,
	}
}

// Story is one entry of a feed's story page.
type Story struct {
	ID           string    `json:"id"`
	FeedID       int64     `json:"story_feed_id"`
	Hash         string    `json:"story_hash"`
	Title        string    `json:"story_title"`
	Content      string    `json:"story_content"`
	Permalink    string    `json:"story_permalink"`
	Authors      string    `json:"story_authors"`
	Tags         []string  `json:"story_tags"`
	Date         Timestamp `json:"story_date"`
	ReadStatus   int       `json:"read_status"`
	ShareCount   int       `json:"share_count"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments"`
}

func (s Story) ToModel(syncedAt time.Time) models.Story {
	return models.Story{
		ID:           s.ID,
		FeedID:       s.FeedID,
		Hash:         s.Hash,
		Title:        s.Title,
		Content:      s.Content,
		Permalink:    s.Permalink,
		Authors:      s.Authors,
		Tags:         strings.Join(s.Tags, ","),
		Date:         s.Date.NullTime(),
		Read:         s.ReadStatus == 1,
		ShareCount:   s.ShareCount,
		CommentCount: s.CommentCount,
		SyncedAt:     syncedAt,
	}
}

// StoriesResponse is one page of stories for a feed.
type StoriesResponse struct {
	Stories []Story `json:"stories"`
}

// Feed is a subscribed feed as listed by the topology endpoint.
type Feed struct {
	ID           int64  `json:"id"`
	Title        string `json:"feed_title"`
	Address      string `json:"feed_address"`
	Link         string `json:"feed_link"`
	FaviconColor string `json:"favicon_color"`
	Active       bool   `json:"active"`
	Subscribers  int    `json:"num_subscribers"`
	Updated      string `json:"updated"`
	Positive     int    `json:"ps"`
	Neutral      int    `json:"nt"`
	Negative     int    `json:"ng"`
}

func (f Feed) ToModel(syncedAt time.Time) models.Feed {
	return models.Feed{
		ID:              f.ID,
		Title:           f.Title,
		Address:         f.Address,
		Link:            f.Link,
		FaviconColor:    f.FaviconColor,
		Active:          f.Active,
		SubscriberCount: f.Subscribers,
		LastUpdated:     f.Updated,
		PositiveCount:   f.Positive,
		NeutralCount:    f.Neutral,
		NegativeCount:   f.Negative,
		SyncedAt:        syncedAt,
	}
}

// FeedFolderResponse is the full feed/folder topology.
type FeedFolderResponse struct {
	Feeds   map[string]Feed `json:"feeds"`
	Folders FolderStructure `json:"folders"`
}

// SortedFeeds returns the feeds ordered by id. A feed whose body omits its id
// takes it from the map key; entries with an unparseable key and no id are dropped.
func (r *FeedFolderResponse) SortedFeeds() []Feed {
	feeds := make([]Feed, 0, len(r.Feeds))
	for key, feed := range r.Feeds {
		if feed.ID == 0 {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			feed.ID = id
		}
		feeds = append(feeds, feed)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID < feeds[j].ID })
	return feeds
}

// FeedCount holds the unread counts for one feed by intelligence class.
type FeedCount struct {
	Positive int `json:"ps"`
	Neutral  int `json:"nt"`
	Negative int `json:"ng"`
}

func (c FeedCount) ToModel(feedID int64) models.FeedCount {
	return models.FeedCount{
		FeedID:   feedID,
		Positive: c.Positive,
		Neutral:  c.Neutral,
		Negative: c.Negative,
	}
}

// FeedCountsResponse maps feed id (as a string) to its unread counts.
type FeedCountsResponse struct {
	Feeds map[string]FeedCount `json:"feeds"`
}

// Counts returns the counts ordered by feed id, skipping keys that are not feed ids.
func (r *FeedCountsResponse) Counts() []models.FeedCount {
	counts := make([]models.FeedCount, 0, len(r.Feeds))
	for key, c := range r.Feeds {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		counts = append(counts, c.ToModel(id))
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].FeedID < counts[j].FeedID })
	return counts
}
