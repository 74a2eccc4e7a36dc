package feedsync

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/store"
)

const opFeedStories = "feed-stories"

// CommentID derives the stable identifier of a comment by concatenating story id,
// feed id and user id with no separator. The result is ambiguous where the numeric
// parts meet: story "s" in feed 12 by user 3 and in feed 1 by user 23 both give "s123".
func CommentID(storyID string, feedID, userID int64) string {
	return storyID + strconv.FormatInt(feedID, 10) + strconv.FormatInt(userID, 10)
}

// FetchStoriesForFeed downloads a page of stories for one feed and upserts every
// story and nested comment.
//
// The body is decoded before the status is checked: a body that does not decode
// is reported as KindDecode whatever the status, and nothing is written.
func (s *Syncer) FetchStoriesForFeed(ctx context.Context, token string, feedID int64) (*api.StoriesResponse, error) {
	params := url.Values{api.ParamFeeds: {strconv.FormatInt(feedID, 10)}}

	resp, err := s.request(ctx, opFeedStories, http.MethodGet, api.FeedStoriesPath(feedID), params, token)
	if err != nil {
		return nil, err
	}

	var stories api.StoriesResponse
	if err := s.decode(opFeedStories, resp, &stories); err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, s.rejected(opFeedStories, resp)
	}

	syncedAt := s.now()
	comments := 0
	for i := range stories.Stories {
		story := &stories.Stories[i]
		if story.FeedID == 0 {
			story.FeedID = feedID
		} else if story.FeedID != feedID {
			s.logger.Warn().
				Int64("feed_id", feedID).
				Int64("story_feed_id", story.FeedID).
				Str("story_id", story.ID).
				Msg("Story belongs to another feed, storing under requested feed")
		}

		row := story.ToModel(syncedAt)
		row.FeedID = feedID
		if err := s.store.UpsertStory(ctx, row); err != nil {
			return nil, storeError(opFeedStories, err)
		}

		for _, comment := range story.Comments {
			id := CommentID(story.ID, story.FeedID, comment.UserID)
			if err := s.store.UpsertComment(ctx, comment.ToModel(id, story.ID, story.FeedID, syncedAt)); err != nil {
				return nil, storeError(opFeedStories, err)
			}
			comments++
		}
	}

	s.logger.Info().
		Int64("feed_id", feedID).
		Str("resource", store.StoriesResource(feedID)).
		Int("stories", len(stories.Stories)).
		Int("comments", comments).
		Msg("Stories synchronized")

	return &stories, nil
}
