package api

import "strconv"

// Remote endpoints, relative to the configured base URL.
const (
	PathLogin        = "/api/login"
	PathSignup       = "/api/signup"
	PathMyProfile    = "/social/load_user_profile"
	PathUserProfile  = "/social/profile"
	PathFeedStories  = "/reader/feed"
	PathFollow       = "/social/follow"
	PathUnfollow     = "/social/unfollow"
	PathFeedsFolders = "/reader/feeds"
	PathFeedCounts   = "/reader/refresh_feeds"
)

// Request parameter names.
const (
	ParamUsername = "username"
	ParamPassword = "password"
	ParamUserID   = "user_id"
	ParamFeeds    = "feeds"
)

// SessionCookieName is the cookie that carries the session token in both directions.
const SessionCookieName = "newsblur_sessionid"

// FeedStoriesPath returns the story endpoint for one feed. The id is also sent
// as the "feeds" parameter; the server accepts either.
func FeedStoriesPath(feedID int64) string {
	return PathFeedStories + "/" + strconv.FormatInt(feedID, 10)
}
