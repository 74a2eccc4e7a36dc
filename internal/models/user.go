package models

import "time"

// UserProfile represents a row in the 'user_profiles' table
type UserProfile struct {
	UserID             int64     `db:"user_id"`
	Username           string    `db:"username"`
	PhotoURL           string    `db:"photo_url"`
	Location           string    `db:"location"`
	Bio                string    `db:"bio"`
	Website            string    `db:"website"`
	FollowerCount      int       `db:"follower_count"`
	FollowingCount     int       `db:"following_count"`
	SharedStoriesCount int       `db:"shared_stories_count"`
	SyncedAt           time.Time `db:"synced_at"`
}

// Session is the credential state persisted after a successful authentication.
type Session struct {
	Username string
	Token    string
}

// Valid reports whether the session carries a token usable for authenticated requests.
func (s Session) Valid() bool {
	return s.Token != ""
}
