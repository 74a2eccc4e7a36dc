package api

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Stories(t *testing.T) {
	body := []byte(`{
		"stories": [{
			"id": "http://example.com/p/1",
			"story_feed_id": 7,
			"story_hash": "7:ab12cd",
			"story_title": "Hello",
			"story_content": "<p>hi</p>",
			"story_permalink": "http://example.com/p/1",
			"story_authors": "Ann",
			"story_tags": ["go", "sqlite"],
			"story_date": "2012-06-05 14:32:00",
			"read_status": 1,
			"share_count": null,
			"comments": [
				{"user_id": 12, "comments": "nice", "shared_date": "2 hours ago", "liking_users": [1, 2]}
			]
		}]
	}`)

	var resp StoriesResponse
	require.NoError(t, NewDecoder().Decode(body, &resp))
	require.Len(t, resp.Stories, 1)

	story := resp.Stories[0]
	assert.Equal(t, int64(7), story.FeedID)
	assert.Equal(t, time.Date(2012, 6, 5, 14, 32, 0, 0, time.UTC), story.Date.Time)
	require.Len(t, story.Comments, 1)
	assert.Equal(t, int64(12), story.Comments[0].UserID)

	row := story.ToModel(time.Now())
	assert.Equal(t, "go,sqlite", row.Tags)
	assert.True(t, row.Read)
	assert.True(t, row.Date.Valid)
	assert.Zero(t, row.ShareCount)

	comment := story.Comments[0].ToModel("id", story.ID, story.FeedID, time.Now())
	assert.Equal(t, 2, comment.LikeCount)
	assert.False(t, comment.Date.Valid)
}

func TestDecoder_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "whitespace", body: "  \n"},
		{name: "html", body: "<html>maintenance</html>"},
		{name: "wrong type", body: `{"stories": "none"}`},
		{name: "bad date", body: `{"stories": [{"story_date": "yesterday"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp StoriesResponse
			err := NewDecoder().Decode([]byte(tt.body), &resp)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, "*api.StoriesResponse", decodeErr.Target)
		})
	}
}

func TestDecoder_Login(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errors FormErrors
	}{
		{name: "object of lists", body: `{"authenticated": false, "errors": {"__all__": ["Wrong password"]}}`,
			errors: FormErrors{"__all__": {"Wrong password"}}},
		{name: "object of strings", body: `{"authenticated": false, "errors": {"username": "taken"}}`,
			errors: FormErrors{"username": {"taken"}}},
		{name: "bare list", body: `{"authenticated": false, "errors": ["nope"]}`,
			errors: FormErrors{"__all__": {"nope"}}},
		{name: "null", body: `{"authenticated": true, "errors": null, "user_id": 5}`,
			errors: FormErrors{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp LoginResponse
			require.NoError(t, NewDecoder().Decode([]byte(tt.body), &resp))
			assert.Equal(t, tt.errors, resp.Errors)
		})
	}
}

func TestFormErrors_String(t *testing.T) {
	e := FormErrors{"username": {"taken"}, "__all__": {"a", "b"}}
	assert.Equal(t, "__all__: a; b, username: taken", e.String())
}

func TestFeedFolderResponse_SortedFeeds(t *testing.T) {
	body := []byte(`{
		"feeds": {
			"102": {"id": 102, "feed_title": "B", "ps": 1, "nt": 2, "ng": 3},
			"101": {"feed_title": "A"},
			"junk": {"feed_title": "dropped"}
		},
		"folders": [101, {"Tech": [101, 102]}]
	}`)

	var resp FeedFolderResponse
	require.NoError(t, NewDecoder().Decode(body, &resp))

	feeds := resp.SortedFeeds()
	require.Len(t, feeds, 2)
	assert.Equal(t, int64(101), feeds[0].ID)
	assert.Equal(t, "A", feeds[0].Title)

	row := feeds[1].ToModel(time.Now())
	assert.Equal(t, 1, row.PositiveCount)
	assert.Equal(t, 2, row.NeutralCount)
	assert.Equal(t, 3, row.NegativeCount)
}

func TestFeedCountsResponse_Counts(t *testing.T) {
	body := []byte(`{"feeds": {"9": {"ps": 0, "nt": 4, "ng": 1}, "3": {"nt": 10}, "social:1": {"nt": 2}}}`)

	var resp FeedCountsResponse
	require.NoError(t, NewDecoder().Decode(body, &resp))

	counts := resp.Counts()
	require.Len(t, counts, 2)
	assert.Equal(t, int64(3), counts[0].FeedID)
	assert.Equal(t, 10, counts[0].Neutral)
	assert.Equal(t, int64(9), counts[1].FeedID)
	assert.Equal(t, 1, counts[1].Negative)
}

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2012-06-05 14:32:00"`, want: time.Date(2012, 6, 5, 14, 32, 0, 0, time.UTC)},
		{in: `"2012-06-05 14:32:00.250000"`, want: time.Date(2012, 6, 5, 14, 32, 0, 250000000, time.UTC)},
		{in: `"2012-06-05T16:32:00+02:00"`, want: time.Date(2012, 6, 5, 14, 32, 0, 0, time.UTC)},
		{in: `""`, want: time.Time{}},
		{in: `null`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.UnmarshalJSON([]byte(tt.in)))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}
