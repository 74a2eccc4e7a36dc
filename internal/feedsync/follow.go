package feedsync

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"newsblur-sync/blursync/internal/api"
)

// Follow asks the server to follow userID. It reports true only for an OK,
// non-redirected response; otherwise false with the reason as error.
func (s *Syncer) Follow(ctx context.Context, token string, userID int64) (bool, error) {
	return s.socialAction(ctx, "follow", api.PathFollow, token, userID)
}

// Unfollow is the inverse of Follow.
func (s *Syncer) Unfollow(ctx context.Context, token string, userID int64) (bool, error) {
	return s.socialAction(ctx, "unfollow", api.PathUnfollow, token, userID)
}

func (s *Syncer) socialAction(ctx context.Context, op, path, token string, userID int64) (bool, error) {
	params := url.Values{api.ParamUserID: {strconv.FormatInt(userID, 10)}}

	resp, err := s.request(ctx, op, http.MethodPost, path, params, token)
	if err != nil {
		return false, err
	}
	if !resp.OK() {
		return false, s.rejected(op, resp)
	}

	s.logger.Info().Str("op", op).Int64("user_id", userID).Msg("Social action accepted")
	return true, nil
}
