package feedsync

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/store"
)

const (
	opMyProfile   = "my-profile"
	opUserProfile = "user-profile"
)

var errNoProfile = errors.New("response has no user_profile")

func (s *Syncer) fetchProfile(ctx context.Context, op, path string, params url.Values, token string) (*api.ProfileResponse, error) {
	var profile api.ProfileResponse
	resp, err := s.fetch(ctx, op, http.MethodGet, path, params, token, &profile)
	if err != nil {
		return nil, err
	}
	if profile.UserProfile == nil {
		return nil, &Error{Op: op, Kind: KindDecode, StatusCode: resp.StatusCode, Err: errNoProfile}
	}
	return &profile, nil
}

// FetchOwnProfile loads the authenticated user's profile and saves it as the current user.
func (s *Syncer) FetchOwnProfile(ctx context.Context, token string) (*api.ProfileResponse, error) {
	profile, err := s.fetchProfile(ctx, opMyProfile, api.PathMyProfile, nil, token)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveProfile(ctx, profile.UserProfile.ToModel(s.now())); err != nil {
		return nil, storeError(opMyProfile, err)
	}

	s.logger.Info().
		Str("resource", store.ResourceProfiles).
		Int64("user_id", profile.UserProfile.UserID).
		Str("username", profile.UserProfile.Username).
		Msg("Profile synchronized")
	return profile, nil
}

// FetchUserProfile looks up another user's public profile. Nothing is persisted.
func (s *Syncer) FetchUserProfile(ctx context.Context, token string, userID int64) (*api.ProfileResponse, error) {
	params := url.Values{api.ParamUserID: {strconv.FormatInt(userID, 10)}}
	return s.fetchProfile(ctx, opUserProfile, api.PathUserProfile, params, token)
}
