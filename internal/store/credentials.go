package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"newsblur-sync/blursync/internal/models"
)

const (
	stateKeySessionToken  = "session_token"
	stateKeyUsername      = "username"
	stateKeyCurrentUserID = "current_user_id"
)

func (s *Store) setState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

func (s *Store) getState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM client_state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load state %s: %w", key, err)
	}
	return value, nil
}

// SaveSession persists the session token and the username it was issued to.
func (s *Store) SaveSession(ctx context.Context, session models.Session) error {
	if err := s.setState(ctx, stateKeySessionToken, session.Token); err != nil {
		return err
	}
	return s.setState(ctx, stateKeyUsername, session.Username)
}

// LoadSession returns the stored session; a zero Session if none was saved.
func (s *Store) LoadSession(ctx context.Context) (models.Session, error) {
	token, err := s.getState(ctx, stateKeySessionToken)
	if err != nil {
		return models.Session{}, err
	}
	username, err := s.getState(ctx, stateKeyUsername)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Username: username, Token: token}, nil
}

// ClearSession forgets the session token and the current user.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key IN (?, ?, ?)`,
		stateKeySessionToken, stateKeyUsername, stateKeyCurrentUserID)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveProfile upserts the profile and marks it as the authenticated user's.
func (s *Store) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO user_profiles (user_id, username, photo_url, location, bio, website,
			follower_count, following_count, shared_stories_count, synced_at)
		VALUES (:user_id, :username, :photo_url, :location, :bio, :website,
			:follower_count, :following_count, :shared_stories_count, :synced_at)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			photo_url = excluded.photo_url,
			location = excluded.location,
			bio = excluded.bio,
			website = excluded.website,
			follower_count = excluded.follower_count,
			following_count = excluded.following_count,
			shared_stories_count = excluded.shared_stories_count,
			synced_at = excluded.synced_at`, profile)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %d: %w", profile.UserID, err)
	}
	return s.setState(ctx, stateKeyCurrentUserID, strconv.FormatInt(profile.UserID, 10))
}

// CurrentProfile returns the profile last saved by SaveProfile, or ErrNotFound.
func (s *Store) CurrentProfile(ctx context.Context) (*models.UserProfile, error) {
	raw, err := s.getState(ctx, stateKeyCurrentUserID)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNotFound
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stored user id %q is invalid: %w", raw, err)
	}

	var profile models.UserProfile
	err = s.db.GetContext(ctx, &profile, `SELECT * FROM user_profiles WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %d: %w", userID, err)
	}
	return &profile, nil
}
