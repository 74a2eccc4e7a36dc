package feedsync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/models"
)

// Mode selects the authentication endpoint.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

func (m Mode) path() (string, error) {
	switch m {
	case ModeLogin:
		return api.PathLogin, nil
	case ModeSignup:
		return api.PathSignup, nil
	}
	return "", fmt.Errorf("unknown authentication mode %q", m)
}

// SessionResult is the outcome of a successful authentication.
type SessionResult struct {
	Login   api.LoginResponse
	Session models.Session
}

// Authenticate posts the credentials to the mode's endpoint. On success the session
// token issued by the server is persisted and returned; the caller threads it into
// later operations. A success that sets no session cookie leaves the stored session
// untouched and returns an empty token. A 200 response whose body reports the user as not
// authenticated is a KindRejected error and nothing is persisted.
func (s *Syncer) Authenticate(ctx context.Context, username, password string, mode Mode) (*SessionResult, error) {
	path, err := mode.path()
	if err != nil {
		return nil, err
	}
	op := string(mode)

	params := url.Values{
		api.ParamUsername: {username},
		api.ParamPassword: {password},
	}

	var login api.LoginResponse
	resp, err := s.fetch(ctx, op, http.MethodPost, path, params, "", &login)
	if err != nil {
		return nil, err
	}

	if !login.Authenticated {
		s.logger.Info().Str("op", op).Str("username", username).Str("errors", login.Errors.String()).Msg("Authentication refused")
		return nil, &Error{
			Op:         op,
			Kind:       KindRejected,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("not authenticated: %s", login.Errors),
		}
	}

	session := models.Session{Username: username, Token: resp.SessionToken}
	if session.Valid() {
		if err := s.store.SaveSession(ctx, session); err != nil {
			return nil, storeError(op, err)
		}
	} else {
		s.logger.Warn().Str("op", op).Str("username", username).Msg("Authenticated without a session cookie, keeping stored session")
	}

	s.logger.Info().
		Str("op", op).
		Str("username", username).
		Int64("user_id", login.UserID).
		Bool("token", session.Valid()).
		Msg("Authenticated")

	return &SessionResult{Login: login, Session: session}, nil
}

// Login authenticates an existing account.
func (s *Syncer) Login(ctx context.Context, username, password string) (*SessionResult, error) {
	return s.Authenticate(ctx, username, password, ModeLogin)
}

// Signup creates an account and authenticates as it.
func (s *Syncer) Signup(ctx context.Context, username, password string) (*SessionResult, error) {
	return s.Authenticate(ctx, username, password, ModeSignup)
}
