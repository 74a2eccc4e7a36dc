// Package feedsync mirrors remote API responses into the local cache.
//
// Each operation makes one request, classifies the response, decodes it and
// projects the payload into store writes. Writes are upserts keyed by
// deterministic identifiers and are applied at least once: an operation that
// fails partway leaves the records written so far, and calling it again with the
// same server state converges on the same rows.
package feedsync

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/models"
)

// Gateway performs requests against the remote API.
type Gateway interface {
	Get(ctx context.Context, path string, params url.Values, token string) (*api.Response, error)
	Post(ctx context.Context, path string, params url.Values, token string) (*api.Response, error)
}

// Decoder converts a response body into one of the api response shapes.
type Decoder interface {
	Decode(body []byte, v any) error
}

// Store is the persistence the operations write to.
type Store interface {
	UpsertFeed(ctx context.Context, feed models.Feed) error
	UpdateFeedCounts(ctx context.Context, counts models.FeedCount) (int64, error)
	UpsertFolder(ctx context.Context, folder models.Folder) error
	UpsertFeedFolder(ctx context.Context, membership models.FeedFolder) error
	UpsertStory(ctx context.Context, story models.Story) error
	UpsertComment(ctx context.Context, comment models.Comment) error
	SaveSession(ctx context.Context, session models.Session) error
	SaveProfile(ctx context.Context, profile models.UserProfile) error
}

// Syncer runs the synchronization operations. It holds no state between calls
// beyond its collaborators, and is safe for concurrent use if they are.
type Syncer struct {
	gateway Gateway
	decoder Decoder
	store   Store
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates a Syncer.
func New(gateway Gateway, decoder Decoder, store Store, logger zerolog.Logger) *Syncer {
	return &Syncer{
		gateway: gateway,
		decoder: decoder,
		store:   store,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// request performs one round trip; a gateway error becomes a KindTransport *Error.
func (s *Syncer) request(ctx context.Context, op, method, path string, params url.Values, token string) (*api.Response, error) {
	var (
		resp *api.Response
		err  error
	)
	if method == http.MethodPost {
		resp, err = s.gateway.Post(ctx, path, params, token)
	} else {
		resp, err = s.gateway.Get(ctx, path, params, token)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("Request could not be completed")
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}
	return resp, nil
}

// rejected builds the error for a response that is not OK or was redirected.
func (s *Syncer) rejected(op string, resp *api.Response) error {
	s.logger.Info().
		Str("op", op).
		Int("status", resp.StatusCode).
		Bool("redirected", resp.Redirected).
		Msg("Server did not accept request")
	return &Error{Op: op, Kind: KindRejected, StatusCode: resp.StatusCode, Redirected: resp.Redirected}
}

func (s *Syncer) decode(op string, resp *api.Response, v any) error {
	if err := s.decoder.Decode(resp.Body, v); err != nil {
		s.logger.Warn().Err(err).Str("op", op).Int("status", resp.StatusCode).Msg("Response body could not be decoded")
		return &Error{Op: op, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// fetch performs a request, applies the OK-and-not-redirected guard and decodes into v.
func (s *Syncer) fetch(ctx context.Context, op, method, path string, params url.Values, token string, v any) (*api.Response, error) {
	resp, err := s.request(ctx, op, method, path, params, token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, s.rejected(op, resp)
	}
	if err := s.decode(op, resp, v); err != nil {
		return resp, err
	}
	return resp, nil
}

func storeError(op string, err error) error {
	return &Error{Op: op, Kind: KindStore, Err: err}
}
