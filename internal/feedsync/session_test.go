package feedsync

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsblur-sync/blursync/internal/api"
)

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	resp := ok(`{"authenticated": true, "code": 1, "result": "ok", "user_id": 34}`)
	resp.SessionToken = "abc123"
	gw := &stubGateway{resp: resp}

	result, err := newTestSyncer(t, gw, st).Login(ctx, "alice", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.Session.Token)
	assert.Equal(t, "alice", result.Session.Username)
	assert.Equal(t, int64(34), result.Login.UserID)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, http.MethodPost, gw.calls[0].Method)
	assert.Equal(t, api.PathLogin, gw.calls[0].Path)
	assert.Equal(t, "alice", gw.calls[0].Params.Get(api.ParamUsername))
	assert.Equal(t, "hunter2", gw.calls[0].Params.Get(api.ParamPassword))
	assert.Empty(t, gw.calls[0].Token)

	saved, err := st.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Session, saved)
}

func TestSignup_UsesSignupEndpoint(t *testing.T) {
	st := newTestStore(t)
	resp := ok(`{"authenticated": true, "user_id": 7}`)
	resp.SessionToken = "fresh"
	gw := &stubGateway{resp: resp}

	result, err := newTestSyncer(t, gw, st).Signup(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Session.Token)
	assert.Equal(t, api.PathSignup, gw.calls[0].Path)
}

func TestLogin_WithoutCookieKeepsStoredSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first := ok(`{"authenticated": true}`)
	first.SessionToken = "good"
	_, err := newTestSyncer(t, &stubGateway{resp: first}, st).Login(ctx, "alice", "pw")
	require.NoError(t, err)

	result, err := newTestSyncer(t, &stubGateway{resp: ok(`{"authenticated": true}`)}, st).Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.False(t, result.Session.Valid())

	saved, err := st.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "good", saved.Token)
	assert.True(t, saved.Valid())
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		resp *api.Response
	}{
		{"redirected", redirect(`{"authenticated": true}`)},
		{"forbidden", status(http.StatusForbidden, `{"authenticated": true}`)},
		{"server error", status(http.StatusInternalServerError, `<html>oops</html>`)},
		{"not authenticated", ok(`{"authenticated": false, "code": -1, "errors": {"__all__": ["Whoopsy-daisy."]}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := newTestStore(t)
			tt.resp.SessionToken = "should-not-be-saved"
			gw := &stubGateway{resp: tt.resp}

			result, err := newTestSyncer(t, gw, st).Login(ctx, "alice", "wrong")
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrAuthRejected)

			saved, err := st.LoadSession(ctx)
			require.NoError(t, err)
			assert.False(t, saved.Valid())
		})
	}
}

func TestAuthenticate_TransportFault(t *testing.T) {
	st := newTestStore(t)
	gw := &stubGateway{err: transportFault}

	_, err := newTestSyncer(t, gw, st).Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, ErrTransportFault)
	assert.ErrorIs(t, err, transportFault)
}

func TestAuthenticate_UndecodableBody(t *testing.T) {
	st := newTestStore(t)
	gw := &stubGateway{resp: ok(`not json`)}

	_, err := newTestSyncer(t, gw, st).Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestAuthenticate_UnknownMode(t *testing.T) {
	gw := &stubGateway{resp: ok(`{}`)}

	_, err := newTestSyncer(t, gw, newTestStore(t)).Authenticate(context.Background(), "alice", "pw", Mode("sso"))
	require.Error(t, err)
	assert.Empty(t, gw.calls)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	st := &failingStore{Store: newTestStore(t), failOn: "session"}
	resp := ok(`{"authenticated": true}`)
	resp.SessionToken = "abc"
	gw := &stubGateway{resp: resp}

	_, err := newTestSyncer(t, gw, st).Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, errDiskFull)
}
