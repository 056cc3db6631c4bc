package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltup/voltup-console/internal/model"
	"github.com/voltup/voltup-console/internal/session"
	"github.com/voltup/voltup-console/internal/validation"
)

type stubLoginAPI struct {
	resp  *model.LoginResponse
	err   error
	calls int
}

func (s *stubLoginAPI) Login(ctx context.Context, nickname string) (*model.LoginResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestLogin_Success(t *testing.T) {
	api := &stubLoginAPI{resp: &model.LoginResponse{UserID: 7, Nickname: "boss"}}
	store := session.NewStore("")
	auth := NewAuth(api, store, "", nil)

	sess, err := auth.Login(context.Background(), "  boss  ")
	require.NoError(t, err)

	assert.Equal(t, "7", sess.UserID)
	assert.Equal(t, "boss", sess.Nickname)
	assert.Equal(t, "7", store.UserID())
	assert.Equal(t, 1, api.calls)
}

func TestLogin_BypassSkipsBackend(t *testing.T) {
	api := &stubLoginAPI{err: errors.New("must not be called")}
	store := session.NewStore("")
	auth := NewAuth(api, store, "ADMINtest", nil)

	sess, err := auth.Login(context.Background(), "ADMINtest")
	require.NoError(t, err)

	assert.Equal(t, "1", sess.UserID)
	assert.Equal(t, "ADMINtest", sess.Nickname)
	assert.Equal(t, 0, api.calls, "bypass login must not touch the backend")
}

func TestLogin_BypassOnlyForExactNickname(t *testing.T) {
	api := &stubLoginAPI{resp: &model.LoginResponse{UserID: 2, Nickname: "other"}}
	store := session.NewStore("")
	auth := NewAuth(api, store, "ADMINtest", nil)

	sess, err := auth.Login(context.Background(), "other")
	require.NoError(t, err)

	assert.Equal(t, "2", sess.UserID)
	assert.Equal(t, 1, api.calls)
}

func TestLogin_Rejected(t *testing.T) {
	api := &stubLoginAPI{err: errors.New("401")}
	store := session.NewStore("")
	auth := NewAuth(api, store, "", nil)

	_, err := auth.Login(context.Background(), "stranger")

	require.ErrorIs(t, err, ErrUnregisteredLogin)
	assert.Empty(t, store.UserID(), "failed login must not create a session")
}

func TestLogin_EmptyNickname(t *testing.T) {
	api := &stubLoginAPI{}
	auth := NewAuth(api, session.NewStore(""), "", nil)

	_, err := auth.Login(context.Background(), "   ")

	require.ErrorIs(t, err, validation.ErrEmptyNickname)
	assert.Equal(t, 0, api.calls)
}

func TestLogout_ClearsSession(t *testing.T) {
	store := session.NewStore("")
	require.NoError(t, store.Set(model.Session{UserID: "7", Nickname: "boss"}))

	auth := NewAuth(&stubLoginAPI{}, store, "", nil)

	require.NoError(t, auth.Logout())
	assert.Empty(t, store.UserID())
}
