package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/config"
	"github.com/kmalykh/shop_mobile/internal/models"
	"github.com/kmalykh/shop_mobile/internal/securestore"
)

const testUserID = "2b5a7c1e-9d3f-4a6b-8c0d-1e2f3a4b5c6d"

func newTestSession(t *testing.T, e *echo.Echo) (*Session, *securestore.Store) {
	var baseURL string
	if e != nil {
		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}

	kv, err := securestore.Open(filepath.Join(t.TempDir(), "device.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	client := api.NewClient(config.Config{APIBaseURL: baseURL}, slog.Default())
	return New(client, kv, slog.Default()), kv
}

func loginEcho(t *testing.T) *echo.Echo {
	e := echo.New()
	e.POST("/users/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"user": models.User{
				UserID:   testUserID,
				Login:    "user",
				Email:    "user@test.ru",
				RoleName: "user",
			},
		})
	})
	return e
}

func TestLoginPersistsIdentity(t *testing.T) {
	sess, kv := newTestSession(t, loginEcho(t))

	user, err := sess.Login(context.Background(), "user@test.ru", "secret")
	require.NoError(t, err)
	require.Equal(t, testUserID, user.UserID)
	require.NotNil(t, sess.Current())

	kv.Flush()
	for key, want := range map[string]string{
		"userId": testUserID,
		"email":  "user@test.ru",
		"login":  "user",
		"role":   "user",
	} {
		v, ok := kv.Get(key)
		require.True(t, ok, key)
		require.Equal(t, want, v)
	}
}

func TestRestore(t *testing.T) {
	sess, kv := newTestSession(t, nil)
	require.NoError(t, kv.Put("userId", testUserID))
	require.NoError(t, kv.Put("email", "user@test.ru"))
	require.NoError(t, kv.Put("login", "user"))
	require.NoError(t, kv.Put("role", "user"))

	sess.Restore()

	user := sess.Current()
	require.NotNil(t, user)
	require.Equal(t, testUserID, user.UserID)
	require.Equal(t, "user", user.Login)
}

func TestRestoreIncompleteIdentity(t *testing.T) {
	sess, kv := newTestSession(t, nil)
	require.NoError(t, kv.Put("userId", testUserID))
	require.NoError(t, kv.Put("email", "user@test.ru"))

	sess.Restore()
	require.Nil(t, sess.Current())
}

func TestRestoreRejectsBadUserID(t *testing.T) {
	sess, kv := newTestSession(t, nil)
	require.NoError(t, kv.Put("userId", "not-a-uuid"))
	require.NoError(t, kv.Put("email", "user@test.ru"))
	require.NoError(t, kv.Put("login", "user"))
	require.NoError(t, kv.Put("role", "user"))

	sess.Restore()
	require.Nil(t, sess.Current())
}

func TestLogoutForgetsIdentity(t *testing.T) {
	sess, kv := newTestSession(t, loginEcho(t))

	_, err := sess.Login(context.Background(), "user@test.ru", "secret")
	require.NoError(t, err)

	require.NoError(t, sess.Logout())
	require.Nil(t, sess.Current())

	kv.Flush()
	for _, key := range []string{"userId", "email", "login", "role"} {
		_, ok := kv.Get(key)
		require.False(t, ok, key)
	}
}

func TestLoginRejectedLeavesSignedOut(t *testing.T) {
	e := echo.New()
	e.POST("/users/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Пользователя нет в системе"})
	})
	sess, _ := newTestSession(t, e)

	_, err := sess.Login(context.Background(), "ghost@test.ru", "nope")
	require.ErrorIs(t, err, api.ErrAuth)
	require.Nil(t, sess.Current())
}
