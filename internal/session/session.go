// Package session keeps the signed-in identity. The identity survives
// restarts as four secure-storage keys; there is no token — the remote
// API authenticates each login call and returns a plain user object.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/models"
	"github.com/kmalykh/shop_mobile/internal/securestore"
)

const (
	keyUserID = "userId"
	keyEmail  = "email"
	keyLogin  = "login"
	keyRole   = "role"
)

type Session struct {
	api *api.Client
	kv  *securestore.Store
	log *slog.Logger

	mu   sync.Mutex
	user *models.User
}

func New(client *api.Client, kv *securestore.Store, log *slog.Logger) *Session {
	return &Session{api: client, kv: kv, log: log.With("component", "session")}
}

// Restore rebuilds the identity from storage at startup. Anything short
// of four valid keys means signed out, not an error.
func (s *Session) Restore() {
	userID, ok1 := s.kv.Get(keyUserID)
	email, ok2 := s.kv.Get(keyEmail)
	login, ok3 := s.kv.Get(keyLogin)
	role, ok4 := s.kv.Get(keyRole)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		s.log.Warn("stored user id is not a uuid, ignoring", "error", err)
		return
	}

	s.mu.Lock()
	s.user = &models.User{UserID: userID, Email: email, Login: login, RoleName: role}
	s.mu.Unlock()
}

func (s *Session) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, s.remember(user)
}

func (s *Session) Register(ctx context.Context, login, email, password string) (*models.User, error) {
	user, err := s.api.Register(ctx, login, email, password)
	if err != nil {
		return nil, err
	}
	return user, s.remember(user)
}

func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	for _, key := range []string{keyUserID, keyEmail, keyLogin, keyRole} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) remember(user *models.User) error {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	pairs := [][2]string{
		{keyUserID, user.UserID},
		{keyEmail, user.Email},
		{keyLogin, user.Login},
		{keyRole, user.RoleName},
	}
	for _, p := range pairs {
		if err := s.kv.Put(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}
