package auth

import (
	"context"

	"portfolio/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Clear()
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}

// Actor loads the logged in user; blocked or deleted accounts are anonymous
func (s *Session) Actor(ctx context.Context, store *models.Store) Actor {
	id := s.UserID()
	if id == 0 {
		return Actor{}
	}
	user, err := store.FindUser(ctx, id)
	if err != nil || CheckPreAuth(user) != nil {
		return Actor{}
	}
	return ActorFor(user)
}
