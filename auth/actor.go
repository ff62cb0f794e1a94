package auth

import "portfolio/models"

// Actor is who performs a request. The zero value is an anonymous visitor.
type Actor struct {
	ID     uint64
	Name   string
	Admin  bool
	Active bool
}

func ActorFor(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{
		ID:     u.ID,
		Name:   u.Name,
		Admin:  u.IsAdmin(),
		Active: u.Active,
	}
}

func (a Actor) LoggedIn() bool {
	return a.ID != 0 && a.Active
}

// Owns tells whether the media belongs to the actor
func (a Actor) Owns(m *models.Media) bool {
	return a.ID != 0 && m.UserID != nil && *m.UserID == a.ID
}
