package auth

import (
	"net/http"

	"portfolio/models"

	"github.com/gin-gonic/gin"
)

type Permission uint8

const (
	PermissionUser  Permission = 0 // any logged in, active account
	PermissionAdmin Permission = 1
)

// User is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, actor Actor)

// Router is a wrapper class that adds auth checks + Actor pre-loading
type Router struct {
	Base  gin.IRoutes
	Store *models.Store
	// Resolve overrides the session lookup, tests use it to inject an actor
	Resolve func(c *gin.Context) Actor
}

func (cr *Router) actor(c *gin.Context) Actor {
	if cr.Resolve != nil {
		return cr.Resolve(c)
	}
	return LoadSession(c).Actor(c.Request.Context(), cr.Store)
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []Permission) {
	actor := cr.actor(c)
	if !actor.LoggedIn() || !actor.HasPermissions(required) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, actor)
}

func (a Actor) HasPermissions(required []Permission) bool {
	for _, p := range required {
		if p == PermissionAdmin && !a.Admin {
			return false
		}
	}
	return true
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}
