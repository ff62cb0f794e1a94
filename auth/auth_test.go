package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"portfolio/config"
	"portfolio/db"
	"portfolio/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *models.Store {
	t.Helper()
	gdb, err := db.Open(config.DatabaseConfig{SQLiteFile: filepath.Join(t.TempDir(), "test.db")}, false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return models.NewStore(gdb)
}

func createUser(t *testing.T, store *models.Store, email string, admin, active bool) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Active: active}
	if admin {
		u.Roles = []string{models.RoleAdmin}
	}
	require.NoError(t, u.SetPassword("password"))
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func TestCheckPreAuth(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		wantErr error
	}{
		{"active user", &models.User{Active: true}, nil},
		{"active admin", &models.User{Active: true, Roles: []string{models.RoleAdmin}}, nil},
		{"blocked user", &models.User{Active: false}, ErrAccountDisabled},
		{"blocked admin", &models.User{Active: false, Roles: []string{models.RoleAdmin}}, ErrAccountDisabled},
		{"no user", nil, ErrAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPreAuth(tt.user)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Your account has been blocked.", err.Error())
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	createUser(t, store, "guest@example.com", false, true)
	createUser(t, store, "blocked@example.com", false, false)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "guest@example.com", "password", nil},
		{"email is case insensitive", "Guest@Example.com", "password", nil},
		{"wrong password", "guest@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "password", ErrInvalidCredentials},
		{"blocked account", "blocked@example.com", "password", ErrAccountDisabled},
		{"blocked account with wrong password", "blocked@example.com", "nope", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Authenticate(ctx, store, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "guest@example.com", u.Email)
		})
	}
}

func TestActor(t *testing.T) {
	assert.False(t, Actor{}.LoggedIn())
	assert.False(t, Actor{ID: 3, Active: false}.LoggedIn())

	owner := uint64(3)
	a := ActorFor(&models.User{ID: 3, Active: true, Roles: []string{models.RoleUser}})
	assert.True(t, a.LoggedIn())
	assert.False(t, a.Admin)
	assert.True(t, a.Owns(&models.Media{UserID: &owner}))
	assert.False(t, a.Owns(&models.Media{}))
	assert.False(t, Actor{}.Owns(&models.Media{}))
	assert.Equal(t, Actor{}, ActorFor(nil))
}

func TestRouter_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		actor      Actor
		path       string
		wantStatus int
	}{
		{"anonymous on user route", Actor{}, "/user", http.StatusUnauthorized},
		{"guest on user route", Actor{ID: 2, Active: true}, "/user", http.StatusOK},
		{"blocked guest", Actor{ID: 2, Active: false}, "/user", http.StatusUnauthorized},
		{"guest on admin route", Actor{ID: 2, Active: true}, "/admin", http.StatusUnauthorized},
		{"admin on admin route", Actor{ID: 1, Active: true, Admin: true}, "/admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			r := &Router{Base: engine, Resolve: func(*gin.Context) Actor { return tt.actor }}
			var got Actor
			handler := func(c *gin.Context, actor Actor) {
				got = actor
				c.Status(http.StatusOK)
			}
			r.GET("/user", handler)
			r.GET("/admin", handler, PermissionAdmin)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.actor, got)
			} else {
				assert.JSONEq(t, `{"error":"access denied"}`, w.Body.String())
			}
		})
	}
}

func TestSession_ResolvesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	active := createUser(t, store, "active@example.com", false, true)
	blocked := createUser(t, store, "blocked@example.com", false, false)

	engine := gin.New()
	engine.Use(sessions.Sessions("portfolio", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	engine.POST("/login/:id", func(c *gin.Context) {
		id := active.ID
		if c.Param("id") == "blocked" {
			id = blocked.ID
		}
		require.NoError(t, LoadSession(c).LoginUser(&models.User{ID: id}))
		c.Status(http.StatusNoContent)
	})
	engine.POST("/logout", func(c *gin.Context) {
		require.NoError(t, LoadSession(c).LogoutUser())
		c.Status(http.StatusNoContent)
	})
	r := &Router{Base: engine, Store: store}
	r.GET("/me", func(c *gin.Context, actor Actor) {
		c.JSON(http.StatusOK, gin.H{"id": actor.ID})
	})

	do := func(method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	login := do(http.MethodPost, "/login/active", nil)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)
	w = do(http.MethodGet, "/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	logout := do(http.MethodPost, "/logout", cookies)
	w = do(http.MethodGet, "/me", logout.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	blockedLogin := do(http.MethodPost, "/login/blocked", nil)
	w = do(http.MethodGet, "/me", blockedLogin.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code, "blocked accounts lose their session")
}
