package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"portfolio/config"
	"portfolio/db"
	"portfolio/models"
	"portfolio/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine *gin.Engine
	store  *models.Store
	disk   *storage.DiskStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.Open(config.DatabaseConfig{SQLiteFile: filepath.Join(t.TempDir(), "test.db")}, false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	disk, err := storage.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	f := &fixture{engine: gin.New(), store: models.NewStore(gdb), disk: disk}
	site := &Site{Store: f.store, Storage: disk, MediaDir: "uploads/"}
	site.Register(f.engine)
	return f
}

func (f *fixture) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body := map[string]any{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func (f *fixture) user(t *testing.T, name string, admin, active bool) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Active: active, Description: name + " takes pictures"}
	if admin {
		u.Roles = []string{models.RoleAdmin}
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) media(t *testing.T, n int, owner *models.User, album *models.Album) {
	t.Helper()
	for i := 0; i < n; i++ {
		m := &models.Media{Title: fmt.Sprintf("%s %d", owner.Name, i), Path: "uploads/x.webp", UserID: &owner.ID}
		if album != nil {
			m.AlbumID = &album.ID
		}
		require.NoError(t, f.store.DB.Create(m).Error)
	}
}

func mediaTotal(body map[string]any) float64 {
	return body["media"].(map[string]any)["total"].(float64)
}

func mediaItems(body map[string]any) []any {
	return body["media"].(map[string]any)["items"].([]any)
}

func TestHomeAndAbout(t *testing.T) {
	f := newFixture(t)
	code, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["owner"])
	code, _ = f.get(t, "/about")
	assert.Equal(t, http.StatusNotFound, code)

	f.user(t, "Ina Zaoui", true, true)
	code, body = f.get(t, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ina Zaoui", body["owner"].(map[string]any)["name"])
	code, body = f.get(t, "/about")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ina Zaoui takes pictures", body["description"])
}

func TestGuests(t *testing.T) {
	f := newFixture(t)
	f.user(t, "admin", true, true)
	long := f.user(t, "writer", false, true)
	long.Description = strings.Repeat("lorem ipsum ", 20)
	require.NoError(t, f.store.SaveUser(context.Background(), long))
	f.user(t, "blocked", false, false)

	code, body := f.get(t, "/guests")
	require.Equal(t, http.StatusOK, code)
	guests := body["guests"].([]any)
	require.Len(t, guests, 1)
	g := guests[0].(map[string]any)
	assert.Equal(t, "writer", g["name"])
	assert.True(t, strings.HasSuffix(g["description"].(string), "…"))
}

func TestGuest(t *testing.T) {
	f := newFixture(t)
	active := f.user(t, "active", false, true)
	blocked := f.user(t, "blocked", false, false)
	f.media(t, 8, active, nil)
	f.media(t, 2, blocked, nil)

	code, body := f.get(t, fmt.Sprintf("/guest/%d", active.ID))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(8), mediaTotal(body))
	assert.Len(t, mediaItems(body), 6)

	_, body = f.get(t, fmt.Sprintf("/guest/%d?page=2", active.ID))
	assert.Len(t, mediaItems(body), 2)

	code, _ = f.get(t, fmt.Sprintf("/guest/%d", blocked.ID))
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.get(t, "/guest/999")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.get(t, "/guest/abc")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPortfolio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.user(t, "admin", true, true)
	guest := f.user(t, "guest", false, true)
	nature := &models.Album{Name: "Nature"}
	require.NoError(t, f.store.SaveAlbum(ctx, nature))
	f.media(t, 3, admin, nature)
	f.media(t, 4, admin, nil)
	f.media(t, 5, guest, nil)

	code, body := f.get(t, "/portfolio")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["albums"].([]any), 1)
	assert.Nil(t, body["album"])
	assert.Equal(t, float64(7), mediaTotal(body), "admin media only")
	assert.Len(t, mediaItems(body), 6)

	_, body = f.get(t, fmt.Sprintf("/portfolio/%d", nature.ID))
	assert.Equal(t, "Nature", body["album"].(map[string]any)["name"])
	assert.Equal(t, float64(3), mediaTotal(body))

	_, body = f.get(t, "/portfolio/42")
	assert.Nil(t, body["album"])
	assert.Equal(t, float64(7), mediaTotal(body), "unknown album falls back to the owner")
}

func TestServeFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.disk.Save(context.Background(), "uploads/a.webp", strings.NewReader("RIFF"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/a.webp", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RIFF", w.Body.String())
	assert.Contains(t, w.Header().Get("cache-control"), "max-age=")

	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.webp", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
